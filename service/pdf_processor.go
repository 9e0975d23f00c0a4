package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MinTextChars is the non-whitespace character count below which a document
// is treated as image-only.
const MinTextChars = 20

// glyphGapFactor is the horizontal gap, relative to the font size, up to which
// consecutive glyphs belong to the same text fragment.
const glyphGapFactor = 0.3

type PDFProcessor interface {
	ExtractText(pdfData []byte, password string) (string, error)
	ExtractImages(pdfData []byte, password string) ([]image.Image, error)
	Inspect(pdfData []byte, password string) (*dto.DocumentInfo, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// Fragment is a run of text the renderer placed at one position.
type Fragment struct {
	X    float64
	Y    float64
	Text string
}

// ExtractText returns the line-grouped text of every page. It fails with
// dto.ErrNoExtractableText when the result is below MinTextChars.
func (p *pdfProcessor) ExtractText(pdfData []byte, password string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := openReader(pdfData, password)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := make([][]Fragment, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, MergeGlyphs(page.Content().Text))
	}

	return AcceptText(BuildLines(pages))
}

func openReader(pdfData []byte, password string) (*pdf.Reader, error) {
	ra := bytes.NewReader(pdfData)
	size := int64(len(pdfData))
	if password == "" {
		return pdf.NewReader(ra, size)
	}
	// The reader keeps asking until it gets "", so the password is offered once.
	offered := false
	return pdf.NewReaderEncrypted(ra, size, func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
}

// MergeGlyphs joins the per-glyph output of the PDF reader into fragments:
// a glyph continues the current fragment when it sits on the same rounded
// baseline and starts close to where the previous glyph ended.
func MergeGlyphs(glyphs []pdf.Text) []Fragment {
	var out []Fragment
	var cur strings.Builder
	var curX, curY, endX float64
	open := false

	flush := func() {
		if open && strings.TrimSpace(cur.String()) != "" {
			out = append(out, Fragment{X: curX, Y: curY, Text: strings.TrimSpace(cur.String())})
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		y := math.Round(g.Y)
		tol := math.Max(g.FontSize*glyphGapFactor, 0.5)
		if open && y == curY && g.X >= endX-tol && g.X <= endX+tol {
			cur.WriteString(g.S)
			endX = g.X + g.W
			continue
		}
		flush()
		cur.WriteString(g.S)
		curX, curY, endX = g.X, y, g.X+g.W
		open = true
	}
	flush()
	return out
}

// BuildLines groups each page's fragments by rounded Y, orders the groups
// top to bottom and joins fragments with a space and lines with a newline.
// Fragments keep the order the renderer emitted them in. Pages without
// fragments contribute nothing.
func BuildLines(pages [][]Fragment) string {
	pageTexts := make([]string, 0, len(pages))
	for _, frags := range pages {
		if len(frags) == 0 {
			continue
		}
		groups := make(map[float64][]string)
		var ys []float64
		for _, f := range frags {
			y := math.Round(f.Y)
			if _, seen := groups[y]; !seen {
				ys = append(ys, y)
			}
			groups[y] = append(groups[y], f.Text)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			lines = append(lines, strings.Join(groups[y], " "))
		}
		pageTexts = append(pageTexts, strings.Join(lines, "\n"))
	}
	return strings.Join(pageTexts, "\n")
}

// AcceptText applies the image-only threshold to acquired text.
func AcceptText(text string) (string, error) {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	if count < MinTextChars {
		return "", dto.ErrNoExtractableText
	}
	return text, nil
}

func pdfcpuConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
	}
	return conf
}

// Inspect reads the document structure and reports page count and encryption.
func (p *pdfProcessor) Inspect(pdfData []byte, password string) (*dto.DocumentInfo, error) {
	ctx, err := api.ReadContext(bytes.NewReader(pdfData), pdfcpuConfig(password))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return &dto.DocumentInfo{
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}, nil
}

// ExtractImages pulls the embedded page images so they can be OCR'd.
func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "vaeba-pdf-images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "document.pdf")
	if err := os.WriteFile(pdfPath, pdfData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}

	outDir := filepath.Join(tempDir, "images")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}

	// nil selects every page
	if err := api.ExtractImagesFile(pdfPath, outDir, nil, pdfcpuConfig(password)); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		imgFile, err := os.Open(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}

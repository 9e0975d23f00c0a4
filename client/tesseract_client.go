package client

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

type TesseractClient struct {
	dataPath string
	language string
	logger   *slog.Logger
}

func NewTesseractClient(dataPath, language string, logger *slog.Logger) *TesseractClient {
	if language == "" {
		language = "por"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
		logger:   logger,
	}
}

func (tc *TesseractClient) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage(tc.language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return client, nil
}

// Check runs the engine once on a blank image so a missing library or
// language pack is reported at startup rather than on the first upload.
func (tc *TesseractClient) Check() error {
	blank := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	if _, _, err := tc.ExtractTextFromImage(blank); err != nil {
		return fmt.Errorf("tesseract check failed: %w", err)
	}
	return nil
}

// ExtractTextFromImage OCRs one page image and returns the text together
// with the mean word confidence (0 when no boxes are reported).
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	client, err := tc.newClient()
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// If bounding boxes fail, just return text and 0 confidence
		tc.logger.Debug("ocr.boxes_failed", "error", err)
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}
	tc.logger.Debug("ocr.page", "chars", len(text), "words", len(boxes), "confidence", avgConf)

	return text, avgConf, nil
}

package service

import (
	"errors"
	"image"
	"io"
	"log/slog"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePDF serves canned text in place of a real document.
type fakePDF struct {
	text      string
	textErr   error
	images    []image.Image
	imagesErr error
	info      *dto.DocumentInfo
}

func (f *fakePDF) ExtractText(_ []byte, _ string) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return AcceptText(f.text)
}

func (f *fakePDF) ExtractImages(_ []byte, _ string) ([]image.Image, error) {
	return f.images, f.imagesErr
}

func (f *fakePDF) Inspect(_ []byte, _ string) (*dto.DocumentInfo, error) {
	if f.info == nil {
		return nil, errors.New("no structure")
	}
	return f.info, nil
}

type fakeOCR struct {
	checkErr error
	text     string
	calls    int
}

func (f *fakeOCR) Check() error { return f.checkErr }

func (f *fakeOCR) ExtractTextFromImage(_ image.Image) (string, float64, error) {
	f.calls++
	return f.text, 90, nil
}

const payslipText = `
Nome: MARIA SILVA   Matrícula 445566
TOTAL DOS PROVENTOS PETROS 5.000,00
CONTRIBUIÇÃO PETROS 1.000,00
CONTRIB. EXTRAORD PPSP 200,00
TOTAL DOS DESCONTOS PETROS 1.500,00
LÍQUIDO PETROS 3.500,00
`

const taxFilingText = `
DECLARAÇÃO DE AJUSTE ANUAL - IMPOSTO SOBRE A RENDA
NOME: MARIA OUTRA      CPF: 123.456.789-00
`

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

type TesseractClient struct {
	dataPath string
	language string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
		language: "eng",
	}
}

// OCRPage is the word level output for one image.
type OCRPage struct {
	Tokens     []layout.Token
	Confidence float64
}

// ExtractTokensFromBytes runs OCR over an in-memory image.
func (tc *TesseractClient) ExtractTokensFromBytes(ctx context.Context, data []byte, filename string) (*OCRPage, error) {
	tempFile, err := tc.CreateTempFile(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile)

	return tc.ExtractTokens(ctx, tempFile)
}

// CreateTempFile copies content to a temporary file keeping the extension
func (tc *TesseractClient) CreateTempFile(r io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	tempFile, err := os.CreateTemp("", "ocr-*"+ext)
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, r); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}

	return tempFile.Name(), nil
}

// ExtractTokens returns one token per recognised word, positioned at the
// word box's left edge and vertical centre in pixel coordinates.
func (tc *TesseractClient) ExtractTokens(ctx context.Context, filePath string) (*OCRPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(tc.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(filePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	page := &OCRPage{Tokens: make([]layout.Token, 0, len(boxes))}
	var totalConf float64
	for _, box := range boxes {
		word := strings.TrimSpace(norm.NFKC.String(box.Word))
		if word == "" {
			continue
		}
		page.Tokens = append(page.Tokens, layout.Token{
			X:     float64(box.Box.Min.X),
			Y:     float64(box.Box.Min.Y+box.Box.Max.Y) / 2,
			Width: float64(box.Box.Dx()),
			Text:  word,
		})
		totalConf += box.Confidence
	}
	if n := len(page.Tokens); n > 0 {
		page.Confidence = totalConf / float64(n)
	}

	return page, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}

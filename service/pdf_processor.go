package service

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

const (
	// glyphs further apart than this fraction of the font size start a new token
	wordGapRatio = 0.3
	// baseline drift tolerated inside one token, in points
	baselineTolerance = 0.5
)

// PageImage is an embedded image pulled out of a PDF page.
type PageImage struct {
	Name string
	Data []byte
}

type PDFProcessor interface {
	ExtractPages(pdfData []byte, password string) ([]layout.RawPage, error)
	ExtractImages(pdfData []byte, password string) ([]PageImage, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractPages returns the positioned tokens of every page. Coordinates are
// PDF points with Y measured down from the top of the page.
func (p *pdfProcessor) ExtractPages(pdfData []byte, password string) ([]layout.RawPage, error) {
	r, err := p.openReader(pdfData, password)
	if err != nil {
		return nil, err
	}

	totalPage := r.NumPage()
	pages := make([]layout.RawPage, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			pages = append(pages, layout.RawPage{Number: pageIndex, Scale: layout.DefaultScale})
			continue
		}

		glyphs, err := pageGlyphs(page)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", dto.ErrExtractionFailed, pageIndex, err)
		}

		height := pageHeight(page, glyphs)
		tokens := coalesceGlyphs(glyphs)
		for i := range tokens {
			tokens[i].Y = height - tokens[i].Y
		}

		pages = append(pages, layout.RawPage{
			Number: pageIndex,
			Tokens: tokens,
			Scale:  layout.DefaultScale,
		})
	}

	return pages, nil
}

func (p *pdfProcessor) openReader(pdfData []byte, password string) (*pdf.Reader, error) {
	if password != "" {
		decrypted, err := decrypt(pdfData, password)
		if err != nil {
			return nil, err
		}
		pdfData = decrypted
	}

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err == nil {
		return r, nil
	}
	if password != "" {
		return nil, fmt.Errorf("%w: %v", dto.ErrExtractionFailed, err)
	}

	// owner-password-only files open with an empty user password
	decrypted, derr := decrypt(pdfData, "")
	if derr != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrExtractionFailed, err)
	}
	r, err = pdf.NewReader(bytes.NewReader(decrypted), int64(len(decrypted)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrExtractionFailed, err)
	}
	return r, nil
}

func decrypt(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}

// pageGlyphs reads the page content stream. The reader panics on some
// malformed streams, which is reported as an error instead.
func pageGlyphs(page pdf.Page) (glyphs []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// pageHeight reads the MediaBox, inherited through the page tree when the
// page itself has none. Without one the topmost glyph is used.
func pageHeight(page pdf.Page, glyphs []pdf.Text) float64 {
	v := page.V
	for depth := 0; depth < 16 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return box.Index(3).Float64() - box.Index(1).Float64()
		}
		v = v.Key("Parent")
	}

	top := 0.0
	for _, g := range glyphs {
		top = math.Max(top, g.Y+g.FontSize)
	}
	return top
}

// coalesceGlyphs merges the per-glyph output of the content stream into
// word tokens. A token ends at whitespace, a baseline change, a horizontal
// gap wider than a fraction of the font size, or a jump backwards.
func coalesceGlyphs(glyphs []pdf.Text) []layout.Token {
	var (
		tokens []layout.Token
		sb     strings.Builder
		cur    layout.Token
		end    float64
		size   float64
		open   bool
	)

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimSpace(norm.NFKC.String(sb.String()))
		if text != "" {
			cur.Text = text
			cur.Width = end - cur.X
			tokens = append(tokens, cur)
		}
		sb.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}

		if open {
			gap := g.X - end
			if math.Abs(g.Y-cur.Y) > baselineTolerance ||
				gap > wordGapRatio*math.Max(size, g.FontSize) ||
				g.X < cur.X {
				flush()
			}
		}

		if !open {
			cur = layout.Token{X: g.X, Y: g.Y}
			size = g.FontSize
			open = true
		}
		sb.WriteString(g.S)
		end = g.X + g.W
	}
	flush()

	return tokens
}

// ExtractImages returns the images embedded in the first page, which is
// where scanned pay stubs carry their content.
func (p *pdfProcessor) ExtractImages(pdfData []byte, password string) ([]PageImage, error) {
	if password != "" {
		decrypted, err := decrypt(pdfData, password)
		if err != nil {
			return nil, err
		}
		pdfData = decrypted
	}

	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, []string{"1"}, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []PageImage
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		images = append(images, PageImage{Name: file.Name(), Data: data})
	}

	return images, nil
}

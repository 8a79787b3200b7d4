package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/paystub-extraction/client"
	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/report"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

var stubRows = []string{
	"Regular Payroll 12/31/2024",
	"Pay Period",
	"12/17/2024 - 12/31/2024",
	"Rate: Sen Grp Rate Effective",
	"12 II $245.67 01/05/2025",
	"Operational Pay 245.67 30.00 7,370.10",
	"Earnings Total 9,410.73",
	"Withholding Tax 1,350.00",
	"EE Social Security Tax 583.46",
	"EE Medicare Tax 136.45",
	"Summary Gross Earnings Pre-Tax Deduction Taxes After-Tax Deduction Net Pay",
	"Current 9,410.73 660.03 2,069.91 483.06 6,197.73",
}

func tokensOf(rows []string) []layout.Token {
	var tokens []layout.Token
	for i, row := range rows {
		tokens = append(tokens, layout.LineOf(float64(i*12), strings.Fields(row)...).Items...)
	}
	return tokens
}

type fakePDF struct {
	pages  map[string][]string
	images []PageImage
	err    error
}

func (f *fakePDF) ExtractPages(pdfData []byte, password string) ([]layout.RawPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []layout.RawPage{{Number: 1, Tokens: tokensOf(f.pages[string(pdfData)]), Scale: layout.DefaultScale}}, nil
}

func (f *fakePDF) ExtractImages(pdfData []byte, password string) ([]PageImage, error) {
	return f.images, nil
}

type fakeOCR struct {
	rows []string
	conf float64
}

func (f *fakeOCR) ExtractTokensFromBytes(ctx context.Context, data []byte, filename string) (*client.OCRPage, error) {
	if f.rows == nil {
		return nil, errors.New("unreadable image")
	}
	// OCR pixel coordinates are ten times the synthetic point grid
	tokens := tokensOf(f.rows)
	for i := range tokens {
		tokens[i].Y *= 10
		tokens[i].X *= 10
	}
	return &client.OCRPage{Tokens: tokens, Confidence: f.conf}, nil
}

type memoryStore struct {
	mu      sync.Mutex
	entries []dto.HistoryEntry
}

func (m *memoryStore) Save(ctx context.Context, entry dto.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryStore) List(ctx context.Context, from, to time.Time) ([]dto.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func newTestService(pdf PDFProcessor, ocr OCR, store HistoryStore) *PaystubService {
	return NewPaystubService(ocr, pdf, store, Options{MaxFileSize: 1 << 20, OCREnabled: true})
}

func TestParseDocument(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(&fakePDF{pages: map[string][]string{"stub": stubRows}}, nil, store)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "dec.pdf", Data: []byte("stub")})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, dto.StrategyPositional, resp.Strategy)
	assert.Equal(t, "12/31/2024", resp.Fields["regularPayRoll"])
	assert.Equal(t, "7370.10", resp.Fields["operationalPayCurrent"])
	assert.Equal(t, "6197.73", resp.Fields["netPay"])
	assert.Equal(t, "pdf_text", resp.Quality.Source)
	assert.True(t, resp.Reconciliation.Balanced)

	require.Len(t, store.entries, 1)
	assert.Equal(t, resp.ID, store.entries[0].ID)
	assert.Equal(t, "12/31/2024", store.entries[0].PayDate)
}

func TestParseDocumentRegexFallback(t *testing.T) {
	// without the summary header the positional classifier finds nothing
	rows := []string{"Gross Earnings", "Current 9,410.73 660.03 2,069.91 483.06 6,197.73"}
	pdf := &fakePDF{pages: map[string][]string{"x": rows}}
	svc := newTestService(pdf, nil, nil)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "a.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, dto.StrategyRegex, resp.Strategy)
	assert.Equal(t, "9410.73", resp.Fields["gross"])
}

func TestParseDocumentExplicitStrategy(t *testing.T) {
	pdf := &fakePDF{pages: map[string][]string{"stub": stubRows}}
	svc := newTestService(pdf, nil, nil)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{
		Filename: "dec.pdf",
		Data:     []byte("stub"),
		Strategy: dto.StrategyRegex,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.StrategyRegex, resp.Strategy)
	assert.Equal(t, "7370.10", resp.Fields["operationalPayCurrent"])
}

func TestParseDocumentScannedPDF(t *testing.T) {
	pdf := &fakePDF{
		pages:  map[string][]string{"scan": {"Page 1"}},
		images: []PageImage{{Name: "img-1.png", Data: []byte("png")}},
	}
	svc := newTestService(pdf, &fakeOCR{rows: stubRows, conf: 91}, nil)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "scan.pdf", Data: []byte("scan")})
	require.NoError(t, err)
	assert.Equal(t, "ocr", resp.Quality.Source)
	assert.InDelta(t, 91, resp.Quality.OcrConfidence, 0.001)
	assert.Equal(t, "6197.73", resp.Fields["netPay"])
}

func TestParseDocumentScannedPDFOCRFails(t *testing.T) {
	pdf := &fakePDF{
		pages:  map[string][]string{"scan": {"Page 1"}},
		images: []PageImage{{Name: "img-1.png", Data: []byte("png")}},
	}
	svc := newTestService(pdf, &fakeOCR{}, nil)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "scan.pdf", Data: []byte("scan")})
	require.NoError(t, err)
	assert.Contains(t, resp.Quality.Issues, "scanned_pdf_ocr_failed")
	assert.Equal(t, "0", resp.Fields["netPay"])
}

func TestParseDocumentImage(t *testing.T) {
	svc := newTestService(&fakePDF{}, &fakeOCR{rows: stubRows, conf: 40}, nil)

	resp, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "stub.png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "12/31/2024", resp.Fields["regularPayRoll"])
	assert.Contains(t, resp.Quality.Issues, "low_quality_document")

	noOCR := NewPaystubService(nil, &fakePDF{}, nil, Options{})
	_, err = noOCR.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "stub.png", Data: []byte("png")})
	assert.ErrorIs(t, err, dto.ErrUnsupportedFile)
}

func TestParseDocumentErrors(t *testing.T) {
	svc := newTestService(&fakePDF{err: dto.ErrExtractionFailed}, nil, nil)

	_, err := svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "a.pdf", Data: []byte("x")})
	assert.ErrorIs(t, err, dto.ErrExtractionFailed)

	_, err = svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "a.docx", Data: []byte("x")})
	assert.ErrorIs(t, err, dto.ErrUnsupportedFile)

	_, err = svc.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "a.pdf", Data: make([]byte, 2<<20)})
	assert.ErrorIs(t, err, dto.ErrFileTooLarge)
}

func TestParseBatch(t *testing.T) {
	pdf := &fakePDF{pages: map[string][]string{"stub": stubRows}}
	svc := newTestService(pdf, nil, nil)

	batch := svc.ParseBatch(context.Background(), []*dto.ParseRequest{
		{Filename: "one.pdf", Data: []byte("stub")},
		{Filename: "bad.txt", Data: []byte("stub")},
		{Filename: "two.pdf", Data: []byte("stub")},
	})

	require.Len(t, batch.Results, 2)
	assert.Equal(t, "one.pdf", batch.Results[0].Filename)
	assert.Equal(t, "two.pdf", batch.Results[1].Filename)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "bad.txt", batch.Failures[0].Filename)
}

func TestBuildReport(t *testing.T) {
	pdf := &fakePDF{pages: map[string][]string{"stub": stubRows}}
	svc := newTestService(pdf, nil, nil)

	book, batch, err := svc.BuildReport(context.Background(), nil, []*dto.ParseRequest{
		{Filename: "dec.pdf", Data: []byte("stub")},
	})
	require.NoError(t, err)
	assert.Len(t, batch.Results, 1)

	periods, err := report.ReadPeriods(book)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "31Dec2024", periods[0].Sheet)

	_, _, err = svc.BuildReport(context.Background(), book, []*dto.ParseRequest{
		{Filename: "again.pdf", Data: []byte("stub")},
	})
	assert.ErrorIs(t, err, dto.ErrPeriodExists)

	_, _, err = svc.BuildReport(context.Background(), nil, nil)
	assert.ErrorIs(t, err, dto.ErrNoFiles)
}

func TestParseBatchFailuresKeepInputOrder(t *testing.T) {
	pdf := &fakePDF{pages: map[string][]string{"stub": stubRows}}
	svc := newTestService(pdf, nil, nil)

	names := []string{"a.txt", "b.docx", "c.csv", "d.zip", "e.txt"}
	reqs := make([]*dto.ParseRequest, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, &dto.ParseRequest{Filename: name, Data: []byte("stub")})
	}

	for i := 0; i < 20; i++ {
		batch := svc.ParseBatch(context.Background(), reqs)
		require.Len(t, batch.Failures, len(names))
		for j, f := range batch.Failures {
			assert.Equal(t, names[j], f.Filename)
		}
	}
}

func TestBuildReportSkipsUndatedRecords(t *testing.T) {
	pdf := &fakePDF{pages: map[string][]string{
		"stub":    stubRows,
		"undated": stubRows[1:],
	}}
	svc := newTestService(pdf, nil, nil)

	book, batch, err := svc.BuildReport(context.Background(), nil, []*dto.ParseRequest{
		{Filename: "dec.pdf", Data: []byte("stub")},
		{Filename: "nodate.pdf", Data: []byte("undated")},
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "dec.pdf", batch.Results[0].Filename)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "nodate.pdf", batch.Failures[0].Filename)
	assert.Contains(t, batch.Failures[0].Error, report.ErrNoPayDate.Error())

	periods, err := report.ReadPeriods(book)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "31Dec2024", periods[0].Sheet)

	_, _, err = svc.BuildReport(context.Background(), nil, []*dto.ParseRequest{
		{Filename: "nodate.pdf", Data: []byte("undated")},
	})
	assert.ErrorIs(t, err, dto.ErrExtractionFailed)
}

func TestParseDocumentDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	pdf := &fakePDF{pages: map[string][]string{"stub": stubRows}}
	quiet := newTestService(pdf, nil, nil)
	_, err := quiet.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "dec.pdf", Data: []byte("stub")})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Tokenized dec.pdf")

	buf.Reset()
	verbose := NewPaystubService(nil, pdf, nil, Options{MaxFileSize: 1 << 20, Debug: true})
	_, err = verbose.ParseDocument(context.Background(), &dto.ParseRequest{Filename: "dec.pdf", Data: []byte("stub")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Tokenized dec.pdf: 1 pages")
	assert.Contains(t, buf.String(), "from pdf_text")
}

func TestHistory(t *testing.T) {
	svc := newTestService(&fakePDF{}, nil, nil)
	_, err := svc.History(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, dto.ErrStoreDisabled)
}

package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aashish23092/paystub-extraction/client"
	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/report"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
	"github.com/Aashish23092/paystub-extraction/utils/paystub"
)

const (
	// DefaultMinTokens is the token count below which page one is treated
	// as scanned and sent to OCR.
	DefaultMinTokens = 20

	lowQualityScore = 60.0
)

// OCR turns an image into positioned word tokens.
type OCR interface {
	ExtractTokensFromBytes(ctx context.Context, data []byte, filename string) (*client.OCRPage, error)
}

// HistoryStore persists parsed pay stubs.
type HistoryStore interface {
	Save(ctx context.Context, entry dto.HistoryEntry) error
	List(ctx context.Context, from, to time.Time) ([]dto.HistoryEntry, error)
}

type Options struct {
	MaxFileSize int64
	Strategy    dto.Strategy
	OCREnabled  bool
	MinTokens   int
	// Debug logs per-document token counts and reconciliation notes.
	Debug bool
}

type PaystubService struct {
	ocr          OCR
	pdfProcessor PDFProcessor
	store        HistoryStore
	opts         Options
}

// NewPaystubService wires the extraction pipeline. ocr and store may be nil.
func NewPaystubService(ocr OCR, pdfProcessor PDFProcessor, store HistoryStore, opts Options) *PaystubService {
	if opts.MinTokens <= 0 {
		opts.MinTokens = DefaultMinTokens
	}
	if opts.Strategy == "" {
		opts.Strategy = dto.StrategyAuto
	}
	return &PaystubService{
		ocr:          ocr,
		pdfProcessor: pdfProcessor,
		store:        store,
		opts:         opts,
	}
}

// ParseDocument extracts one pay stub.
func (s *PaystubService) ParseDocument(ctx context.Context, req *dto.ParseRequest) (*dto.ParseResponse, error) {
	if err := req.Validate(s.opts.MaxFileSize); err != nil {
		return nil, err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.opts.Strategy
	}

	raw, quality, err := s.tokenize(ctx, req)
	if err != nil {
		return nil, err
	}
	pages := layout.BuildPages(raw)
	if s.opts.Debug {
		tokens := 0
		for _, p := range pages {
			tokens += p.TokenCount()
		}
		log.Printf("Tokenized %s: %d pages, %d tokens from %s", req.Filename, len(pages), tokens, quality.Source)
	}

	rec, used := Extract(pages, strategy)
	flat := paystub.Flatten(rec)
	if err := paystub.ValidateFlat(flat); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrExtractionFailed, err)
	}

	resp := &dto.ParseResponse{
		ID:             uuid.NewString(),
		Filename:       req.Filename,
		Strategy:       used,
		Record:         rec,
		Fields:         flat,
		Quality:        quality,
		Reconciliation: Reconcile(rec),
		ProcessedAt:    time.Now().Format(time.RFC3339),
	}
	log.Printf("Parsed %s with %s strategy: %d fields filled", req.Filename, used, paystub.FilledFields(flat))
	if s.opts.Debug {
		for _, note := range resp.Reconciliation.Notes {
			log.Printf("Reconciliation %s: %s", req.Filename, note)
		}
	}

	if s.store != nil {
		entry := dto.HistoryEntry{
			ID:       resp.ID,
			PayDate:  flat["regularPayRoll"],
			Filename: req.Filename,
			Fields:   flat,
		}
		if err := s.store.Save(ctx, entry); err != nil {
			log.Printf("Failed to store history for %s: %v", req.Filename, err)
			resp.Quality.Issues = append(resp.Quality.Issues, "history_not_saved")
		}
	}

	return resp, nil
}

// Extract runs the requested strategy over reconstructed pages. Auto tries
// the positional classifier first and falls back to the regex parser when
// it fills nothing. The strategy that produced the record is returned.
func Extract(pages []layout.Page, strategy dto.Strategy) (dto.ParsedRecord, dto.Strategy) {
	switch strategy {
	case dto.StrategyPositional:
		return paystub.Parse(pages), dto.StrategyPositional
	case dto.StrategyRegex:
		return paystub.ParseText(layout.Text(pages)), dto.StrategyRegex
	}

	rec := paystub.Parse(pages)
	if paystub.FilledFields(paystub.Flatten(rec)) > 0 {
		return rec, dto.StrategyPositional
	}
	return paystub.ParseText(layout.Text(pages)), dto.StrategyRegex
}

func (s *PaystubService) tokenize(ctx context.Context, req *dto.ParseRequest) ([]layout.RawPage, dto.DocumentQuality, error) {
	quality := dto.DocumentQuality{Issues: []string{}}

	if !req.IsPDF() {
		if !s.opts.OCREnabled || s.ocr == nil {
			return nil, quality, fmt.Errorf("%w: image uploads need OCR", dto.ErrUnsupportedFile)
		}
		page, err := s.ocr.ExtractTokensFromBytes(ctx, req.Data, req.Filename)
		if err != nil {
			return nil, quality, fmt.Errorf("%w: image OCR failed: %v", dto.ErrExtractionFailed, err)
		}
		setOCRQuality(&quality, page)
		return []layout.RawPage{{Number: 1, Tokens: page.Tokens, Scale: layout.OCRScale}}, quality, nil
	}

	raw, err := s.pdfProcessor.ExtractPages(req.Data, req.Password)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", req.Filename, err)
		return nil, quality, err
	}

	quality.Source = "pdf_text"
	quality.OcrConfidence = 100
	quality.FinalScore = 100
	if len(raw) > 0 {
		quality.TokenCount = len(raw[0].Tokens)
	}
	if quality.TokenCount >= s.opts.MinTokens {
		return raw, quality, nil
	}

	log.Printf("PDF %s has minimal text on page one, attempting image-based OCR", req.Filename)
	if !s.opts.OCREnabled || s.ocr == nil {
		quality.Issues = append(quality.Issues, "scanned_pdf_ocr_disabled")
		return raw, quality, nil
	}

	page, err := s.ocrFirstPage(ctx, req)
	if err != nil {
		log.Printf("OCR failed for %s: %v", req.Filename, err)
		quality.Issues = append(quality.Issues, "scanned_pdf_ocr_failed")
		return raw, quality, nil
	}

	setOCRQuality(&quality, page)
	ocrPage := layout.RawPage{Number: 1, Tokens: page.Tokens, Scale: layout.OCRScale}
	if len(raw) == 0 {
		return []layout.RawPage{ocrPage}, quality, nil
	}
	raw[0] = ocrPage
	return raw, quality, nil
}

// ocrFirstPage OCRs every image embedded in page one and keeps the one
// yielding the most words.
func (s *PaystubService) ocrFirstPage(ctx context.Context, req *dto.ParseRequest) (*client.OCRPage, error) {
	images, err := s.pdfProcessor.ExtractImages(req.Data, req.Password)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images on page one")
	}

	var best *client.OCRPage
	for _, img := range images {
		page, err := s.ocr.ExtractTokensFromBytes(ctx, img.Data, img.Name)
		if err != nil {
			log.Printf("OCR failed for image %s in %s: %v", img.Name, req.Filename, err)
			continue
		}
		if best == nil || len(page.Tokens) > len(best.Tokens) {
			best = page
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no image could be read")
	}
	return best, nil
}

func setOCRQuality(q *dto.DocumentQuality, page *client.OCRPage) {
	q.Source = "ocr"
	q.TokenCount = len(page.Tokens)
	q.OcrConfidence = page.Confidence
	q.FinalScore = page.Confidence
	if q.FinalScore < lowQualityScore {
		q.Issues = append(q.Issues, "low_quality_document")
	}
}

// ParseBatch parses documents concurrently. Results and failures keep the
// input order; documents that fail are reported individually.
func (s *PaystubService) ParseBatch(ctx context.Context, reqs []*dto.ParseRequest) *dto.BatchResponse {
	type indexedFailure struct {
		index   int
		failure dto.BatchFailure
	}

	results := make([]*dto.ParseResponse, len(reqs))
	var failures []indexedFailure
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *dto.ParseRequest) {
			defer wg.Done()

			resp, err := s.ParseDocument(ctx, req)
			if err != nil {
				log.Printf("Failed to process file %s: %v", req.Filename, err)
				mu.Lock()
				failures = append(failures, indexedFailure{i, dto.BatchFailure{Filename: req.Filename, Error: err.Error()}})
				mu.Unlock()
				return
			}
			results[i] = resp
		}(i, req)
	}

	wg.Wait()

	sort.Slice(failures, func(a, b int) bool { return failures[a].index < failures[b].index })

	batch := &dto.BatchResponse{
		Results:     []dto.ParseResponse{},
		Failures:    make([]dto.BatchFailure, 0, len(failures)),
		ProcessedAt: time.Now().Format(time.RFC3339),
	}
	for _, r := range results {
		if r != nil {
			batch.Results = append(batch.Results, *r)
		}
	}
	for _, f := range failures {
		batch.Failures = append(batch.Failures, f.failure)
	}
	return batch
}

// BuildReport parses the documents and adds one sheet per pay period to
// the existing workbook, or to a new one when existing is empty. Documents
// that fail to parse or carry no regular payroll date are listed in the
// batch failures; the call fails only when none is left to report.
func (s *PaystubService) BuildReport(ctx context.Context, existing []byte, reqs []*dto.ParseRequest) ([]byte, *dto.BatchResponse, error) {
	if len(reqs) == 0 {
		return nil, nil, dto.ErrNoFiles
	}

	batch := s.ParseBatch(ctx, reqs)

	dated := make([]dto.ParseResponse, 0, len(batch.Results))
	for _, r := range batch.Results {
		if _, err := report.NewPeriod(r.Fields); err != nil {
			log.Printf("Leaving %s out of the report: %v", r.Filename, err)
			batch.Failures = append(batch.Failures, dto.BatchFailure{Filename: r.Filename, Error: err.Error()})
			continue
		}
		dated = append(dated, r)
	}
	batch.Results = dated

	if len(batch.Results) == 0 {
		return nil, batch, fmt.Errorf("%w: %s", dto.ErrExtractionFailed, batch.Failures[0].Error)
	}

	flats := make([]dto.FlatRecord, 0, len(batch.Results))
	for _, r := range batch.Results {
		flats = append(flats, r.Fields)
	}

	workbook, err := report.Build(existing, flats)
	if err != nil {
		return nil, batch, err
	}
	return workbook, batch, nil
}

// History lists stored pay stubs within [from, to].
func (s *PaystubService) History(ctx context.Context, from, to time.Time) ([]dto.HistoryEntry, error) {
	if s.store == nil {
		return nil, dto.ErrStoreDisabled
	}
	return s.store.List(ctx, from, to)
}

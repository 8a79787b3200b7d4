package dto

import "errors"

// Custom errors
var (
	ErrExtractionFailed = errors.New("failed to extract data from document")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoFiles          = errors.New("no files provided")
	ErrPeriodExists     = errors.New("pay period already present in workbook")
	ErrStoreDisabled    = errors.New("history store is not configured")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ParseResponse is the result of parsing a single pay stub.
type ParseResponse struct {
	ID             string          `json:"id"`
	Filename       string          `json:"filename"`
	Strategy       Strategy        `json:"strategy"`
	Record         ParsedRecord    `json:"record"`
	Fields         FlatRecord      `json:"fields"`
	Quality        DocumentQuality `json:"quality"`
	Reconciliation Reconciliation  `json:"reconciliation"`
	ProcessedAt    string          `json:"processed_at"`
}

type BatchFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BatchResponse struct {
	Results     []ParseResponse `json:"results"`
	Failures    []BatchFailure  `json:"failures"`
	ProcessedAt string          `json:"processed_at"`
}

// HistoryEntry is one stored pay period.
type HistoryEntry struct {
	ID        string     `json:"id"`
	PayDate   string     `json:"pay_date"`
	Filename  string     `json:"filename"`
	Fields    FlatRecord `json:"fields"`
	CreatedAt string     `json:"created_at"`
}

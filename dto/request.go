package dto

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Strategy string

const (
	StrategyAuto       Strategy = "auto"
	StrategyPositional Strategy = "positional"
	StrategyRegex      Strategy = "regex"
)

// ParseStrategy validates a strategy name. An empty name selects auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyPositional:
		return StrategyPositional, nil
	case StrategyRegex:
		return StrategyRegex, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// ParseRequest is one uploaded pay stub.
type ParseRequest struct {
	Filename string
	Data     []byte
	Password string
	Strategy Strategy
}

// IsPDF reports whether the upload is a PDF rather than a scanned image.
func (r *ParseRequest) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(r.Filename), ".pdf")
}

// Validate performs basic validation on the request
func (r *ParseRequest) Validate(maxFileSize int64) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, r.Filename)
	}
	if maxFileSize > 0 && int64(len(r.Data)) > maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(r.Data), maxFileSize)
	}
	if !supportedExtensions[strings.ToLower(filepath.Ext(r.Filename))] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, r.Filename)
	}
	return nil
}

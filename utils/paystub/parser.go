package paystub

import (
	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

// Parse classifies the first page of a document. Every call starts from a
// fresh record and a fresh State, so results never depend on earlier calls.
func Parse(pages []layout.Page) dto.ParsedRecord {
	rec := dto.NewParsedRecord()
	if len(pages) == 0 {
		return rec
	}

	st := NewState()
	lines := pages[0].Lines
	var prev *layout.Line
	for i := range lines {
		var next *layout.Line
		if i+1 < len(lines) {
			next = &lines[i+1]
		}
		ClassifyLine(lines[i], prev, next, &rec, st)
		prev = &lines[i]
	}
	return rec
}

// ParseLines is Parse for a single page of already reconstructed lines.
func ParseLines(lines []layout.Line) dto.ParsedRecord {
	return Parse([]layout.Page{{Number: 1, Lines: lines}})
}

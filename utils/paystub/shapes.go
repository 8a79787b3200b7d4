package paystub

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/paystub-extraction/dto"
)

// Shape predicates for the rate/seniority/group header block, whose
// columns arrive in no fixed order.
var (
	seniorityPattern = regexp.MustCompile(`^\d{2}$`)
	groupPattern     = regexp.MustCompile(`^[IVX]+$|^[A-Z]{1,2}$`)
	ratePattern      = regexp.MustCompile(`^\d+\.\d{2}$`)
	datePattern      = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	dateRangePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*-\s*(\d{1,2}/\d{1,2}/\d{4})`)
)

func looksLikeSeniorityYear(tok string) bool {
	return seniorityPattern.MatchString(tok)
}

func looksLikeGroupCode(tok string) bool {
	return groupPattern.MatchString(tok)
}

func looksLikeHourlyRate(tok string) bool {
	return strings.Contains(tok, "$") || ratePattern.MatchString(tok)
}

func looksLikeDate(tok string) bool {
	return strings.Contains(tok, "/")
}

// headerValues is what a header values line resolved to.
type headerValues struct {
	seniority string
	group     string
	rate      dto.Amount
	effective string
}

func (h headerValues) resolved() bool {
	return h.seniority != "" || h.rate.Valid || h.effective != ""
}

// resolveHeaderValues classifies each whitespace separated token by shape.
// The first token of each shape wins.
func resolveHeaderValues(text string) headerValues {
	var h headerValues
	for _, tok := range strings.Fields(text) {
		switch {
		case h.seniority == "" && looksLikeSeniorityYear(tok):
			h.seniority = tok
		case h.group == "" && looksLikeGroupCode(tok):
			h.group = tok
		case !h.rate.Valid && looksLikeHourlyRate(tok):
			h.rate = dto.AmountOf(tok)
		case h.effective == "" && looksLikeDate(tok):
			h.effective = tok
		}
	}
	return h
}

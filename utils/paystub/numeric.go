package paystub

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

var numericPattern = regexp.MustCompile(`^(-)?\$?(\d[\d,]*(?:\.\d+)?)$`)

// ExtractNumericValues returns the numeric tokens of a line in reading
// order with currency markers and thousands separators removed. A token
// repeated at the exact same position is counted once.
func ExtractNumericValues(line layout.Line) []string {
	var values []string
	for i, item := range line.Items {
		if i > 0 && line.Items[i-1] == item {
			continue
		}
		if v, ok := cleanNumeric(item.Text); ok {
			values = append(values, v)
		}
	}
	return values
}

// extractAmounts is ExtractNumericValues in decimal form.
func extractAmounts(line layout.Line) []dto.Amount {
	values := ExtractNumericValues(line)
	amounts := make([]dto.Amount, 0, len(values))
	for _, v := range values {
		amounts = append(amounts, dto.AmountOf(v))
	}
	return amounts
}

func cleanNumeric(text string) (string, bool) {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	m := numericPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + strings.ReplaceAll(m[2], ",", ""), true
}

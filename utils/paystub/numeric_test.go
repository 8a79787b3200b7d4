package paystub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

func TestExtractNumericValues(t *testing.T) {
	line := layout.LineOf(0, "Operational", "Pay", "$1,234.56", "-45.00", "12/31/2024", ",", "7", "$", "401k")
	assert.Equal(t, []string{"1234.56", "-45.00", "7"}, ExtractNumericValues(line))
}

func TestExtractNumericValuesStripsInnerWhitespace(t *testing.T) {
	line := layout.Line{Items: []layout.Token{{X: 1, Text: "9, 410.73"}}}
	assert.Equal(t, []string{"9410.73"}, ExtractNumericValues(line))
}

func TestExtractNumericValuesSkipsDuplicateRendering(t *testing.T) {
	dup := layout.Token{X: 40, Y: 10, Text: "483.06"}
	line := layout.Line{Y: 10, Items: []layout.Token{
		{X: 0, Y: 10, Text: "Tax"},
		dup,
		dup,
		{X: 80, Y: 10, Text: "483.06"},
	}}
	// the second copy at the same position is dropped, the later column is not
	assert.Equal(t, []string{"483.06", "483.06"}, ExtractNumericValues(line))
}

func TestExtractNumericValuesEmpty(t *testing.T) {
	assert.Empty(t, ExtractNumericValues(layout.Line{}))
}

func TestShapePredicates(t *testing.T) {
	assert.True(t, looksLikeSeniorityYear("12"))
	assert.False(t, looksLikeSeniorityYear("123"))
	assert.False(t, looksLikeSeniorityYear("1"))

	assert.True(t, looksLikeGroupCode("II"))
	assert.True(t, looksLikeGroupCode("XIV"))
	assert.True(t, looksLikeGroupCode("FO"))
	assert.False(t, looksLikeGroupCode("ABC"))
	assert.False(t, looksLikeGroupCode("12"))

	assert.True(t, looksLikeHourlyRate("$45.67"))
	assert.True(t, looksLikeHourlyRate("45.67"))
	assert.False(t, looksLikeHourlyRate("45.6"))
	assert.False(t, looksLikeHourlyRate("12"))

	assert.True(t, looksLikeDate("01/05/2025"))
	assert.False(t, looksLikeDate("2025-01-05"))
}

func TestResolveHeaderValuesOrderIndependent(t *testing.T) {
	orders := []string{
		"II 12 $45.67 01/05/2025",
		"12 II 01/05/2025 $45.67",
		"01/05/2025 $45.67 12 II",
	}
	for _, text := range orders {
		h := resolveHeaderValues(text)
		assert.Equal(t, "12", h.seniority, text)
		assert.Equal(t, "II", h.group, text)
		assert.Equal(t, "45.67", h.rate.String(), text)
		assert.Equal(t, "01/05/2025", h.effective, text)
		assert.True(t, h.resolved())
	}
}

func TestResolveHeaderValuesNothing(t *testing.T) {
	assert.False(t, resolveHeaderValues("Seniority Group Rate").resolved())
}

func TestMatcher(t *testing.T) {
	m := matcher{all: []string{"PLT", "EXP"}, words: []string{"D"}, none: []string{"ADJ"}}
	assert.True(t, m.matches("PLT EXP D Taxable"))
	assert.False(t, m.matches("PLT EXP ADJ Taxable"))
	assert.False(t, m.matches("PLT EXP DX Taxable"))

	either := matcher{any: []string{"a b", "c d"}}
	assert.True(t, either.matches("x c d"))
	assert.False(t, either.matches("a c"))
}

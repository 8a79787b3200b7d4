package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructOrdersLinesAndItems(t *testing.T) {
	tokens := []Token{
		{X: 300, Y: 120.2, Text: "660.03"},
		{X: 10, Y: 50.1, Text: "Summary"},
		{X: 100, Y: 119.8, Text: "9,410.73"},
		{X: 80, Y: 49.9, Text: "Gross"},
		{X: 10, Y: 85, Text: "Current"},
	}

	lines := Reconstruct(tokens, DefaultScale)
	require.Len(t, lines, 3)

	assert.Equal(t, "Summary Gross", lines[0].Text())
	assert.Equal(t, "Current", lines[1].Text())
	assert.Equal(t, "9,410.73 660.03", lines[2].Text())

	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i-1].Y, lines[i].Y)
	}
}

func TestReconstructKeepsDuplicates(t *testing.T) {
	tokens := []Token{
		{X: 10, Y: 20, Text: "483.06"},
		{X: 10, Y: 20, Text: "483.06"},
	}

	lines := Reconstruct(tokens, DefaultScale)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Items, 2)
}

func TestReconstructScale(t *testing.T) {
	tokens := []Token{
		{X: 10, Y: 101, Text: "Sick"},
		{X: 60, Y: 104, Text: "Pay"},
		{X: 10, Y: 131, Text: "Sit"},
	}

	// pixel coordinates from OCR need a coarser band
	lines := Reconstruct(tokens, OCRScale)
	require.Len(t, lines, 2)
	assert.Equal(t, "Sick Pay", lines[0].Text())

	assert.Len(t, Reconstruct(tokens, DefaultScale), 3)
}

func TestReconstructEmpty(t *testing.T) {
	assert.Empty(t, Reconstruct(nil, DefaultScale))
}

func TestBuildPagesAndText(t *testing.T) {
	pages := BuildPages([]RawPage{
		{Number: 1, Scale: DefaultScale, Tokens: []Token{
			{X: 50, Y: 10, Text: "Period"},
			{X: 10, Y: 10, Text: "Pay"},
		}},
	})

	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 2, pages[0].TokenCount())
	assert.Equal(t, "Pay Period\n", Text(pages))
}

func TestLineOf(t *testing.T) {
	l := LineOf(3, "Sick", "Pay", "1.00")
	assert.Equal(t, "Sick Pay 1.00", l.Text())
	assert.Less(t, l.Items[0].X, l.Items[1].X)
}

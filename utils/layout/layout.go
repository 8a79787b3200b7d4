package layout

import (
	"math"
	"sort"
	"strings"
)

const (
	// DefaultScale quantizes PDF point coordinates to whole points.
	DefaultScale = 1.0
	// OCRScale quantizes pixel coordinates from OCR into 10px bands.
	OCRScale = 0.1
)

// Token is a positioned text fragment. Y grows downward from the top of the page.
type Token struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
	Text  string  `json:"text"`
}

// Line is a group of tokens sharing a quantized baseline, ordered by X.
type Line struct {
	Y     float64 `json:"y"`
	Items []Token `json:"items"`
}

// Text joins the line's fragments with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		parts = append(parts, it.Text)
	}
	return strings.Join(parts, " ")
}

// Page is a reconstructed page in reading order.
type Page struct {
	Number int    `json:"number"`
	Lines  []Line `json:"lines"`
}

// RawPage is the tokenizer's unordered output for one page.
type RawPage struct {
	Number int
	Tokens []Token
	Scale  float64
}

// Reconstruct groups tokens into lines by round(y*scale), sorts lines top
// to bottom and items left to right. Tokens at identical positions are
// all kept.
func Reconstruct(tokens []Token, scale float64) []Line {
	if scale <= 0 {
		scale = DefaultScale
	}

	groups := make(map[float64][]Token)
	for _, tok := range tokens {
		key := math.Round(tok.Y * scale)
		groups[key] = append(groups[key], tok)
	}

	lines := make([]Line, 0, len(groups))
	for y, items := range groups {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].X < items[j].X
		})
		lines = append(lines, Line{Y: y, Items: items})
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Y < lines[j].Y
	})
	return lines
}

// BuildPages reconstructs each raw page.
func BuildPages(raw []RawPage) []Page {
	pages := make([]Page, 0, len(raw))
	for _, rp := range raw {
		pages = append(pages, Page{
			Number: rp.Number,
			Lines:  Reconstruct(rp.Tokens, rp.Scale),
		})
	}
	return pages
}

// Text renders pages as newline separated lines.
func Text(pages []Page) string {
	var sb strings.Builder
	for _, p := range pages {
		for _, l := range p.Lines {
			sb.WriteString(l.Text())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// TokenCount returns the number of tokens across all lines of a page.
func (p Page) TokenCount() int {
	n := 0
	for _, l := range p.Lines {
		n += len(l.Items)
	}
	return n
}

// LineOf builds a line from plain words laid out left to right. It is a
// convenience for callers that only have text.
func LineOf(y float64, words ...string) Line {
	items := make([]Token, 0, len(words))
	x := 0.0
	for _, w := range words {
		width := float64(len(w)) * 5
		items = append(items, Token{X: x, Y: y, Width: width, Text: w})
		x += width + 5
	}
	return Line{Y: y, Items: items}
}

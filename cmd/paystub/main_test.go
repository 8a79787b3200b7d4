package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/report"
	"github.com/Aashish23092/paystub-extraction/service"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

type stubPDF struct{}

func (stubPDF) ExtractPages(pdfData []byte, password string) ([]layout.RawPage, error) {
	rows := []string{
		"Regular Payroll " + string(pdfData),
		"Summary Gross Earnings Pre-Tax Deduction Taxes After-Tax Deduction Net Pay",
		"Current 9,410.73 660.03 2,069.91 483.06 6,197.73",
	}
	var tokens []layout.Token
	for i, row := range rows {
		tokens = append(tokens, layout.LineOf(float64(i*12), strings.Fields(row)...).Items...)
	}
	return []layout.RawPage{{Number: 1, Tokens: tokens, Scale: layout.DefaultScale}}, nil
}

func (stubPDF) ExtractImages(pdfData []byte, password string) ([]service.PageImage, error) {
	return nil, nil
}

func writeStub(t *testing.T, dir, name, payDate string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(payDate), 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--in", "a.pdf", "-i", "b.pdf", "c.pdf", "--strategy", "regex", "--json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, opts.inputs)
	assert.Equal(t, dto.StrategyRegex, opts.strategy)
	assert.True(t, opts.asJSON)
	assert.True(t, opts.ocr)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags(nil)
	assert.Error(t, err)

	_, err = parseFlags([]string{"--in", "a.pdf", "--workbook", "old.xlsx"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--in", "a.pdf", "--strategy", "guess"})
	assert.Error(t, err)
}

func TestRunSummary(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewPaystubService(nil, stubPDF{}, nil, service.Options{MaxFileSize: 1 << 20})
	opts := &options{inputs: []string{writeStub(t, dir, "dec.pdf", "12/31/2024")}}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, opts, &out))
	assert.Contains(t, out.String(), "dec.pdf")
	assert.Contains(t, out.String(), "6197.73")
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewPaystubService(nil, stubPDF{}, nil, service.Options{MaxFileSize: 1 << 20})
	outPath := filepath.Join(dir, "report.xlsx")

	opts := &options{
		inputs: []string{writeStub(t, dir, "dec.pdf", "12/31/2024")},
		out:    outPath,
		asJSON: true,
	}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, opts, &out))
	assert.Contains(t, out.String(), `"netPay": "6197.73"`)

	// extend the workbook with a second period
	opts = &options{
		inputs:   []string{writeStub(t, dir, "jan.pdf", "01/15/2025")},
		out:      outPath,
		workbook: outPath,
	}
	require.NoError(t, run(context.Background(), svc, opts, &bytes.Buffer{}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	periods, err := report.ReadPeriods(data)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "31Dec2024", periods[0].Sheet)
	assert.Equal(t, "15Jan2025", periods[1].Sheet)
}

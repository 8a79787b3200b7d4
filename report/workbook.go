package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/utils/paystub"
)

const (
	EarningTotalsSheet   = "Earning Totals"
	DeductionTotalsSheet = "Deduction Totals"

	// SheetDateLayout names a period sheet after its regular payroll date.
	SheetDateLayout = "02Jan2006"
	payDateLayout   = "1/2/2006"

	currencyFormat = "$#,##0.00"
)

var ErrNoPayDate = errors.New("record has no readable regular payroll date")

// Period is one pay stub as stored in the workbook.
type Period struct {
	Sheet   string
	PayDate time.Time
	Fields  dto.FlatRecord
}

// NewPeriod derives the sheet name from the record's regular payroll date.
func NewPeriod(flat dto.FlatRecord) (Period, error) {
	raw := strings.TrimSpace(flat["regularPayRoll"])
	date, err := time.Parse(payDateLayout, raw)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrNoPayDate, raw)
	}
	return Period{Sheet: date.Format(SheetDateLayout), PayDate: date, Fields: flat}, nil
}

// Build merges records into an existing workbook, or a new one when
// existing is empty, and returns the rewritten file. A record whose pay
// period already has a sheet is rejected with dto.ErrPeriodExists.
func Build(existing []byte, records []dto.FlatRecord) ([]byte, error) {
	var periods []Period
	if len(existing) > 0 {
		read, err := ReadPeriods(existing)
		if err != nil {
			return nil, err
		}
		periods = read
	}

	seen := make(map[string]bool, len(periods))
	for _, p := range periods {
		seen[p.Sheet] = true
	}
	for _, rec := range records {
		p, err := NewPeriod(rec)
		if err != nil {
			return nil, err
		}
		if seen[p.Sheet] {
			return nil, fmt.Errorf("%w: %s", dto.ErrPeriodExists, p.Sheet)
		}
		seen[p.Sheet] = true
		periods = append(periods, p)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].PayDate.Before(periods[j].PayDate)
	})

	f, err := render(periods)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadPeriods loads every period sheet of a workbook written by Build.
// Totals sheets are recomputed on each build and are skipped.
func ReadPeriods(data []byte) ([]Period, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer f.Close()

	var periods []Period
	for _, sheet := range f.GetSheetList() {
		if sheet == EarningTotalsSheet || sheet == DeductionTotalsSheet {
			continue
		}
		date, err := time.Parse(SheetDateLayout, sheet)
		if err != nil {
			continue
		}

		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		periods = append(periods, Period{Sheet: sheet, PayDate: date, Fields: readFields(rows)})
	}
	return periods, nil
}

// period sheets hold one field per row: label, value, key. The key column
// is hidden and drives reading the sheet back.
func readFields(rows [][]string) dto.FlatRecord {
	flat := paystub.Flatten(dto.NewParsedRecord())
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		key := row[2]
		if _, ok := flat[key]; !ok {
			continue
		}
		flat[key] = cellToField(key, row[1])
	}
	return flat
}

func cellToField(key, raw string) string {
	raw = strings.TrimSpace(raw)
	if !paystub.IsNumericField(key) {
		return raw
	}
	if raw == "" {
		return "0"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	if key == "seniorityYear" || d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}

func render(periods []Period) (*excelize.File, error) {
	f := excelize.NewFile()
	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	for _, p := range periods {
		if err := writePeriodSheet(f, styles, p); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := writeEarningTotals(f, styles, periods); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDeductionTotals(f, styles, periods); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if index, _ := f.GetSheetIndex(EarningTotalsSheet); index >= 0 {
		f.SetActiveSheet(index)
	}
	return f, nil
}

type styles struct {
	title    int
	header   int
	currency int
	total    int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	fmtCode := currencyFormat
	if s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtCode}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &fmtCode}); err != nil {
		return s, err
	}
	return s, nil
}

func newSheet(f *excelize.File, name string) error {
	if index, _ := f.GetSheetIndex(name); index == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	return nil
}

func writePeriodSheet(f *excelize.File, st styles, p Period) error {
	if err := newSheet(f, p.Sheet); err != nil {
		return err
	}

	_ = f.SetCellValue(p.Sheet, "A1", "Regular Payroll")
	_ = f.SetCellValue(p.Sheet, "B1", p.Fields["regularPayRoll"])
	_ = f.SetCellValue(p.Sheet, "C1", "regularPayRoll")
	_ = f.SetCellStyle(p.Sheet, "A1", "B1", st.title)

	row := 2
	for _, key := range paystub.FieldNames() {
		if key == "regularPayRoll" {
			continue
		}
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		keyCell, _ := excelize.CoordinatesToCellName(3, row)

		_ = f.SetCellValue(p.Sheet, label, paystub.FieldLabel(key))
		_ = f.SetCellValue(p.Sheet, keyCell, key)
		if err := writeField(f, p.Sheet, value, key, p.Fields[key]); err != nil {
			return err
		}
		if paystub.IsNumericField(key) && key != "seniorityYear" {
			_ = f.SetCellStyle(p.Sheet, value, value, st.currency)
		}
		row++
	}

	_ = f.SetColWidth(p.Sheet, "A", "A", 34)
	_ = f.SetColWidth(p.Sheet, "B", "B", 24)
	return f.SetColVisible(p.Sheet, "C", false)
}

func writeField(f *excelize.File, sheet, cell, key, value string) error {
	if !paystub.IsNumericField(key) {
		return f.SetCellValue(sheet, cell, value)
	}
	amt := dto.FlatRecord{key: value}.Amount(key)
	if !amt.Valid {
		return nil
	}
	return f.SetCellValue(sheet, cell, amt.Value.InexactFloat64())
}

type column struct {
	key   string
	title string
}

func earningColumns() []column {
	var cols []column
	for _, key := range paystub.FieldNames() {
		if strings.HasSuffix(key, "Current") && key != "earningsTotalCurrent" {
			cols = append(cols, column{key, paystub.FieldLabel(key)})
		}
	}
	return append(cols,
		column{"earningsTotalCurrent", paystub.FieldLabel("earningsTotalCurrent")},
		column{"gross", paystub.FieldLabel("gross")},
		column{"netPay", paystub.FieldLabel("netPay")},
	)
}

var deductionColumns = []column{
	{"preTaxDeduct", "Pre-Tax Deductions"},
	{"medicalCoverage", "Medical Coverage"},
	{"dentalCoverage", "Dental Coverage"},
	{"visionCoverage", "Vision Coverage"},
	{"_401k", "401k"},
	{"taxes", "Taxes"},
	{"afterTaxDeduct", "After Tax Deductions"},
}

func writeEarningTotals(f *excelize.File, st styles, periods []Period) error {
	return writeTotals(f, st, EarningTotalsSheet, "Total Earnings", earningColumns(), periods)
}

func writeDeductionTotals(f *excelize.File, st styles, periods []Period) error {
	return writeTotals(f, st, DeductionTotalsSheet, "Total Deductions", deductionColumns, periods)
}

// writeTotals lays out one row per period and a SUM row underneath.
func writeTotals(f *excelize.File, st styles, sheet, title string, cols []column, periods []Period) error {
	if err := newSheet(f, sheet); err != nil {
		return err
	}

	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellStyle(sheet, "A1", "A1", st.title)
	_ = f.SetCellValue(sheet, "A2", "Date")
	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		_ = f.SetCellValue(sheet, cell, c.title)
	}
	last, _ := excelize.CoordinatesToCellName(len(cols)+1, 2)
	_ = f.SetCellStyle(sheet, "A2", last, st.header)

	row := 3
	for _, p := range periods {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, p.PayDate.Format(payDateLayout))
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			if err := f.SetCellValue(sheet, cell, p.Fields.Decimal(c.key).InexactFloat64()); err != nil {
				return err
			}
			_ = f.SetCellStyle(sheet, cell, cell, st.currency)
		}
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetCellValue(sheet, totalLabel, "Total")
	for i := range cols {
		colName, _ := excelize.ColumnNumberToName(i + 2)
		cell, _ := excelize.CoordinatesToCellName(i+2, row)
		formula := fmt.Sprintf("SUM(%s3:%s%d)", colName, colName, row-1)
		if len(periods) == 0 {
			formula = "0"
		}
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return err
		}
	}
	end, _ := excelize.CoordinatesToCellName(len(cols)+1, row)
	_ = f.SetCellStyle(sheet, totalLabel, end, st.total)

	_ = f.SetColWidth(sheet, "A", "A", 14)
	lastCol, _ := excelize.ColumnNumberToName(len(cols) + 1)
	return f.SetColWidth(sheet, "B", lastCol, 20)
}

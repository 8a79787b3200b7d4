package service

import (
	"github.com/shopspring/decimal"

	"github.com/Aashish23092/paystub-extraction/dto"
)

var reconcileTolerance = decimal.NewFromFloat(0.01)

// Reconcile compares the summary block against the line items it is built
// from. Checks whose inputs were not extracted are skipped with a note.
func Reconcile(rec dto.ParsedRecord) dto.Reconciliation {
	result := dto.Reconciliation{
		Checks: []dto.ReconciliationCheck{},
		Notes:  []string{},
	}
	sum := rec.Summary

	if sum.Gross.Valid && rec.Earnings.Total.Valid {
		result.Checks = append(result.Checks, check("gross_vs_earnings_total", rec.Earnings.Total.Value, sum.Gross.Value))
	} else {
		result.Notes = append(result.Notes, "Gross or earnings total not found; earnings check skipped")
	}

	if sum.Gross.Valid && sum.NetPay.Valid {
		expected := sum.Gross.Value.
			Sub(sum.PreTaxDeduct.Decimal()).
			Sub(sum.Taxes.Decimal()).
			Sub(sum.AfterTaxDeduct.Decimal())
		result.Checks = append(result.Checks, check("net_pay", expected, sum.NetPay.Value))
	} else {
		result.Notes = append(result.Notes, "Gross or net pay not found; net pay check skipped")
	}

	taxes := rec.Deductions.Taxes
	if sum.Taxes.Valid && (taxes.WithholdingTax.Valid || taxes.SocialSecurityTax.Valid || taxes.MedicareTax.Valid) {
		lines := taxes.WithholdingTax.Decimal().
			Add(taxes.SocialSecurityTax.Decimal()).
			Add(taxes.MedicareTax.Decimal())
		result.Checks = append(result.Checks, check("taxes_vs_tax_lines", lines, sum.Taxes.Value))
	} else {
		result.Notes = append(result.Notes, "Summary taxes or tax lines not found; tax check skipped")
	}

	result.Balanced = len(result.Checks) > 0
	for _, c := range result.Checks {
		if !c.Match {
			result.Balanced = false
			result.Notes = append(result.Notes, "Mismatch in "+c.Name+": expected "+c.Expected+", found "+c.Actual)
		}
	}
	return result
}

func check(name string, expected, actual decimal.Decimal) dto.ReconciliationCheck {
	return dto.ReconciliationCheck{
		Name:     name,
		Expected: expected.StringFixed(2),
		Actual:   actual.StringFixed(2),
		Match:    expected.Sub(actual).Abs().LessThanOrEqual(reconcileTolerance),
	}
}

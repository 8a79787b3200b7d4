package paystub

import (
	"strings"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/utils/layout"
)

// summaryFields are the five totals of the summary block, in column order.
var summaryFields = []string{"gross", "preTaxDeduct", "taxes", "afterTaxDeduct", "netPay"}

// ClassifyLine inspects one line and writes any fields it carries into rec.
// prev and next are the neighbouring lines, nil at the page edges. It never
// fails: a line that is not understood leaves rec untouched.
func ClassifyLine(line layout.Line, prev, next *layout.Line, rec *dto.ParsedRecord, st *State) {
	text := line.Text()

	if st.headerArmed > 0 {
		st.headerArmed--
		// a labelled row ends the header block
		if isLabelledLine(text, st) {
			st.headerArmed = 0
		} else if h := resolveHeaderValues(text); h.resolved() {
			st.headerArmed = 0
			applyHeader(rec, h)
			return
		}
	}

	if strings.Contains(text, "Rate:") && strings.Contains(text, "Sen") && strings.Contains(text, "Grp") {
		st.armHeader()
		return
	}

	if isPayPeriodLine(text) {
		bindPayPeriod(text, next, rec)
	}

	if classifySummary(line, text, rec, st) {
		return
	}

	r, ok := matchRule(text)
	if !ok {
		return
	}
	applyRule(r, line, prev, rec, st)
}

func isPayPeriodLine(text string) bool {
	return strings.Contains(text, "Pay") && strings.Contains(text, "Period")
}

func isSummaryHeader(text string) bool {
	return strings.Contains(text, "Summary") && strings.Contains(text, "Gross") && strings.Contains(text, "Net Pay")
}

// isLabelledLine reports whether a line belongs to the pay period, the
// summary block or the label table rather than the header values.
func isLabelledLine(text string, st *State) bool {
	if isPayPeriodLine(text) || isSummaryHeader(text) || st.summary != summaryIdle {
		return true
	}
	_, ok := matchRule(text)
	return ok
}

func applyHeader(rec *dto.ParsedRecord, h headerValues) {
	if h.seniority != "" {
		rec.Header.SeniorityYear = h.seniority
	}
	if h.group != "" {
		rec.Header.Group = h.group
	}
	if h.rate.Valid {
		rec.Header.HourlyRate = h.rate
	}
	if h.effective != "" {
		rec.Header.EffectivePeriod = h.effective
	}
}

// bindPayPeriod looks for "start - end" on the sentinel line, then on the
// line below it.
func bindPayPeriod(text string, next *layout.Line, rec *dto.ParsedRecord) {
	candidates := []string{text}
	if next != nil {
		candidates = append(candidates, next.Text())
	}
	for _, c := range candidates {
		if m := dateRangePattern.FindStringSubmatch(c); m != nil {
			rec.Header.PayPeriod = m[1] + " - " + m[2]
			return
		}
	}
}

// classifySummary drives the header -> "Current" -> values sequence of the
// summary block. It reports whether the line was consumed.
func classifySummary(line layout.Line, text string, rec *dto.ParsedRecord, st *State) bool {
	if isSummaryHeader(text) {
		st.summary = summarySeenHeader
		return true
	}

	switch st.summary {
	case summarySeenHeader:
		if !strings.Contains(text, "Current") || strings.Contains(text, "Employer") {
			return false
		}
		st.summary = summarySeenCurrent
		// some layouts print the totals on the marker line itself
		bindSummary(line, rec, st)
		return true
	case summarySeenCurrent:
		return bindSummary(line, rec, st)
	}
	return false
}

func bindSummary(line layout.Line, rec *dto.ParsedRecord, st *State) bool {
	values := extractAmounts(line)
	if len(values) < len(summaryFields) {
		return false
	}
	for i, key := range summaryFields {
		*amountSlotByKey[key].get(rec) = values[i]
	}
	st.resetSummary()
	return true
}

func applyRule(r rule, line layout.Line, prev *layout.Line, rec *dto.ParsedRecord, st *State) {
	switch r.kind {
	case kindTriple:
		values := extractAmounts(line)
		if len(values) < 3 && r.usePreviousRow && prev != nil {
			if pv := extractAmounts(*prev); len(pv) >= 3 {
				values = pv
			}
		}
		if len(values) < 3 {
			return
		}
		*earningSlotByKey[r.slot].get(rec) = dto.EarningLine{
			Rate:    values[0],
			Hours:   values[1],
			Current: values[2],
		}

	case kindSingle:
		values := extractAmounts(line)
		if len(values) == 0 {
			return
		}
		*amountSlotByKey[r.slot].get(rec) = values[0]

	case kindDate:
		if m := datePattern.FindString(line.Text()); m != "" {
			*textSlotByKey[r.slot].get(rec) = m
		}

	case kindRepeatedTax:
		values := extractAmounts(line)
		if len(values) == 0 {
			return
		}
		flags := st.taxes[r.slot]
		switch {
		case !flags.deduction:
			*amountSlotByKey[r.slot].get(rec) = values[0]
			flags.deduction = true
		case !flags.basis:
			*amountSlotByKey[r.basis].get(rec) = values[0]
			flags.basis = true
		}
		st.taxes[r.slot] = flags
	}
}

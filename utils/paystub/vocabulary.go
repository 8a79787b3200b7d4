package paystub

import "strings"

type ruleKind int

const (
	kindTriple ruleKind = iota
	kindSingle
	kindDate
	kindRepeatedTax
)

// matcher decides whether a line's text carries a label.
type matcher struct {
	all   []string // every substring present
	any   []string // at least one substring present, when set
	words []string // whole words present
	none  []string // no substring present
}

func (m matcher) matches(text string) bool {
	for _, s := range m.all {
		if !strings.Contains(text, s) {
			return false
		}
	}
	if len(m.any) > 0 {
		found := false
		for _, s := range m.any {
			if strings.Contains(text, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range m.none {
		if strings.Contains(text, s) {
			return false
		}
	}
	if len(m.words) > 0 {
		fields := strings.Fields(text)
		for _, w := range m.words {
			if !containsWord(fields, w) {
				return false
			}
		}
	}
	return true
}

func containsWord(fields []string, w string) bool {
	for _, f := range fields {
		if f == w {
			return true
		}
	}
	return false
}

// rule binds a label to its destination slot. slot names a key from
// slots.go; basis is the second destination of a repeated tax label.
type rule struct {
	name           string
	match          matcher
	kind           ruleKind
	slot           string
	basis          string
	usePreviousRow bool
}

func triple(name, slot string, m matcher) rule {
	return rule{name: name, match: m, kind: kindTriple, slot: slot}
}

func single(name, slot string, m matcher) rule {
	return rule{name: name, match: m, kind: kindSingle, slot: slot}
}

func repeatedTax(name, slot, basis string, m matcher) rule {
	return rule{name: name, match: m, kind: kindRepeatedTax, slot: slot, basis: basis}
}

func has(substrings ...string) matcher {
	return matcher{all: substrings}
}

// vocabulary is evaluated top to bottom and the first matching rule owns
// the line. Order encodes label priority: a label whose text is contained
// in another label must come after it or exclude it.
var vocabulary = []rule{
	{name: "regular payroll", match: has("Regular", "Payroll"), kind: kindDate, slot: keyRegularPayroll},

	triple("crew advance", "crewAdvance", has("Crew", "Advance")),

	// PLT EXP family: Non-Taxable before Taxable, ADJ before D and I.
	triple("plt exp adj non-taxable", "pltExpAdjnonTax",
		matcher{all: []string{"PLT", "EXP", "Non-Taxable", "ADJ"}}),
	triple("plt exp d non-taxable", "pltExpDnonTax",
		matcher{all: []string{"PLT", "EXP", "Non-Taxable"}, words: []string{"D"}, none: []string{"ADJ"}}),
	triple("plt exp i non-taxable", "pltExpInonTax",
		matcher{all: []string{"PLT", "EXP", "Non-Taxable"}, words: []string{"I"}, none: []string{"ADJ"}}),
	triple("plt exp adj taxable", "pltExpADJtax",
		matcher{all: []string{"PLT", "EXP", "Taxable", "ADJ"}, none: []string{"Non-Taxable"}}),
	triple("plt exp d taxable", "pltExpDtax",
		matcher{all: []string{"PLT", "EXP", "Taxable"}, words: []string{"D"}, none: []string{"Non-Taxable", "ADJ"}}),
	triple("plt exp i taxable", "pltExpItax",
		matcher{all: []string{"PLT", "EXP", "Taxable"}, words: []string{"I"}, none: []string{"Non-Taxable", "ADJ"}}),

	triple("aag profit sharing", "AagProfitSharing", has("AAG", "Profit Sharing")),
	triple("operational pay", "operationalPay", has("Operational Pay")),
	triple("flight training pay", "fltTrainingPay", has("Flight Training Pay")),
	triple("sit time", "sitTime", has("Sit Time")),
	{name: "pay above guarantee", match: has("Pay Above Guar"), kind: kindTriple, slot: "payAbvGuaranteeRsv", usePreviousRow: true},
	triple("ra prem", "raPrem", has("RA PREM")),
	triple("min guarantee adj", "minGuaranteeAdj", has("Min Guarantee Adj")),
	triple("intl override", "intlOverride", has("Intl Override")),
	triple("distance learning", "distanceLearning", has("Distance Learning")),
	triple("union pd leave", "unionPdLeave",
		matcher{any: []string{"Union Pd Union Leave", "Union PD Union Leave"}}),
	triple("prem incentive pay", "premIncentivePay", has("Prem Incentive Pay")),
	triple("flight vacation pay", "fltVacationPay", has("Flight Vacation Pay")),
	triple("sick pay", "sickPay", has("Sick Pay")),
	triple("prior year vacation payout", "priorYearVacPayout",
		matcher{any: []string{"Prior Year VC Pay Out", "Prior Year Vacation Pay Out"}}),
	single("earnings total", "earningsTotalCurrent", has("Earnings Total")),

	// Company contributions before the generic 401k label.
	single("401k company contribution", "_401kCompanyContribution", has("401k Company Contrib")),
	single("group term life", "groupTermLife", has("Group Term Life")),

	single("medical coverage", "medicalCoverage", has("Medical Coverage")),
	single("dental coverage", "dentalCoverage", has("Dental Coverage")),
	single("vision coverage", "visionCoverage", has("Vision Coverage")),
	single("accident insurance", "accidentInsPreTax", has("Accident Ins Pre-tax")),
	single("401k", "_401k", matcher{all: []string{"401k"}, none: []string{"Roth", "Company"}}),

	repeatedTax("withholding tax", "withholdingTax", "withHoldingTaxEarnings", has("Withholding Tax")),
	repeatedTax("social security tax", "socialSecurityTax", "socialSecurityTaxEarnings", has("EE Social Security Tax")),
	repeatedTax("medicare tax", "medicareTax", "medicareTaxEarnings", has("EE Medicare Tax")),

	single("roth 401k", "roth401k", has("Roth 401k")),
	single("employee life", "employeeLife", has("Employee Life")),
	single("dental discount plan", "dentalDiscountPlan", has("Dental Discount Plan")),
	single("pac apa", "pacAPA", has("PAC - APA")),
	single("union dues", "unionDues", has("Union Dues - APA")),
}

// matchRule returns the first rule claiming the line.
func matchRule(text string) (rule, bool) {
	for _, r := range vocabulary {
		if r.match.matches(text) {
			return r, true
		}
	}
	return rule{}, false
}

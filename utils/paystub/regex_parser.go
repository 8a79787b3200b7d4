package paystub

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/paystub-extraction/dto"
)

// The regex strategy reads the page as one string. It handles older stubs
// whose text does not survive line reconstruction, and is kept apart from
// the positional classifier.

const (
	num    = `(-?\$?[\d,]+(?:\.\d+)?)`
	numSep = `\s+`
)

func tripleRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*` + num + numSep + num + numSep + num)
}

func singleRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*` + num)
}

type textRule struct {
	slot string
	re   *regexp.Regexp
}

var regexTriples = []textRule{
	{"crewAdvance", tripleRe(`Crew\s*Advance`)},
	{"pltExpADJtax", tripleRe(`ADJ\s+Taxable`)},
	{"pltExpDtax", tripleRe(`\bD\s+Taxable`)},
	{"pltExpItax", tripleRe(`\bI\s+Taxable`)},
	{"AagProfitSharing", tripleRe(`Profit\s*Sharing`)},
	{"pltExpAdjnonTax", tripleRe(`ADJ\s+Non-Taxable`)},
	{"pltExpDnonTax", tripleRe(`\bD\s+Non-Taxable`)},
	{"pltExpInonTax", tripleRe(`\bI\s+Non-Taxable`)},
	{"operationalPay", tripleRe(`Operational\s*Pay`)},
	{"fltTrainingPay", tripleRe(`Flight\s*Training\s*Pay`)},
	{"sitTime", tripleRe(`Sit\s*Time`)},
	{"payAbvGuaranteeRsv", tripleRe(`Pay\s*Above\s*Guar(?:\s*\(RSV\))?`)},
	{"raPrem", tripleRe(`RA\s*PREM`)},
	{"minGuaranteeAdj", tripleRe(`Min\s*Guarantee\s*Adj`)},
	{"intlOverride", tripleRe(`Intl\s*Override`)},
	{"distanceLearning", tripleRe(`Distance\s*Learning`)},
	{"unionPdLeave", tripleRe(`Union\s*PD\s*Union\s*Leave`)},
	{"premIncentivePay", tripleRe(`Prem\s*Incentive\s*Pay`)},
	{"fltVacationPay", tripleRe(`Flight\s*Vacation\s*Pay`)},
	{"sickPay", tripleRe(`Sick\s*Pay`)},
	{"priorYearVacPayout", tripleRe(`Prior\s*Year\s*(?:Vacation|VC)\s*Pay\s*Out`)},
}

var regexSingles = []textRule{
	{"earningsTotalCurrent", singleRe(`Earnings\s*Total`)},
	{"medicalCoverage", singleRe(`Medical\s*Coverage`)},
	{"dentalCoverage", singleRe(`Dental\s*Coverage`)},
	{"visionCoverage", singleRe(`Vision\s*Coverage`)},
	{"accidentInsPreTax", singleRe(`Accident\s*Ins\s*Pre-tax`)},
	{"employeeLife", singleRe(`Employee\s*Life`)},
	{"dentalDiscountPlan", singleRe(`Dental\s*Discount\s*Plan`)},
	{"roth401k", singleRe(`Roth\s*401k`)},
	{"pacAPA", singleRe(`PAC\s*-\s*APA`)},
	{"unionDues", singleRe(`Union\s*Dues\s*-\s*APA`)},
	{"_401kCompanyContribution", singleRe(`401k\s*Company\s*Contrib\.*`)},
	{"groupTermLife", singleRe(`Group\s*Term\s*Life`)},
}

// first match binds the deduction, second the taxable earnings basis
var regexTaxes = []struct {
	slot, basis string
	re          *regexp.Regexp
}{
	{"withholdingTax", "withHoldingTaxEarnings", singleRe(`Withholding\s*Tax`)},
	{"socialSecurityTax", "socialSecurityTaxEarnings", singleRe(`Social\s*Security\s*Tax`)},
	{"medicareTax", "medicareTaxEarnings", singleRe(`Medicare\s*Tax`)},
}

var (
	generic401kRe     = singleRe(`401k`)
	rothPrefixRe      = regexp.MustCompile(`(?i)Roth\s*$`)
	summaryRe         = regexp.MustCompile(`(?i)Current((?:\s+` + num + `){1,5})`)
	payPeriodRangeRe  = regexp.MustCompile(`(?i)Pay\s*Period\D{0,40}?(\d{1,2}/\d{1,2}/\d{4})\s*-\s*(\d{1,2}/\d{1,2}/\d{4})`)
	payPeriodPhoneRe  = regexp.MustCompile(`(?i)1-800-447-2000\s*(\d+(?:/\d+)+)`)
	regularPayrollRe  = regexp.MustCompile(`(?i)Regular\s*Payroll\D{0,40}?(\d{1,2}/\d{1,2}/\d{4})`)
	effectiveHeaderRe = regexp.MustCompile(`(?i)Effective\s*(\d+)(?:\s+([A-Z]{2}))?(?:\s+\$?(\d+\.\d{2}))?`)
)

// ParseText extracts a record from the page text with one regular
// expression per field.
func ParseText(text string) dto.ParsedRecord {
	rec := dto.NewParsedRecord()

	if m := regularPayrollRe.FindStringSubmatch(text); m != nil {
		rec.Header.RegularPayroll = m[1]
	}
	if m := payPeriodRangeRe.FindStringSubmatch(text); m != nil {
		rec.Header.PayPeriod = m[1] + " - " + m[2]
	} else if m := payPeriodPhoneRe.FindStringSubmatch(text); m != nil {
		rec.Header.PayPeriod = m[1]
	}
	if m := effectiveHeaderRe.FindStringSubmatch(text); m != nil {
		rec.Header.SeniorityYear = m[1]
		rec.Header.Group = strings.ToUpper(m[2])
		if m[3] != "" {
			rec.Header.HourlyRate = dto.AmountOf(m[3])
		}
	}

	for _, tr := range regexTriples {
		if m := tr.re.FindStringSubmatch(text); m != nil {
			*earningSlotByKey[tr.slot].get(&rec) = dto.EarningLine{
				Rate:    dto.AmountOf(m[1]),
				Hours:   dto.AmountOf(m[2]),
				Current: dto.AmountOf(m[3]),
			}
		}
	}

	for _, sr := range regexSingles {
		if m := sr.re.FindStringSubmatch(text); m != nil {
			*amountSlotByKey[sr.slot].get(&rec) = dto.AmountOf(m[1])
		}
	}

	for _, loc := range generic401kRe.FindAllStringSubmatchIndex(text, -1) {
		if rothPrefixRe.MatchString(text[:loc[0]]) {
			continue
		}
		rec.Deductions.PreTax.K401 = dto.AmountOf(text[loc[2]:loc[3]])
		break
	}

	for _, tx := range regexTaxes {
		matches := tx.re.FindAllStringSubmatch(text, 2)
		if len(matches) > 0 {
			*amountSlotByKey[tx.slot].get(&rec) = dto.AmountOf(matches[0][1])
		}
		if len(matches) > 1 {
			*amountSlotByKey[tx.basis].get(&rec) = dto.AmountOf(matches[1][1])
		}
	}

	if m := summaryRe.FindStringSubmatch(text); m != nil {
		for i, v := range strings.Fields(m[1]) {
			if i >= len(summaryFields) {
				break
			}
			*amountSlotByKey[summaryFields[i]].get(&rec) = dto.AmountOf(v)
		}
	}

	return rec
}

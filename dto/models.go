package dto

import "github.com/shopspring/decimal"

type DocumentQuality struct {
	Source        string   `json:"source"` // "pdf_text" or "ocr"
	TokenCount    int      `json:"token_count"`
	OcrConfidence float64  `json:"ocr_confidence"`
	FinalScore    float64  `json:"final_score"`
	Issues        []string `json:"issues"`
}

// EarningLine is one rate/hours/current row of the earnings table.
type EarningLine struct {
	Rate    Amount `json:"rate"`
	Hours   Amount `json:"hours"`
	Current Amount `json:"current"`
}

type Header struct {
	RegularPayroll  string `json:"regularPayRoll"`
	PayPeriod       string `json:"payPeriod"`
	SeniorityYear   string `json:"seniorityYear"`
	Group           string `json:"group"`
	HourlyRate      Amount `json:"hourlyRate"`
	EffectivePeriod string `json:"effectivePeriod"`
}

type Earnings struct {
	CrewAdvance        EarningLine `json:"crewAdvance"`
	PltExpDTax         EarningLine `json:"pltExpDtax"`
	PltExpADJTax       EarningLine `json:"pltExpADJtax"`
	PltExpITax         EarningLine `json:"pltExpItax"`
	AagProfitSharing   EarningLine `json:"AagProfitSharing"`
	PltExpDNonTax      EarningLine `json:"pltExpDnonTax"`
	PltExpADJNonTax    EarningLine `json:"pltExpAdjnonTax"`
	PltExpINonTax      EarningLine `json:"pltExpInonTax"`
	OperationalPay     EarningLine `json:"operationalPay"`
	FltTrainingPay     EarningLine `json:"fltTrainingPay"`
	SitTime            EarningLine `json:"sitTime"`
	PayAbvGuaranteeRsv EarningLine `json:"payAbvGuaranteeRsv"`
	RaPrem             EarningLine `json:"raPrem"`
	MinGuaranteeAdj    EarningLine `json:"minGuaranteeAdj"`
	IntlOverride       EarningLine `json:"intlOverride"`
	DistanceLearning   EarningLine `json:"distanceLearning"`
	UnionPdLeave       EarningLine `json:"unionPdLeave"`
	PremIncentivePay   EarningLine `json:"premIncentivePay"`
	FltVacationPay     EarningLine `json:"fltVacationPay"`
	SickPay            EarningLine `json:"sickPay"`
	PriorYearVacPayout EarningLine `json:"priorYearVacPayout"`
	Total              Amount      `json:"earningsTotal"`
}

type PreTaxDeductions struct {
	MedicalCoverage   Amount `json:"medicalCoverage"`
	DentalCoverage    Amount `json:"dentalCoverage"`
	VisionCoverage    Amount `json:"visionCoverage"`
	AccidentInsPreTax Amount `json:"accidentInsPreTax"`
	K401              Amount `json:"_401k"`
}

// TaxDeductions holds the amounts withheld this period.
type TaxDeductions struct {
	WithholdingTax    Amount `json:"withholdingTax"`
	SocialSecurityTax Amount `json:"socialSecurityTax"`
	MedicareTax       Amount `json:"medicareTax"`
}

type AfterTaxDeductions struct {
	EmployeeLife       Amount `json:"employeeLife"`
	DentalDiscountPlan Amount `json:"dentalDiscountPlan"`
	Roth401k           Amount `json:"roth401k"`
	PacAPA             Amount `json:"pacAPA"`
	UnionDues          Amount `json:"unionDues"`
}

type Deductions struct {
	PreTax   PreTaxDeductions   `json:"preTax"`
	Taxes    TaxDeductions      `json:"taxes"`
	AfterTax AfterTaxDeductions `json:"afterTax"`
}

type CompanyContributions struct {
	K401CompanyContribution Amount `json:"_401kCompanyContribution"`
	GroupTermLife           Amount `json:"groupTermLife"`
}

// TaxableEarnings holds the earnings basis each tax was computed on.
type TaxableEarnings struct {
	WithholdingTaxEarnings    Amount `json:"withHoldingTaxEarnings"`
	SocialSecurityTaxEarnings Amount `json:"socialSecurityTaxEarnings"`
	MedicareTaxEarnings       Amount `json:"medicareTaxEarnings"`
}

type Summary struct {
	Gross          Amount `json:"gross"`
	PreTaxDeduct   Amount `json:"preTaxDeduct"`
	Taxes          Amount `json:"taxes"`
	AfterTaxDeduct Amount `json:"afterTaxDeduct"`
	NetPay         Amount `json:"netPay"`
}

// ParsedRecord is the nested result of classifying one pay stub.
type ParsedRecord struct {
	Header               Header               `json:"header"`
	Earnings             Earnings             `json:"earnings"`
	Deductions           Deductions           `json:"deductions"`
	CompanyContributions CompanyContributions `json:"companyContributions"`
	TaxableEarnings      TaxableEarnings      `json:"taxableEarnings"`
	Summary              Summary              `json:"summary"`
}

// NewParsedRecord returns a record with every field at its default.
func NewParsedRecord() ParsedRecord {
	return ParsedRecord{
		Header: Header{SeniorityYear: "0"},
	}
}

// FlatRecord maps the stable field vocabulary to string values. Numeric
// fields use "0" for values the document did not carry.
type FlatRecord map[string]string

// Amount reads a numeric field back into decimal form.
func (f FlatRecord) Amount(key string) Amount {
	v, ok := f[key]
	if !ok || v == "" || v == "0" {
		return Amount{}
	}
	return AmountOf(v)
}

// Decimal reads a numeric field, treating absent values as zero.
func (f FlatRecord) Decimal(key string) decimal.Decimal {
	return f.Amount(key).Decimal()
}

type ReconciliationCheck struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Match    bool   `json:"match"`
}

// Reconciliation compares extracted totals against the line items they
// should add up to. It is informational only.
type Reconciliation struct {
	Balanced bool                  `json:"balanced"`
	Checks   []ReconciliationCheck `json:"checks"`
	Notes    []string              `json:"notes"`
}

package paystub

import "github.com/Aashish23092/paystub-extraction/dto"

// Field keys shared by the classifier, the normalizer and the regex parser.
const (
	keyRegularPayroll  = "regularPayRoll"
	keyPayPeriod       = "payPeriod"
	keySeniorityYear   = "seniorityYear"
	keyGroup           = "group"
	keyHourlyRate      = "hourlyRate"
	keyEffectivePeriod = "effectivePeriod"
)

type textSlot struct {
	key string
	get func(*dto.ParsedRecord) *string
}

type earningSlot struct {
	key   string
	label string
	get   func(*dto.ParsedRecord) *dto.EarningLine
}

type amountSlot struct {
	key   string
	label string
	get   func(*dto.ParsedRecord) *dto.Amount
}

var textSlots = []textSlot{
	{keyRegularPayroll, func(r *dto.ParsedRecord) *string { return &r.Header.RegularPayroll }},
	{keyPayPeriod, func(r *dto.ParsedRecord) *string { return &r.Header.PayPeriod }},
	{keySeniorityYear, func(r *dto.ParsedRecord) *string { return &r.Header.SeniorityYear }},
	{keyGroup, func(r *dto.ParsedRecord) *string { return &r.Header.Group }},
	{keyEffectivePeriod, func(r *dto.ParsedRecord) *string { return &r.Header.EffectivePeriod }},
}

var earningSlots = []earningSlot{
	{"crewAdvance", "Crew Advance", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.CrewAdvance }},
	{"pltExpDtax", "PLT Exp D Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpDTax }},
	{"pltExpADJtax", "PLT Exp Adj Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpADJTax }},
	{"pltExpItax", "PLT Exp I Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpITax }},
	{"AagProfitSharing", "AAG Profit Sharing", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.AagProfitSharing }},
	{"pltExpDnonTax", "PLT Exp D Non Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpDNonTax }},
	{"pltExpAdjnonTax", "PLT Exp Adj Non Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpADJNonTax }},
	{"pltExpInonTax", "PLT Exp I Non Taxable", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PltExpINonTax }},
	{"operationalPay", "Operational Pay", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.OperationalPay }},
	{"fltTrainingPay", "Flight Training Pay", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.FltTrainingPay }},
	{"sitTime", "Sit Time", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.SitTime }},
	{"payAbvGuaranteeRsv", "Pay Above Guar (RSV)", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PayAbvGuaranteeRsv }},
	{"raPrem", "RA Prem", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.RaPrem }},
	{"minGuaranteeAdj", "Min Guarantee Adj", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.MinGuaranteeAdj }},
	{"intlOverride", "Intl Override", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.IntlOverride }},
	{"distanceLearning", "Distance Learning", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.DistanceLearning }},
	{"unionPdLeave", "Union Pd Union Leave", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.UnionPdLeave }},
	{"premIncentivePay", "Prem Incentive Pay", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PremIncentivePay }},
	{"fltVacationPay", "Flight Vacation Pay", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.FltVacationPay }},
	{"sickPay", "Sick Pay", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.SickPay }},
	{"priorYearVacPayout", "Prior Year Vac Payout", func(r *dto.ParsedRecord) *dto.EarningLine { return &r.Earnings.PriorYearVacPayout }},
}

var amountSlots = []amountSlot{
	{keyHourlyRate, "Hourly Rate", func(r *dto.ParsedRecord) *dto.Amount { return &r.Header.HourlyRate }},
	{"earningsTotalCurrent", "Earnings Total", func(r *dto.ParsedRecord) *dto.Amount { return &r.Earnings.Total }},

	{"medicalCoverage", "Medical Coverage", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.PreTax.MedicalCoverage }},
	{"dentalCoverage", "Dental Coverage", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.PreTax.DentalCoverage }},
	{"visionCoverage", "Vision Coverage", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.PreTax.VisionCoverage }},
	{"accidentInsPreTax", "Accident Ins Pre-tax", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.PreTax.AccidentInsPreTax }},
	{"_401k", "401k", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.PreTax.K401 }},

	{"withholdingTax", "Withholding Tax", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.Taxes.WithholdingTax }},
	{"socialSecurityTax", "Social Security Tax", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.Taxes.SocialSecurityTax }},
	{"medicareTax", "Medicare Tax", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.Taxes.MedicareTax }},

	{"employeeLife", "Employee Life", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.AfterTax.EmployeeLife }},
	{"dentalDiscountPlan", "Dental Discount Plan", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.AfterTax.DentalDiscountPlan }},
	{"roth401k", "Roth 401k", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.AfterTax.Roth401k }},
	{"pacAPA", "PAC - APA", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.AfterTax.PacAPA }},
	{"unionDues", "Union Dues - APA", func(r *dto.ParsedRecord) *dto.Amount { return &r.Deductions.AfterTax.UnionDues }},

	{"_401kCompanyContribution", "401k Company Contrib", func(r *dto.ParsedRecord) *dto.Amount {
		return &r.CompanyContributions.K401CompanyContribution
	}},
	{"groupTermLife", "Group Term Life", func(r *dto.ParsedRecord) *dto.Amount { return &r.CompanyContributions.GroupTermLife }},

	{"withHoldingTaxEarnings", "Withholding Taxable Earnings", func(r *dto.ParsedRecord) *dto.Amount {
		return &r.TaxableEarnings.WithholdingTaxEarnings
	}},
	{"socialSecurityTaxEarnings", "Social Security Taxable Earnings", func(r *dto.ParsedRecord) *dto.Amount {
		return &r.TaxableEarnings.SocialSecurityTaxEarnings
	}},
	{"medicareTaxEarnings", "Medicare Taxable Earnings", func(r *dto.ParsedRecord) *dto.Amount {
		return &r.TaxableEarnings.MedicareTaxEarnings
	}},

	{"gross", "Gross", func(r *dto.ParsedRecord) *dto.Amount { return &r.Summary.Gross }},
	{"preTaxDeduct", "Pre-Tax Deduct", func(r *dto.ParsedRecord) *dto.Amount { return &r.Summary.PreTaxDeduct }},
	{"taxes", "Taxes", func(r *dto.ParsedRecord) *dto.Amount { return &r.Summary.Taxes }},
	{"afterTaxDeduct", "After Tax Deduct", func(r *dto.ParsedRecord) *dto.Amount { return &r.Summary.AfterTaxDeduct }},
	{"netPay", "Net Pay", func(r *dto.ParsedRecord) *dto.Amount { return &r.Summary.NetPay }},
}

var (
	textSlotByKey    = make(map[string]textSlot)
	earningSlotByKey = make(map[string]earningSlot)
	amountSlotByKey  = make(map[string]amountSlot)
)

func init() {
	for _, s := range textSlots {
		textSlotByKey[s.key] = s
	}
	for _, s := range earningSlots {
		earningSlotByKey[s.key] = s
	}
	for _, s := range amountSlots {
		amountSlotByKey[s.key] = s
	}
}

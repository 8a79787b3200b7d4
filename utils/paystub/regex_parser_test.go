package paystub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTextSampleStub(t *testing.T) {
	flat := Flatten(ParseText(strings.Join(sampleStub, "\n")))

	assert.Equal(t, "12/31/2024", flat["regularPayRoll"])
	assert.Equal(t, "12/17/2024 - 12/31/2024", flat["payPeriod"])

	assert.Equal(t, "-1200.00", flat["crewAdvanceCurrent"])
	assert.Equal(t, "200.00", flat["pltExpDtaxCurrent"])
	assert.Equal(t, "10.00", flat["pltExpADJtaxCurrent"])
	assert.Equal(t, "30.00", flat["pltExpItaxCurrent"])
	assert.Equal(t, "120.00", flat["pltExpDnonTaxCurrent"])
	assert.Equal(t, "-3.00", flat["pltExpAdjnonTaxCurrent"])
	assert.Equal(t, "20.00", flat["pltExpInonTaxCurrent"])
	assert.Equal(t, "7370.10", flat["operationalPayCurrent"])

	assert.Equal(t, "310.03", flat["_401k"])
	assert.Equal(t, "470.54", flat["_401kCompanyContribution"])
	assert.Equal(t, "150.00", flat["roth401k"])

	assert.Equal(t, "1350.00", flat["withholdingTax"])
	assert.Equal(t, "8750.70", flat["withHoldingTaxEarnings"])
	assert.Equal(t, "136.45", flat["medicareTax"])
	assert.Equal(t, "9410.73", flat["medicareTaxEarnings"])

	assert.Equal(t, "9410.73", flat["gross"])
	assert.Equal(t, "6122.53", flat["netPay"])
}

func TestParseTextLegacyHeader(t *testing.T) {
	text := "Call 1-800-447-2000 12/31/2024\nEffective 12 II $45.67\nCurrent 100.00 10.00 20.00"
	flat := Flatten(ParseText(text))

	assert.Equal(t, "12/31/2024", flat["payPeriod"])
	assert.Equal(t, "12", flat["seniorityYear"])
	assert.Equal(t, "II", flat["group"])
	assert.Equal(t, "45.67", flat["hourlyRate"])

	// a short summary binds the leading columns only
	assert.Equal(t, "100.00", flat["gross"])
	assert.Equal(t, "20.00", flat["taxes"])
	assert.Equal(t, "0", flat["netPay"])
}

func TestParseTextRoth401kNotPreTax(t *testing.T) {
	flat := Flatten(ParseText("Roth 401k 100.00"))
	assert.Equal(t, "100.00", flat["roth401k"])
	assert.Equal(t, "0", flat["_401k"])
}

func TestParseTextEmpty(t *testing.T) {
	flat := Flatten(ParseText(""))
	assert.Len(t, flat, len(FieldNames()))
	assert.Equal(t, 0, FilledFields(flat))
}

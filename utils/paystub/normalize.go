package paystub

import "github.com/Aashish23092/paystub-extraction/dto"

var (
	fieldNames    []string
	numericFields = make(map[string]bool)
	fieldLabels   = make(map[string]string)
)

func init() {
	for _, s := range textSlots {
		fieldNames = append(fieldNames, s.key)
		if s.key == keySeniorityYear {
			numericFields[s.key] = true
		}
	}
	fieldNames = append(fieldNames, keyHourlyRate)

	for _, s := range earningSlots {
		for _, suffix := range []string{"Rate", "Hours", "Current"} {
			key := s.key + suffix
			fieldNames = append(fieldNames, key)
			numericFields[key] = true
			fieldLabels[key] = s.label + " " + suffix
		}
	}
	for _, s := range amountSlots {
		if s.key != keyHourlyRate {
			fieldNames = append(fieldNames, s.key)
		}
		numericFields[s.key] = true
		fieldLabels[s.key] = s.label
	}
}

// FieldNames lists the flat record vocabulary in a stable order.
func FieldNames() []string {
	out := make([]string, len(fieldNames))
	copy(out, fieldNames)
	return out
}

// IsNumericField reports whether a flat field carries a decimal value.
func IsNumericField(key string) bool {
	return numericFields[key]
}

// FieldLabel is the human readable label for a numeric field.
func FieldLabel(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	return key
}

// Flatten projects a nested record onto the flat vocabulary. Every field
// is present in the result; absent numbers are "0".
func Flatten(rec dto.ParsedRecord) dto.FlatRecord {
	flat := make(dto.FlatRecord, len(fieldNames))

	for _, s := range textSlots {
		flat[s.key] = *s.get(&rec)
	}
	if flat[keySeniorityYear] == "" {
		flat[keySeniorityYear] = "0"
	}

	for _, s := range earningSlots {
		line := s.get(&rec)
		flat[s.key+"Rate"] = line.Rate.String()
		flat[s.key+"Hours"] = line.Hours.String()
		flat[s.key+"Current"] = line.Current.String()
	}
	for _, s := range amountSlots {
		flat[s.key] = s.get(&rec).String()
	}
	return flat
}

// Unflatten rebuilds a nested record from a flat one.
func Unflatten(flat dto.FlatRecord) dto.ParsedRecord {
	rec := dto.NewParsedRecord()
	for _, s := range textSlots {
		if v, ok := flat[s.key]; ok {
			*s.get(&rec) = v
		}
	}
	for _, s := range earningSlots {
		*s.get(&rec) = dto.EarningLine{
			Rate:    flat.Amount(s.key + "Rate"),
			Hours:   flat.Amount(s.key + "Hours"),
			Current: flat.Amount(s.key + "Current"),
		}
	}
	for _, s := range amountSlots {
		*s.get(&rec) = flat.Amount(s.key)
	}
	return rec
}

// FilledFields counts fields that differ from their default.
func FilledFields(flat dto.FlatRecord) int {
	n := 0
	for _, key := range fieldNames {
		v := flat[key]
		if v != "" && v != "0" {
			n++
		}
	}
	return n
}

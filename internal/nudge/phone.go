package nudge

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneRegion is the default region used to interpret national numbers.
const PhoneRegion = "AU"

// australianPrefix is written without the leading plus in output files.
const australianPrefix = "+61"

// NormalizePhone formats raw as an E.164 number, interpreting national
// numbers as Australian. "+61" is shortened to "61"; other country codes keep
// the plus. On error the original value is returned with the error.
func NormalizePhone(raw string) (string, error) {
	if raw == "" {
		return raw, nil
	}

	num, err := phonenumbers.Parse(raw, PhoneRegion)
	if err != nil {
		return raw, fmt.Errorf("parse phone %q: %w", raw, err)
	}

	formatted := phonenumbers.Format(num, phonenumbers.E164)
	if strings.HasPrefix(formatted, australianPrefix) {
		formatted = strings.TrimPrefix(formatted, "+")
	}
	return formatted, nil
}

// NormalizeContacts returns a copy of records with phone numbers normalized.
// Numbers that cannot be parsed are kept as-is and reported as issues.
func NormalizeContacts(records []Record) ([]Record, []Issue) {
	out := make([]Record, len(records))
	var issues []Issue

	for i, rec := range records {
		phone := rec.Phone()
		if phone == "" {
			out[i] = rec
			continue
		}

		formatted, err := NormalizePhone(phone)
		if err != nil {
			issues = append(issues, Issue{
				Kind:    IssuePhone,
				Line:    rec.Line,
				Email:   rec.Email(),
				Field:   FieldPhone,
				Value:   phone,
				Message: err.Error(),
			})
			out[i] = rec
			continue
		}
		out[i] = rec.With(FieldPhone, formatted)
	}

	return out, issues
}

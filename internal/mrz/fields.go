package mrz

import (
	"strings"
	"time"
)

// dateRole steers century inference: a birth date can only be in the past,
// an expiry date is usually near the reference year.
type dateRole int

const (
	birthDate dateRole = iota
	expiryDate
)

// decodeName splits a filler-padded name field into the primary identifier
// (surname) and the secondary identifier (given names). The groups are
// separated by a double filler; a single filler inside the primary group
// encodes a space, and inside the secondary group it separates components.
func decodeName(field string) (string, []string, error) {
	trimmed := strings.TrimRight(field, "<")
	if trimmed == "" {
		// All filler: nothing encoded. Leave the name empty.
		return "", nil, nil
	}

	primary := trimmed
	var secondary string
	if idx := strings.Index(trimmed, "<<"); idx >= 0 {
		primary, secondary = trimmed[:idx], trimmed[idx+2:]
	}
	if primary == "" {
		return "", nil, decodeErr(InvalidName, "name")
	}

	surname := strings.ReplaceAll(primary, "<", " ")
	var given []string
	for _, part := range strings.Split(secondary, "<") {
		if part != "" {
			given = append(given, part)
		}
	}
	return surname, given, nil
}

// decodeDate decodes a YYMMDD field. The two-digit year is expanded by a
// best-effort heuristic: birth dates that would land after the reference
// year belong to the previous century, expiry dates more than fifty years
// before it belong to the next. Without an external reference this is
// inherently ambiguous; callers can pin Parser.ReferenceYear.
func decodeDate(raw, field string, role dateRole, refYear int) (time.Time, error) {
	if len(raw) != 6 {
		return time.Time{}, decodeErr(InvalidDate, field)
	}
	var digits [6]int
	for i := 0; i < 6; i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return time.Time{}, decodeErr(InvalidDate, field)
		}
		digits[i] = int(raw[i] - '0')
	}
	yy := digits[0]*10 + digits[1]
	month := digits[2]*10 + digits[3]
	day := digits[4]*10 + digits[5]

	if month < 1 || month > 12 {
		return time.Time{}, decodeErr(InvalidDate, field)
	}

	year := refYear - refYear%100 + yy
	switch role {
	case birthDate:
		if year > refYear {
			year -= 100
		}
	case expiryDate:
		if year < refYear-50 {
			year += 100
		}
	}

	if day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, decodeErr(InvalidDate, field)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 31
}

// decodeSex decodes the single-character sex field. ICAO 9303 part 7 allows
// X in addition to the filler for an unspecified sex.
func decodeSex(raw string) (Sex, error) {
	switch raw {
	case "M":
		return Male, nil
	case "F":
		return Female, nil
	case "X", "<":
		return Unspecified, nil
	}
	return "", decodeErr(InvalidSex, "sex")
}

// decodeCountry decodes a 3-character issuing-state or nationality code.
// Codes are opaque here: they are not validated against ISO 3166, only
// against the ICAO alphabet, since the zone also carries non-ISO codes
// (D, UTO, UNO and friends).
func decodeCountry(raw string) string {
	return strings.TrimRight(raw, "<")
}

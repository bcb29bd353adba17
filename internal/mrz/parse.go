// Package mrz decodes the machine-readable zone of ICAO 9303 travel
// documents. Parsing is a pure function from the zone text to a typed
// record: no I/O, no shared state, safe for concurrent use.
package mrz

import (
	"strconv"
	"strings"
	"time"
)

// ChecksumMode selects how check digit mismatches are treated.
type ChecksumMode int

const (
	// ChecksumStrict fails the parse on any check digit mismatch.
	ChecksumStrict ChecksumMode = iota
	// ChecksumLenient extracts the field value anyway and reports the
	// verdict on the record's CheckResults. Damaged or badly printed
	// documents often carry a bad check digit over a legible field.
	ChecksumLenient
)

// Parser decodes machine-readable zones. The zero value parses with strict
// checksums and the current year as century reference.
type Parser struct {
	Checksum ChecksumMode

	// ReferenceYear pins the reference for two-digit-year century
	// inference. Zero means the current year.
	ReferenceYear int
}

// Parse decodes an MRZ with the default strict Parser.
func Parse(data string) (Document, error) {
	var p Parser
	return p.Parse(data)
}

// fieldValue holds one decoded field during layout interpretation.
type fieldValue struct {
	raw     string
	text    string
	surname string
	given   []string
	date    time.Time
	sex     Sex
	checkOK bool
}

// Parse decodes the machine-readable zone in data. Lines may be separated
// by any newline convention and are trimmed of surrounding whitespace; a
// TD3 or TD1 zone supplied as one unbroken string is accepted as well.
// Decoding is all-or-nothing: the first failure wins and no partial record
// is returned.
func (p Parser) Parse(data string) (Document, error) {
	lines := splitLines(data)
	lay, err := detectLayout(lines)
	if err != nil {
		return nil, err
	}

	for i, line := range lines {
		if len(line) != lay.lineLen {
			return nil, &DecodeError{
				Code:     InvalidLength,
				Line:     i,
				Expected: strconv.Itoa(lay.lineLen),
				Found:    strconv.Itoa(len(line)),
			}
		}
		for j := 0; j < len(line); j++ {
			if _, ok := charValue(line[j]); !ok {
				return nil, &DecodeError{Code: InvalidCharacter, Line: i, Pos: j, Found: string(line[j])}
			}
		}
	}

	refYear := p.ReferenceYear
	if refYear == 0 {
		refYear = time.Now().Year()
	}

	values := make(map[string]fieldValue, len(lay.fields))
	extConsumed := 0 // TD1 optional-data columns taken by a long document number
	for _, f := range lay.fields {
		raw := lines[f.span.line][f.span.start:f.span.end]
		v := fieldValue{raw: raw, checkOK: true}

		checked := false
		switch f.kind {
		case kindText:
			if f.name == "optional data" && extConsumed > 0 {
				raw = raw[extConsumed:]
			}
			v.text = strings.TrimRight(raw, "<")
		case kindCountry:
			v.text = decodeCountry(raw)
		case kindName:
			v.surname, v.given, err = decodeName(raw)
			if err != nil {
				return nil, err
			}
		case kindSex:
			v.sex, err = decodeSex(raw)
			if err != nil {
				return nil, err
			}
		case kindDate:
			v.date, err = decodeDate(raw, f.name, f.role, refYear)
			if err != nil {
				return nil, err
			}
		case kindNumber:
			if lines[f.span.line][f.checkCol] == '<' && f.fillerCheck && lay.lines == 3 {
				v, extConsumed, err = p.decodeLongNumber(lines, f)
			} else {
				v.text = strings.TrimRight(raw, "<")
				v.checkOK, err = p.verifyField(raw, lines[f.span.line][f.checkCol], f.name)
			}
			if err != nil {
				return nil, err
			}
			checked = true
		}

		if f.checkCol >= 0 && !checked {
			digit := lines[f.span.line][f.checkCol]
			if digit == '<' && f.fillerCheck {
				// Unused zone with a filler in the check digit column.
			} else if v.checkOK, err = p.verifyField(raw, digit, f.name); err != nil {
				return nil, err
			}
		}
		values[f.name] = v
	}

	var composite strings.Builder
	for _, s := range lay.composite {
		composite.WriteString(lines[s.line][s.start:s.end])
	}
	compositeOK, err := p.verifyField(composite.String(), lines[lay.compCheck.line][lay.compCheck.start], "composite")
	if err != nil {
		return nil, err
	}

	return assemble(lay, values, compositeOK), nil
}

// verifyField checks a single check digit under the parser's checksum mode.
// In strict mode a mismatch is fatal; in lenient mode it is a false verdict.
func (p Parser) verifyField(field string, digit byte, name string) (bool, error) {
	ok, err := VerifyChecksum(field, digit)
	if err != nil {
		var derr *DecodeError
		if e, isDecode := err.(*DecodeError); isDecode {
			derr = &DecodeError{Code: e.Code, Field: name, Pos: e.Pos, Found: e.Found}
		} else {
			derr = decodeErr(InvalidCheckDigit, name)
		}
		return false, derr
	}
	if !ok && p.Checksum == ChecksumStrict {
		want, _ := Checksum(field)
		return false, &DecodeError{
			Code:     InvalidCheckDigit,
			Field:    name,
			Expected: strconv.Itoa(want),
			Found:    string(digit),
		}
	}
	return ok, nil
}

// decodeLongNumber handles the TD1 document-number continuation: a filler in
// the check digit column means the number exceeds nine characters and runs
// into the optional data element, immediately followed by its check digit
// and a filler (ICAO 9303 part 5).
func (p Parser) decodeLongNumber(lines []string, f fieldSpec) (fieldValue, int, error) {
	opt := lines[0][15:30]
	consumed := len(opt)
	ext := opt
	if end := strings.IndexByte(opt, '<'); end >= 0 {
		ext = opt[:end]
		consumed = end + 1
	}
	if len(ext) < 2 {
		return fieldValue{}, 0, &DecodeError{Code: InvalidCheckDigit, Field: f.name, Found: "<"}
	}

	number := strings.TrimRight(lines[0][f.span.start:f.span.end], "<") + ext[:len(ext)-1]
	ok, err := p.verifyField(number, ext[len(ext)-1], f.name)
	if err != nil {
		return fieldValue{}, 0, err
	}
	return fieldValue{raw: number, text: number, checkOK: ok}, consumed, nil
}

func assemble(lay *layout, values map[string]fieldValue, compositeOK bool) Document {
	name := values["name"]
	number := values["document number"]
	if lay.lines == 2 {
		return Passport{
			Country:        values["issuing state"].text,
			Surname:        name.surname,
			GivenNames:     name.given,
			PassportNumber: number.text,
			Nationality:    values["nationality"].text,
			BirthDate:      values["birth date"].date,
			Sex:            values["sex"].sex,
			ExpiryDate:     values["expiry date"].date,
			OptionalData:   values["optional data"].text,
			Checks: CheckResults{
				Number:       number.checkOK,
				BirthDate:    values["birth date"].checkOK,
				ExpiryDate:   values["expiry date"].checkOK,
				OptionalData: values["optional data"].checkOK,
				Composite:    compositeOK,
			},
		}
	}

	optional := values["optional data"].text
	if second := values["optional data 2"].text; second != "" {
		if optional != "" {
			optional += " "
		}
		optional += second
	}
	return IdentityCard{
		Country:        values["issuing state"].text,
		Surname:        name.surname,
		GivenNames:     name.given,
		DocumentNumber: number.text,
		Nationality:    values["nationality"].text,
		BirthDate:      values["birth date"].date,
		Sex:            values["sex"].sex,
		ExpiryDate:     values["expiry date"].date,
		OptionalData:   optional,
		Checks: CheckResults{
			Number:       number.checkOK,
			BirthDate:    values["birth date"].checkOK,
			ExpiryDate:   values["expiry date"].checkOK,
			OptionalData: true,
			Composite:    compositeOK,
		},
	}
}

// splitLines normalizes the input into trimmed, non-empty lines. A zone
// pasted as one unbroken string is re-split at the known layout widths.
func splitLines(data string) []string {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 1 {
		switch len(lines[0]) {
		case 88:
			lines = []string{lines[0][:44], lines[0][44:]}
		case 90:
			lines = []string{lines[0][:30], lines[0][30:60], lines[0][60:]}
		}
	}
	return lines
}

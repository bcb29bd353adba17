package mrz

// Field layouts from ICAO 9303 part 4 (TD3) and part 5 (TD1). Each layout
// is constant data interpreted by Parser.Parse; adding a document type means
// adding a table here, not new parsing code.

// span is a half-open column range on one line of the zone.
type span struct {
	line, start, end int
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindName
	kindDate
	kindSex
	kindCountry
	kindNumber
)

type fieldSpec struct {
	name     string
	span     span
	kind     fieldKind
	role     dateRole // kindDate only
	checkCol int      // column of the appended check digit, -1 when none

	// fillerCheck accepts a filler in the check digit column: the TD3
	// optional-data check digit may be < when the zone is unused, and the
	// TD1 document-number check digit is < when the number continues into
	// the optional data element.
	fillerCheck bool
}

type layout struct {
	name    string
	lines   int
	lineLen int
	fields  []fieldSpec

	// composite lists the spans whose concatenation the composite check
	// digit at compCheck protects.
	composite []span
	compCheck span
}

var td3 = layout{
	name:    "TD3",
	lines:   2,
	lineLen: 44,
	fields: []fieldSpec{
		{name: "document code", span: span{0, 0, 2}, kind: kindText, checkCol: -1},
		{name: "issuing state", span: span{0, 2, 5}, kind: kindCountry, checkCol: -1},
		{name: "name", span: span{0, 5, 44}, kind: kindName, checkCol: -1},
		{name: "document number", span: span{1, 0, 9}, kind: kindNumber, checkCol: 9},
		{name: "nationality", span: span{1, 10, 13}, kind: kindCountry, checkCol: -1},
		{name: "birth date", span: span{1, 13, 19}, kind: kindDate, role: birthDate, checkCol: 19},
		{name: "sex", span: span{1, 20, 21}, kind: kindSex, checkCol: -1},
		{name: "expiry date", span: span{1, 21, 27}, kind: kindDate, role: expiryDate, checkCol: 27},
		{name: "optional data", span: span{1, 28, 42}, kind: kindText, checkCol: 42, fillerCheck: true},
	},
	composite: []span{{1, 0, 10}, {1, 13, 20}, {1, 21, 43}},
	compCheck: span{1, 43, 44},
}

var td1 = layout{
	name:    "TD1",
	lines:   3,
	lineLen: 30,
	fields: []fieldSpec{
		{name: "document code", span: span{0, 0, 2}, kind: kindText, checkCol: -1},
		{name: "issuing state", span: span{0, 2, 5}, kind: kindCountry, checkCol: -1},
		{name: "document number", span: span{0, 5, 14}, kind: kindNumber, checkCol: 14, fillerCheck: true},
		{name: "optional data", span: span{0, 15, 30}, kind: kindText, checkCol: -1},
		{name: "birth date", span: span{1, 0, 6}, kind: kindDate, role: birthDate, checkCol: 6},
		{name: "sex", span: span{1, 7, 8}, kind: kindSex, checkCol: -1},
		{name: "expiry date", span: span{1, 8, 14}, kind: kindDate, role: expiryDate, checkCol: 14},
		{name: "nationality", span: span{1, 15, 18}, kind: kindCountry, checkCol: -1},
		{name: "optional data 2", span: span{1, 18, 29}, kind: kindText, checkCol: -1},
		{name: "name", span: span{2, 0, 30}, kind: kindName, checkCol: -1},
	},
	composite: []span{{0, 5, 30}, {1, 0, 7}, {1, 8, 15}, {1, 18, 29}},
	compCheck: span{1, 29, 30},
}

// detectLayout picks a layout from the leading character of the first line:
// P is a TD3 passport, I, C and A are TD1 identity cards.
func detectLayout(lines []string) (*layout, error) {
	if len(lines) == 0 || lines[0] == "" {
		return nil, decodeErr(UnrecognizedLayout, "")
	}
	var lay *layout
	switch lines[0][0] {
	case 'P':
		lay = &td3
	case 'I', 'C', 'A':
		lay = &td1
	default:
		return nil, decodeErr(UnrecognizedLayout, "")
	}
	if len(lines) != lay.lines {
		return nil, decodeErr(UnrecognizedLayout, "")
	}
	return lay, nil
}

package mrz

// Check digit calculation per ICAO 9303 part 3 section 4.9: each character
// maps to a numeric value (digits to themselves, A-Z to 10-35, filler to 0),
// values are weighted 7, 3, 1 cyclically and summed, and the check digit is
// the sum modulo 10.

var checkWeights = [3]int{7, 3, 1}

// charValue returns the checksum value of an ICAO character, or false for a
// byte outside the [A-Z0-9<] set.
func charValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	case c == '<':
		return 0, true
	}
	return 0, false
}

// Checksum computes the check digit protecting field.
func Checksum(field string) (int, error) {
	sum := 0
	for i := 0; i < len(field); i++ {
		v, ok := charValue(field[i])
		if !ok {
			return 0, &DecodeError{Code: InvalidCharacter, Pos: i, Found: string(field[i])}
		}
		sum += v * checkWeights[i%3]
	}
	return sum % 10, nil
}

// VerifyChecksum reports whether digit is the check digit protecting field.
// A mismatch is a false verdict, not an error, so callers decide whether it
// is fatal. A non-digit expected character is itself an InvalidCheckDigit
// error.
func VerifyChecksum(field string, digit byte) (bool, error) {
	if digit < '0' || digit > '9' {
		return false, &DecodeError{Code: InvalidCheckDigit, Found: string(digit)}
	}
	want, err := Checksum(field)
	if err != nil {
		return false, err
	}
	return int(digit-'0') == want, nil
}

package mrz

import "fmt"

// ErrorCode identifies the decoding stage that failed.
type ErrorCode int

const (
	// UnrecognizedLayout means the line count or leading character of the
	// input matched no known document layout.
	UnrecognizedLayout ErrorCode = iota + 1
	// InvalidLength means a line did not have the exact length its layout
	// requires.
	InvalidLength
	// InvalidCharacter means a byte outside the ICAO set [A-Z0-9<] was found.
	InvalidCharacter
	// InvalidCheckDigit means a check digit position held a non-digit, or a
	// checksum mismatch under strict parsing.
	InvalidCheckDigit
	// InvalidDate means a date field was not six digits or named an
	// impossible calendar date.
	InvalidDate
	// InvalidSex means the sex field held something other than M, F, X or <.
	InvalidSex
	// InvalidName means the name field was structurally malformed.
	InvalidName
)

func (c ErrorCode) String() string {
	switch c {
	case UnrecognizedLayout:
		return "unrecognized layout"
	case InvalidLength:
		return "invalid length"
	case InvalidCharacter:
		return "invalid character"
	case InvalidCheckDigit:
		return "invalid check digit"
	case InvalidDate:
		return "invalid date"
	case InvalidSex:
		return "invalid sex"
	case InvalidName:
		return "invalid name"
	}
	return "unknown error"
}

// DecodeError is a decoding failure with enough context to point at the
// offending field or position. Use errors.As to recover it from a wrapped
// chain.
type DecodeError struct {
	Code  ErrorCode
	Field string // field name, when the failure is tied to one
	Line  int    // zero-based line, for length and character errors
	Pos   int    // zero-based column, for character errors

	// Expected and Found describe a length or check-digit mismatch.
	Expected string
	Found    string
}

func (e *DecodeError) Error() string {
	msg := e.Code.String()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	switch e.Code {
	case InvalidLength:
		return fmt.Sprintf("%s: line %d: expected %s columns, found %s", msg, e.Line, e.Expected, e.Found)
	case InvalidCharacter:
		return fmt.Sprintf("%s: line %d column %d: found %q", msg, e.Line, e.Pos, e.Found)
	case InvalidCheckDigit:
		if e.Expected != "" {
			return fmt.Sprintf("%s: expected %s, found %s", msg, e.Expected, e.Found)
		}
	}
	return msg
}

func decodeErr(code ErrorCode, field string) *DecodeError {
	return &DecodeError{Code: code, Field: field}
}

package mrz

import "time"

// Sex is the sex field of a travel document holder.
type Sex string

const (
	Male        Sex = "M"
	Female      Sex = "F"
	Unspecified Sex = "X"
)

// CheckResults carries the verdict of every check digit a layout protects.
// With ChecksumStrict parsing these are always true on a successful parse;
// with ChecksumLenient a false value flags a mismatch the caller chose to
// tolerate.
type CheckResults struct {
	Number       bool `json:"number"`
	BirthDate    bool `json:"birth_date"`
	ExpiryDate   bool `json:"expiry_date"`
	OptionalData bool `json:"optional_data"` // TD3 only; always true for TD1
	Composite    bool `json:"composite"`
}

// Document is a decoded travel document. The concrete type is either
// Passport or IdentityCard.
type Document interface {
	isDocument()
}

// Passport is a decoded TD3 (2 lines x 44 columns) machine-readable passport.
type Passport struct {
	Country        string       `json:"country"` // issuing state
	Surname        string       `json:"surname"`
	GivenNames     []string     `json:"given_names"`
	PassportNumber string       `json:"passport_number"`
	Nationality    string       `json:"nationality"`
	BirthDate      time.Time    `json:"birth_date"`
	Sex            Sex          `json:"sex"`
	ExpiryDate     time.Time    `json:"expiry_date"`
	OptionalData   string       `json:"optional_data,omitempty"`
	Checks         CheckResults `json:"checks"`
}

func (Passport) isDocument() {}

// IdentityCard is a decoded TD1 (3 lines x 30 columns) identity card.
type IdentityCard struct {
	Country        string       `json:"country"` // issuing state
	Surname        string       `json:"surname"`
	GivenNames     []string     `json:"given_names"`
	DocumentNumber string       `json:"document_number"`
	Nationality    string       `json:"nationality"`
	BirthDate      time.Time    `json:"birth_date"`
	Sex            Sex          `json:"sex"`
	ExpiryDate     time.Time    `json:"expiry_date"`
	OptionalData   string       `json:"optional_data,omitempty"`
	Checks         CheckResults `json:"checks"`
}

func (IdentityCard) isDocument() {}

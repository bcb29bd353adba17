package document

import (
	"time"

	"github.com/zombor/mrz-vault/internal/mrz"
)

// Record is a decoded travel document held in the vault
type Record struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"` // "passport" or "identity_card"
	Passport     *mrz.Passport     `json:"passport,omitempty"`
	IdentityCard *mrz.IdentityCard `json:"identity_card,omitempty"`
	Filename     string            `json:"filename"` // stored raw MRZ strip
	BatchID      string            `json:"batch_id,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Batch represents one import run with its associated records
type Batch struct {
	ID        string    `json:"id"`
	RecordIDs []string  `json:"record_ids"`
	Passports int       `json:"passports"`
	Cards     int       `json:"cards"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

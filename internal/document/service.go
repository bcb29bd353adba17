package document

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/mrz-vault/internal/mrz"
)

// IDGenerator generates unique IDs for records and batches
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles document record operations
type Service struct {
	db          DB
	parser      mrz.Parser
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, parser mrz.Parser, storage Storage) *Service {
	return &Service{
		db:          db,
		parser:      parser,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, parser mrz.Parser, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		parser:      parser,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// IngestMRZ decodes a raw MRZ strip, persists the strip, and saves the record
func (s *Service) IngestMRZ(raw string) (*Record, error) {
	record, err := s.buildRecord(raw)
	if err != nil {
		return nil, err
	}

	// Save to database
	if err := s.db.SaveRecord(record); err != nil {
		// Clean up strip if database save fails
		s.storage.Delete(record.Filename)
		return nil, fmt.Errorf("saving record to database: %w", err)
	}

	return record, nil
}

// buildRecord decodes a strip, persists it, and assembles an unsaved record
func (s *Service) buildRecord(raw string) (*Record, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	doc, err := s.parser.Parse(raw)
	if err != nil {
		slog.Error("Failed to decode MRZ",
			"input_size", len(raw),
			"error", err,
		)
		return nil, fmt.Errorf("decoding mrz: %w", err)
	}

	// Persist the raw strip beside the database
	savedPath, err := s.storage.Save(id+".mrz", []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("saving strip: %w", err)
	}

	record := &Record{
		ID:        id,
		Filename:  savedPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch d := doc.(type) {
	case mrz.Passport:
		record.Kind = "passport"
		record.Passport = &d
	case mrz.IdentityCard:
		record.Kind = "identity_card"
		record.IdentityCard = &d
	}

	return record, nil
}

// GetRecord retrieves a record by ID
func (s *Service) GetRecord(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListRecords returns all records
func (s *Service) ListRecords() ([]*Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a record and its stored strip
func (s *Service) DeleteRecord(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting record for deletion: %w", err)
	}

	// Delete strip
	if err := s.storage.Delete(record.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete strip", "filename", record.Filename, "error", err)
	}

	// Delete from database
	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting record from database: %w", err)
	}
	return nil
}

// GetRecordMRZ retrieves the raw MRZ strip for a record
func (s *Service) GetRecordMRZ(id string) ([]byte, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	data, err := s.storage.Get(record.Filename)
	if err != nil {
		return nil, fmt.Errorf("getting record strip: %w", err)
	}

	return data, nil
}

// ImportBatch decodes a set of MRZ strips as one batch. The import is
// all-or-nothing: the first strip that fails to decode aborts the batch and
// nothing is persisted to the database.
func (s *Service) ImportBatch(raws []string) (*Batch, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("at least one mrz strip is required")
	}

	now := s.timeSource.Now()
	id := s.idGenerator.Generate()

	// Decode everything before saving anything
	records := make([]*Record, 0, len(raws))
	for i, raw := range raws {
		record, err := s.buildRecord(raw)
		if err != nil {
			// Clean up strips persisted for earlier entries
			for _, r := range records {
				s.storage.Delete(r.Filename)
			}
			return nil, fmt.Errorf("decoding strip %d: %w", i, err)
		}
		record.BatchID = id
		records = append(records, record)
	}

	batch := &Batch{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, record := range records {
		batch.RecordIDs = append(batch.RecordIDs, record.ID)
		switch record.Kind {
		case "passport":
			batch.Passports++
		case "identity_card":
			batch.Cards++
		}
	}

	if err := s.db.SaveBatch(batch); err != nil {
		for _, r := range records {
			s.storage.Delete(r.Filename)
		}
		return nil, fmt.Errorf("saving batch: %w", err)
	}

	for _, record := range records {
		if err := s.db.SaveRecord(record); err != nil {
			return nil, fmt.Errorf("saving record %s: %w", record.ID, err)
		}
	}

	return batch, nil
}

// GetBatch retrieves a batch by ID
func (s *Service) GetBatch(id string) (*Batch, error) {
	batch, err := s.db.GetBatch(id)
	if err != nil {
		return nil, fmt.Errorf("getting batch: %w", err)
	}
	return batch, nil
}

// GetBatchWithRecords retrieves a batch with its associated records
func (s *Service) GetBatchWithRecords(id string) (*Batch, []*Record, error) {
	batch, err := s.db.GetBatch(id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting batch: %w", err)
	}

	// Get all records for this batch
	records := make([]*Record, 0, len(batch.RecordIDs))
	for _, recordID := range batch.RecordIDs {
		record, err := s.db.GetRecord(recordID)
		if err != nil {
			return nil, nil, fmt.Errorf("getting record %s: %w", recordID, err)
		}
		records = append(records, record)
	}

	return batch, records, nil
}

// ListBatches returns all batches
func (s *Service) ListBatches() ([]*Batch, error) {
	batches, err := s.db.ListBatches()
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	return batches, nil
}

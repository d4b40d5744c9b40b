package launcher

import (
	"encoding/json"
	"fmt"
	"time"

	"medviz/config"
	"medviz/log"
)

// LaunchRecord is the serializable trace of one launch, kept as history
// in the state file.
type LaunchRecord struct {
	ID        string    `json:"id"`
	Script    string    `json:"script"`
	Category  string    `json:"category"`
	Kind      string    `json:"kind,omitempty"`
	DataPath  string    `json:"data_path,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
	Status    string    `json:"status"`
	ExitCode  int       `json:"exit_code"`
}

// Record snapshots a launch into its serializable form.
func Record(l *Launch) LaunchRecord {
	r := LaunchRecord{
		ID:        l.ID,
		Script:    l.Script.Name,
		Category:  l.Category.Info().Code,
		DataPath:  l.DataPath,
		StartedAt: l.StartedAt,
		EndedAt:   l.EndedAt(),
		Status:    l.Status().String(),
		ExitCode:  l.ExitCode(),
	}
	if l.Script.KindKnown {
		r.Kind = l.Script.Kind.Code()
	}
	return r
}

// Storage persists launch history through the state interface.
type Storage struct {
	state config.LaunchStorage
	// limit bounds how many records are kept; oldest are pruned first.
	limit int
}

// NewStorage creates a launch history store.
func NewStorage(state config.LaunchStorage, limit int) *Storage {
	if limit <= 0 {
		limit = 50
	}
	return &Storage{state: state, limit: limit}
}

// Records loads the launch history, most recent last.
func (s *Storage) Records() ([]LaunchRecord, error) {
	jsonData := s.state.GetLaunches()
	if len(jsonData) == 0 {
		return nil, nil
	}

	var records []LaunchRecord
	if err := json.Unmarshal(jsonData, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal launch history: %w", err)
	}
	return records, nil
}

// Append adds a record to the history, replacing any record with the
// same ID (a launch is appended when it starts and updated when it
// ends) and pruning the oldest entries beyond the limit.
func (s *Storage) Append(record LaunchRecord) error {
	records, err := s.Records()
	if err != nil {
		log.WarningLog.Printf("failed to load launch history, starting fresh: %v", err)
		records = nil
	}

	replaced := false
	for i, existing := range records {
		if existing.ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if len(records) > s.limit {
		records = records[len(records)-s.limit:]
	}

	jsonData, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal launch history: %w", err)
	}

	return s.state.SaveLaunches(jsonData)
}

// DeleteAll clears the launch history.
func (s *Storage) DeleteAll() error {
	return s.state.DeleteAllLaunches()
}

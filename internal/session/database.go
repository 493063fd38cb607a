package session

import (
	"time"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

// OperationRecord is the journal form of a finished (or failed) operation.
type OperationRecord struct {
	ID         OperationID
	URL        string
	Kind       string
	Provider   string
	OutputDir  string
	Quality    string
	AddedAt    time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Completed  bool
	Error      string
	Files      []string
}

type Database interface {
	ListOperations() ([]OperationRecord, error)
	WriteOperation(*OperationRecord) error
	DeleteOperation(*OperationRecord) error
}

type NilDatabase struct{}

func (d NilDatabase) ListOperations() ([]OperationRecord, error) {
	return nil, nil
}

func (d NilDatabase) WriteOperation(_ *OperationRecord) error {
	return nil
}

func (d NilDatabase) DeleteOperation(_ *OperationRecord) error {
	return nil
}

// Record converts the state to its journal/history form.
func (s OperationState) Record() OperationRecord {
	return OperationRecord{
		ID:         s.ID,
		URL:        s.URL,
		Kind:       string(s.Kind),
		Provider:   s.Provider,
		OutputDir:  s.OutputDir,
		Quality:    string(s.Quality),
		AddedAt:    s.AddedAt,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Completed:  s.Completed,
		Error:      s.Error,
		Files:      append([]string(nil), s.Files...),
	}
}

func stateFromRecord(r OperationRecord) OperationState {
	return OperationState{
		ID:         r.ID,
		URL:        r.URL,
		Kind:       cloudgrab.SourceKind(r.Kind),
		Provider:   r.Provider,
		OutputDir:  r.OutputDir,
		Quality:    ytdlp.Quality(r.Quality),
		AddedAt:    r.AddedAt,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Completed:  r.Completed,
		Error:      r.Error,
		Files:      append([]string(nil), r.Files...),
	}
}

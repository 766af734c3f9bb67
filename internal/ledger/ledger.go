// Package ledger records, per analysis step and phase, whether that
// phase completed and how many positions it produced per dove count.
// It is purely diagnostic and resumability bookkeeping: board hashes
// themselves never pass through it, only counts and timings.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// PhaseRecord is what gets stored for one (step, phase) pair.
type PhaseRecord struct {
	Step       int           `json:"step"`
	Phase      string        `json:"phase"`
	Completed  bool          `json:"completed"`
	Counts     map[int]int   `json:"counts"` // dove-count -> position count
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Ledger wraps BadgerDB for the run ledger.
type Ledger struct {
	db *badger.DB
}

// Open opens (creating if necessary) the ledger database at dir.
func Open(dir string) (*Ledger, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

func phaseKey(step int, phase string) []byte {
	return []byte(fmt.Sprintf("step:%04d:phase:%s", step, phase))
}

// RecordPhase persists rec, overwriting any prior record for the same
// (Step, Phase).
func (l *Ledger) RecordPhase(rec PhaseRecord) error {
	rec.FinishedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(phaseKey(rec.Step, rec.Phase), data)
	})
}

// PhaseRecord returns the stored record for (step, phase), and whether
// one exists.
func (l *Ledger) PhaseRecord(step int, phase string) (*PhaseRecord, bool, error) {
	var rec PhaseRecord
	found := false
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(phaseKey(step, phase))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return &rec, true, nil
}

// IsPhaseComplete reports whether (step, phase) has a completed record,
// letting the driver skip re-running work a previous run already
// finished.
func (l *Ledger) IsPhaseComplete(step int, phase string) (bool, error) {
	rec, ok, err := l.PhaseRecord(step, phase)
	if err != nil || !ok {
		return false, err
	}
	return rec.Completed, nil
}

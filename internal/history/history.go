// Package history keeps a journal of submissions in badger.
package history

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tarungka/streamsx/internal/utils"
	"github.com/tarungka/streamsx/submit"
)

var (
	// ErrNotOpen is returned when the journal has been closed.
	ErrNotOpen = errors.New("history is not open")

	// ErrNotFound is returned when no submission has the requested id.
	ErrNotFound = errors.New("submission not found")
)

var keyPrefix = []byte("submission/")

// Record is one journaled submission. Times are unix nanoseconds.
type Record struct {
	ID          string   `json:"id"`
	ContextType string   `json:"context_type"`
	Descriptor  string   `json:"descriptor"`
	SubmitClass string   `json:"submit_class"`
	Args        []string `json:"args"`
	Started     int64    `json:"started"`
	Finished    int64    `json:"finished"`
	Error       string   `json:"error,omitempty"`
}

// Failed reports whether the submission returned an error.
func (r Record) Failed() bool { return r.Error != "" }

// Duration is how long the Java submitter ran.
func (r Record) Duration() time.Duration {
	return time.Duration(r.Finished - r.Started)
}

// FromEvent converts a finished submission into a record without an id.
func FromEvent(ev submit.Event) Record {
	r := Record{
		ContextType: string(ev.ContextType),
		Descriptor:  ev.Descriptor,
		SubmitClass: ev.SubmitClass,
		Args:        ev.Args,
		Started:     ev.Started.UnixNano(),
		Finished:    ev.Finished.UnixNano(),
	}
	if ev.Err != nil {
		r.Error = ev.Err.Error()
	}
	return r
}

// Store is a badger backed submission journal. Records are keyed by a
// UUIDv7, so key order is submission order.
type Store struct {
	open atomic.Bool

	logger zerolog.Logger

	db *badger.DB
	mu sync.RWMutex
}

// Open opens or creates the journal in dir.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("history directory must not be empty")
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(badgerLogger{log}))
	if err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", dir, err)
	}
	log.Debug().Msgf("opened a file-based history at %s", dir)
	return newStore(db, log), nil
}

// OpenInMemory opens a journal that is lost on Close.
func OpenInMemory(log zerolog.Logger) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{log}))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory history: %w", err)
	}
	log.Debug().Msg("opened an in-memory history")
	return newStore(db, log), nil
}

func newStore(db *badger.DB, log zerolog.Logger) *Store {
	s := &Store{db: db, logger: log}
	s.open.Store(true)
	return s
}

// Append stores r, giving it a new id when it has none, and returns the id.
func (s *Store) Append(r Record) (string, error) {
	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("failed to create record id: %w", err)
		}
		r.ID = id.String()
	}

	buf, err := utils.EncodeMsgPack(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode record %s: %w", r.ID, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open.Load() {
		return "", ErrNotOpen
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(r.ID), buf.Bytes())
	})
	if err != nil {
		s.logger.Err(err).Str("id", r.ID).Msg("err storing submission record")
		return "", err
	}
	s.logger.Trace().Str("id", r.ID).Msg("stored submission record")
	return r.ID, nil
}

// Record journals a finished submission. It lets a Store be passed to
// submit.WithRecorder.
func (s *Store) Record(ev submit.Event) error {
	_, err := s.Append(FromEvent(ev))
	return err
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open.Load() {
		return Record{}, ErrNotOpen
	}

	var r Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return utils.DecodeMsgPack(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		s.logger.Err(err).Str("id", id).Msg("err reading submission record")
		return Record{}, err
	}
	return r, nil
}

// List returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open.Load() {
		return nil, ErrNotOpen
	}

	records := []Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, keyPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(keyPrefix); it.Next() {
			var r Record
			err := it.Item().Value(func(val []byte) error {
				return utils.DecodeMsgPack(val, &r)
			})
			if err != nil {
				return fmt.Errorf("failed to decode record %s: %w", it.Item().Key(), err)
			}
			records = append(records, r)
			if limit > 0 && len(records) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Err(err).Msg("err listing submission records")
		return nil, err
	}
	return records, nil
}

// Close closes the journal. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open.CompareAndSwap(true, false) {
		return nil
	}
	return s.db.Close()
}

func recordKey(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

// badgerLogger routes badger's own logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{}) { l.log.Error().Msgf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn().Msgf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{}) { l.log.Debug().Msgf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{}) { l.log.Trace().Msgf(f, v...) }

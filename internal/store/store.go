package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultKey = "flowguide-demo-store"

// Change actions emitted to the change listener.
const (
	ActionInsert  = "insert"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReplace = "replace"
	ActionReset   = "reset"
)

// Change describes one applied mutation.
type Change struct {
	Table  Table  `json:"table,omitempty"`
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action"`
}

// SeedFunc builds the initial table set relative to now.
type SeedFunc func(now time.Time) (Tables, error)

type Option func(*Store)

// WithKey sets the durable key that holds the table set.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithSeed(seed SeedFunc) Option {
	return func(s *Store) { s.seed = seed }
}

// WithChangeListener registers fn to receive every applied mutation. It is
// called after the store lock is released.
func WithChangeListener(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Store is a keyed record store over a fixed set of named tables, persisted
// as one JSON blob in a durable KV slot. All reads and writes exchange deep
// copies so callers never alias internal state. Persistence is best effort:
// a failed write is logged and the in-memory state stays authoritative.
type Store struct {
	mu       sync.Mutex
	kv       KV
	key      string
	now      func() time.Time
	seed     SeedFunc
	logger   *zap.Logger
	onChange func(Change)
	tables   Tables
}

// New builds a store over kv and initializes it from the persisted blob.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		now:    func() time.Time { return time.Now().UTC() },
		seed:   DefaultSeed,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Init()
	return s
}

// Init reloads state from the durable slot. Absent or malformed state is
// replaced by a fresh seed, which is persisted immediately.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(s.key)
	switch {
	case err == nil:
		if tables, dropped, ok := decodeTables(raw); ok {
			if dropped > 0 {
				s.logger.Warn("Dropped malformed persisted rows", zap.String("key", s.key), zap.Int("rows", dropped))
			}
			s.tables = tables
			return
		}
		s.logger.Warn("Discarding malformed persisted store", zap.String("key", s.key))
	case !errors.Is(err, ErrKeyNotFound):
		s.logger.Warn("Failed to read persisted store", zap.String("key", s.key), zap.Error(err))
	}

	s.tables = s.seeded()
	s.persist()
}

// NowISO returns the store clock's current time as an ISO-8601 string.
func (s *Store) NowISO() string {
	return FormatISO(s.now())
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// GetTable returns a deep copy of every record in table.
func (s *Store) GetTable(table Table) ([]Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureIntegrity()

	return cloneRecords(s.tables[table]), nil
}

// SetTable replaces table wholesale with a copy of records.
func (s *Store) SetTable(table Table, records []Record) error {
	if !table.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	rows := make([]Record, 0, len(records))
	for _, r := range records {
		normalized, err := ToRecord(r)
		if err != nil {
			return err
		}
		rows = append(rows, normalized)
	}

	s.mu.Lock()
	s.ensureIntegrity()
	s.tables[table] = rows
	s.persist()
	s.mu.Unlock()

	s.emit(Change{Table: table, Action: ActionReplace})
	return nil
}

// Insert appends a copy of record to table and returns a copy of what was
// stored. A missing id is generated from the table prefix and a missing
// created_at defaults to now; updated_at defaults to created_at for tables
// that track updates. Duplicate ids are not checked.
func (s *Store) Insert(table Table, record Record) (Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	entry, err := ToRecord(record)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ensureIntegrity()
	if entry.ID() == "" {
		entry["id"] = GenerateID(table.IDPrefix())
	}
	if entry.String("created_at") == "" {
		entry["created_at"] = FormatISO(s.now())
	}
	if table.TracksUpdates() && entry.String("updated_at") == "" {
		entry["updated_at"] = entry["created_at"]
	}
	s.tables[table] = append(s.tables[table], entry)
	s.persist()
	out := entry.Clone()
	s.mu.Unlock()

	s.emit(Change{Table: table, ID: out.ID(), UserID: out.UserID(), Action: ActionInsert})
	return out, nil
}

// Update shallow-merges partial over the first record whose id matches and
// returns a copy of the result. The id and created_at are never overwritten
// and updated_at is refreshed when the record carries one. A missing id is
// a no-op that returns nil without error.
func (s *Store) Update(table Table, id string, partial Record) (Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	updates, err := ToRecord(partial)
	if err != nil {
		return nil, err
	}
	delete(updates, "id")
	delete(updates, "created_at")

	s.mu.Lock()
	s.ensureIntegrity()
	rows := s.tables[table]
	idx := -1
	for i, row := range rows {
		if row.ID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil, nil
	}

	merged := rows[idx].Clone()
	if merged == nil {
		merged = Record{}
	}
	for k, v := range updates {
		merged[k] = v
	}
	if _, ok := merged["updated_at"]; ok || table.TracksUpdates() {
		merged["updated_at"] = FormatISO(s.now())
	}
	rows[idx] = merged
	s.persist()
	out := merged.Clone()
	s.mu.Unlock()

	s.emit(Change{Table: table, ID: id, UserID: out.UserID(), Action: ActionUpdate})
	return out, nil
}

// Delete removes every record whose id matches and reports whether anything
// was removed. Nothing is persisted when the table is unchanged.
func (s *Store) Delete(table Table, id string) (bool, error) {
	if !table.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	s.mu.Lock()
	s.ensureIntegrity()
	rows := s.tables[table]
	next := make([]Record, 0, len(rows))
	userID := ""
	for _, row := range rows {
		if row.ID() == id {
			userID = row.UserID()
			continue
		}
		next = append(next, row)
	}
	if len(next) == len(rows) {
		s.mu.Unlock()
		return false, nil
	}
	s.tables[table] = next
	s.persist()
	s.mu.Unlock()

	s.emit(Change{Table: table, ID: id, UserID: userID, Action: ActionDelete})
	return true, nil
}

// Snapshot returns a deep copy of the whole table set.
func (s *Store) Snapshot() Tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureIntegrity()
	return cloneTables(s.tables)
}

// Reset discards all state and re-seeds.
func (s *Store) Reset() {
	s.mu.Lock()
	s.tables = s.seeded()
	s.persist()
	s.mu.Unlock()

	s.emit(Change{Action: ActionReset})
}

// ensureIntegrity must be called with s.mu held.
func (s *Store) ensureIntegrity() {
	if isValidTables(s.tables) {
		return
	}
	s.logger.Warn("Store state failed integrity check, re-seeding")
	s.tables = s.seeded()
	s.persist()
}

func (s *Store) seeded() Tables {
	tables, err := s.seed(s.now())
	if err != nil || !isValidTables(tables) {
		s.logger.Error("Seed data unusable, starting with empty tables", zap.Error(err))
		return emptyTables()
	}
	return cloneTables(tables)
}

// persist must be called with s.mu held. Failures are logged and swallowed.
func (s *Store) persist() {
	raw, err := json.Marshal(s.tables)
	if err != nil {
		s.logger.Warn("Failed to encode store", zap.Error(err))
		return
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		s.logger.Warn("Failed to persist store", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) emit(change Change) {
	if s.onChange != nil {
		s.onChange(change)
	}
}

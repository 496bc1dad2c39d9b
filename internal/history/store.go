package history

// Snapshot is an immutable copy of the full ordered record sequence at a
// point in time. It is the undo/redo memento payload and is never mutated
// after creation.
type Snapshot []Record

// Store is the ordered sequence of committed calculation records.
// Append-only by default, with wholesale replacement for undo/redo and load.
type Store struct {
	records []Record
	maxSize int
}

// NewStore creates a store bounded at maxSize records. A non-positive bound
// disables trimming.
func NewStore(maxSize int) *Store {
	return &Store{records: nil, maxSize: maxSize}
}

// Append adds a record, evicting the oldest entries past the bound.
func (s *Store) Append(r Record) {
	s.records = append(s.records, r)
	if s.maxSize > 0 && len(s.records) > s.maxSize {
		excess := len(s.records) - s.maxSize
		s.records = s.records[excess:]
	}
}

// Len reports the number of committed records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the record sequence in chronological order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Snapshot captures the current sequence as an immutable memento.
func (s *Store) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.records))
	copy(snap, s.records)
	return snap
}

// Restore replaces the sequence wholesale with the snapshot contents.
func (s *Store) Restore(snap Snapshot) {
	s.records = make([]Record, len(snap))
	copy(s.records, snap)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.records = nil
}

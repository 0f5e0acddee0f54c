package netsync

import "time"

const minRetained = 2

// SnapshotBuffer holds the most recent snapshots for one remote entity in
// arrival order. Entries are assumed to arrive with non-decreasing
// ReceivedAt; out of order arrivals are kept where they land unless the
// buffer sorts on insert.
type SnapshotBuffer struct {
	entries      []Snapshot
	capacity     int
	window       time.Duration
	sortOnInsert bool
}

// NewSnapshotBuffer returns an empty buffer holding at most capacity
// snapshots. Trim keeps entries younger than window behind the render time.
func NewSnapshotBuffer(capacity int, window time.Duration) *SnapshotBuffer {
	if capacity < minRetained {
		capacity = minRetained
	}
	return &SnapshotBuffer{
		entries:  make([]Snapshot, 0, capacity+1),
		capacity: capacity,
		window:   window,
	}
}

// Push appends s and evicts the oldest entries past capacity. Duplicates are
// kept.
func (b *SnapshotBuffer) Push(s Snapshot) {
	b.entries = append(b.entries, s)
	if b.sortOnInsert {
		for i := len(b.entries) - 1; i > 0 && b.entries[i-1].ReceivedAt > b.entries[i].ReceivedAt; i-- {
			b.entries[i-1], b.entries[i] = b.entries[i], b.entries[i-1]
		}
	}
	if over := len(b.entries) - b.capacity; over > 0 {
		b.entries = append(b.entries[:0], b.entries[over:]...)
	}
}

// Trim drops leading entries older than render minus the trim window, always
// leaving at least two entries.
func (b *SnapshotBuffer) Trim(render time.Duration) {
	cutoff := render - b.window
	drop := 0
	for len(b.entries)-drop > minRetained && b.entries[drop].ReceivedAt < cutoff {
		drop++
	}
	if drop > 0 {
		b.entries = append(b.entries[:0], b.entries[drop:]...)
	}
}

func (b *SnapshotBuffer) Len() int {
	return len(b.entries)
}

// At returns the i-th oldest entry.
func (b *SnapshotBuffer) At(i int) Snapshot {
	return b.entries[i]
}

// Latest returns the newest entry, or false on an empty buffer.
func (b *SnapshotBuffer) Latest() (Snapshot, bool) {
	if len(b.entries) == 0 {
		return Snapshot{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Snapshots returns a copy of the buffered entries, oldest first.
func (b *SnapshotBuffer) Snapshots() []Snapshot {
	out := make([]Snapshot, len(b.entries))
	copy(out, b.entries)
	return out
}

// bracket returns the first adjacent pair with u1 <= render <= u2.
func (b *SnapshotBuffer) bracket(render time.Duration) (Snapshot, Snapshot, bool) {
	for i := 0; i+1 < len(b.entries); i++ {
		u1, u2 := b.entries[i], b.entries[i+1]
		if u1.ReceivedAt <= render && render <= u2.ReceivedAt {
			return u1, u2, true
		}
	}
	return Snapshot{}, Snapshot{}, false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// Boot lines shown before the first directive.
var BootLog = []string{
	"[BOOT]: Aria-Nexus v.Final Fusion... OK",
	"[LINK]: Prime protocols online.",
}

// DefaultLogSize is how many entries the legacy log keeps.
const DefaultLogSize = 6

// SystemLog is a newest-first list capped at a fixed size. It is not safe
// for concurrent use on its own; Manager guards it.
type SystemLog struct {
	entries  []string
	capacity int
}

// NewSystemLog creates a log holding at most capacity entries, seeded with
// initial in the given (newest-first) order.
func NewSystemLog(capacity int, initial ...string) *SystemLog {
	if capacity < 1 {
		capacity = DefaultLogSize
	}
	l := &SystemLog{capacity: capacity}
	l.entries = append(l.entries, initial...)
	if len(l.entries) > capacity {
		l.entries = l.entries[:capacity]
	}
	return l
}

// Add puts entry on top and drops whatever falls past capacity.
func (l *SystemLog) Add(entry string) {
	keep := min(len(l.entries), l.capacity-1)
	next := make([]string, 0, keep+1)
	next = append(next, entry)
	next = append(next, l.entries[:keep]...)
	l.entries = next
}

// Entries returns a copy, newest first.
func (l *SystemLog) Entries() []string {
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l *SystemLog) Len() int {
	return len(l.entries)
}

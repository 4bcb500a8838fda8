// Package chatlog keeps the bounded chat transcript shown on screen.
package chatlog

import (
	"iter"
	"unicode/utf8"
)

const (
	// Capacity is the number of entries kept before the oldest is evicted.
	Capacity = 8
	// MaxTextLen bounds entry text in bytes.
	MaxTextLen = 16
)

// Origin tags who produced an entry.
type Origin uint8

const (
	Local Origin = iota
	Remote
	System
)

// Label is the on-screen prefix for the origin.
func (o Origin) Label() string {
	switch o {
	case Local:
		return "YOU"
	case Remote:
		return "OTH"
	default:
		return "[>]"
	}
}

func (o Origin) String() string {
	switch o {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "system"
	}
}

// Entry is one line of the transcript.
type Entry struct {
	Origin Origin
	Text   string
}

// Log is a fixed-size ring of entries. The zero value is an empty log.
//
// Only the count most recently written slots are ever read, so slots that
// were never written stay invisible.
type Log struct {
	slots [Capacity]Entry
	next  int
	count int
}

// New returns an empty log.
func New() *Log { return &Log{} }

// Append writes an entry, evicting the oldest once the log is full.
func (l *Log) Append(origin Origin, text string) {
	l.slots[l.next] = Entry{Origin: origin, Text: Truncate(text, MaxTextLen)}
	l.next = (l.next + 1) % Capacity
	if l.count < Capacity {
		l.count++
	}
}

// Len reports the number of valid entries.
func (l *Log) Len() int { return l.count }

// Entries yields the valid entries, most recent first. The sequence can be
// ranged over any number of times; it reflects the log at iteration time.
func (l *Log) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := 1; i <= l.count; i++ {
			idx := (l.next - i + Capacity) % Capacity
			if !yield(l.slots[idx]) {
				return
			}
		}
	}
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

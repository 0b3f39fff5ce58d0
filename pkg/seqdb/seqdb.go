// Package seqdb provides the in-memory sequence database mined by prefixspan.
//
// A sequence is a flat token slice: positive tokens are item ids, Separator
// closes an itemset and Terminator ends the sequence. The database owns one
// slot per input line; pruning may rewrite a slot in place or mark it absent.
package seqdb

import "errors"

// Token values with special meaning inside a Sequence.
const (
	// Separator closes the current itemset.
	Separator = -1
	// Terminator ends a sequence. It appears exactly once, as the last token.
	Terminator = -2
)

var (
	// ErrMalformedToken is returned when an input line holds non-integer text.
	ErrMalformedToken = errors.New("seqdb: malformed token")

	// ErrOpenInput is returned when the input resource cannot be opened.
	ErrOpenInput = errors.New("seqdb: open input")

	// ErrInputTooLarge is returned when the input exceeds the configured size limit.
	ErrInputTooLarge = errors.New("seqdb: input exceeds size limit")
)

// Sequence is an encoded token list ending in Terminator.
type Sequence []int

// ItemCount returns the number of item tokens before the terminator.
func (s Sequence) ItemCount() int {
	n := 0

	for _, tok := range s {
		if tok == Terminator {
			break
		}

		if tok > 0 {
			n++
		}
	}

	return n
}

// slot holds one database entry. An absent slot was logically deleted by pruning.
type slot struct {
	tokens  Sequence
	present bool
}

// Database is an ordered collection of sequences indexed by sequence id.
type Database struct {
	slots []slot
}

// New returns an empty database.
func New() *Database {
	return &Database{}
}

// FromTokens builds a database from raw token slices. Each slice is copied and
// terminated if it does not already end in Terminator.
func FromTokens(sequences [][]int) *Database {
	db := &Database{slots: make([]slot, 0, len(sequences))}

	for _, toks := range sequences {
		seq := make(Sequence, len(toks), len(toks)+1)
		copy(seq, toks)
		db.Append(seq)
	}

	return db
}

// Append adds a sequence, terminating it when needed.
func (db *Database) Append(seq Sequence) {
	if len(seq) == 0 || seq[len(seq)-1] != Terminator {
		seq = append(seq, Terminator)
	}

	db.slots = append(db.slots, slot{tokens: seq, present: true})
}

// Size returns the number of slots, including absent ones.
func (db *Database) Size() int {
	return len(db.slots)
}

// Get returns the sequence at id and whether it is present.
func (db *Database) Get(id int) (Sequence, bool) {
	s := db.slots[id]
	if !s.present {
		return nil, false
	}

	return s.tokens, true
}

// Truncate keeps the first n tokens of sequence id. The caller must have
// written the terminator at position n-1.
func (db *Database) Truncate(id, n int) {
	db.slots[id].tokens = db.slots[id].tokens[:n]
}

// Remove marks sequence id as absent.
func (db *Database) Remove(id int) {
	db.slots[id] = slot{}
}

// Present returns the number of present slots.
func (db *Database) Present() int {
	n := 0

	for _, s := range db.slots {
		if s.present {
			n++
		}
	}

	return n
}

package seqdb

// PseudoSequence marks where the unexplored suffix of a database sequence
// begins. It never copies tokens and is valid only while the referenced
// sequence is unchanged.
type PseudoSequence struct {
	SequenceID int
	Offset     int
}

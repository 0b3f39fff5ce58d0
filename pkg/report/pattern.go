// Package report formats mined sequential patterns and delivers them to
// output destinations.
package report

import (
	"strconv"
	"strings"
)

// Pattern is an ordered list of itemsets together with its support.
type Pattern struct {
	Itemsets [][]int `json:"itemsets" yaml:"itemsets"`
	Support  int     `json:"support"  yaml:"support"`
}

// Length returns the total number of items across all itemsets.
func (p Pattern) Length() int {
	n := 0
	for _, set := range p.Itemsets {
		n += len(set)
	}

	return n
}

// String renders the pattern as space-joined itemsets, e.g. "{1 2} {3}".
func (p Pattern) String() string {
	var sb strings.Builder

	for i, set := range p.Itemsets {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('{')

		for j, item := range set {
			if j > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(strconv.Itoa(item))
		}

		sb.WriteByte('}')
	}

	return sb.String()
}

// Reporter receives every accepted pattern of a run.
type Reporter interface {
	Report(p Pattern) error
	Close() error
}

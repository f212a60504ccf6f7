// Package charindex maps UTF-8 byte offsets of a text to codepoint indices.
package charindex

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Unknown is the offset sentinel that is never translated.
const Unknown = -1

var ErrOffsetOutOfRange = errors.New("offset out of range")

// Index holds, for every byte position of a text, the index of the codepoint
// covering that byte. The slot after the last byte holds the codepoint count.
type Index struct {
	table []int
}

// New builds the index of text. Invalid UTF-8 bytes count as one codepoint
// each.
func New(text string) Index {
	table := make([]int, len(text)+1)

	pos, i := 0, 0
	for pos < len(text) {
		_, w := utf8.DecodeRuneInString(text[pos:])
		for j := 0; j < w; j++ {
			table[pos+j] = i
		}
		pos += w
		i++
	}
	table[len(text)] = i

	return Index{table: table}
}

// Char returns the codepoint index of byte offset b. The Unknown sentinel is
// returned unchanged.
func (x Index) Char(b int) (int, error) {
	if b == Unknown {
		return Unknown, nil
	}

	if b < 0 || b >= len(x.table) {
		return Unknown, fmt.Errorf("byte offset %d not in [0, %d]: %w", b, x.Len(), ErrOffsetOutOfRange)
	}

	return x.table[b], nil
}

// Len is the byte length of the indexed text.
func (x Index) Len() int {
	if len(x.table) == 0 {
		return 0
	}
	return len(x.table) - 1
}

// Count is the number of codepoints of the indexed text.
func (x Index) Count() int {
	if len(x.table) == 0 {
		return 0
	}
	return x.table[len(x.table)-1]
}

package assemble

import (
	"errors"

	"github.com/revelaction/depnorm/charindex"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrEmptySentence        = errors.New("empty sentence")
	ErrOffsetOutOfRange     = charindex.ErrOffsetOutOfRange
)

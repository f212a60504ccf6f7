package assemble

import "fmt"

// HeadBase is the numbering of raw dependency heads.
type HeadBase int

const (
	// ZeroBased heads are token indices, -1 for the root.
	ZeroBased HeadBase = iota
	// OneBased heads count tokens from 1, 0 is the root.
	OneBased
)

func (b HeadBase) String() string {
	switch b {
	case ZeroBased:
		return "zero-based"
	case OneBased:
		return "one-based"
	}
	return fmt.Sprintf("HeadBase(%d)", int(b))
}

// Convention describes how a parser backend numbers heads and offsets.
type Convention struct {
	Name  string
	Heads HeadBase

	// EndExclusive is set when raw end offsets point one byte past the token.
	EndExclusive bool
}

var (
	UDPipe    = Convention{Name: "udpipe", Heads: OneBased, EndExclusive: true}
	SyntaxNet = Convention{Name: "syntaxnet", Heads: ZeroBased}
)

// Conventions lists the known presets.
func Conventions() []Convention {
	return []Convention{UDPipe, SyntaxNet}
}

// ConventionByName returns the preset with the given name.
func ConventionByName(name string) (Convention, error) {
	for _, c := range Conventions() {
		if c.Name == name {
			return c, nil
		}
	}
	return Convention{}, fmt.Errorf("unknown convention %q", name)
}

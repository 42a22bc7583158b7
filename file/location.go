// Package file carries source text and source-position information through
// the compiler, from the lexer's first token to the last diagnostic.
package file

import "fmt"

// Location is a byte-offset span into a Source. It is cheap to copy and is
// carried on every AST node; line/column are derived lazily from a Source
// rather than stored, so lowering never needs to keep them in sync.
type Location struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (loc Location) String() string {
	return fmt.Sprintf("[%d:%d]", loc.From, loc.To)
}

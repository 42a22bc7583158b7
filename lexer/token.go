// Package lexer tokenizes DSL source text. It is a standalone state-machine
// scanner in the style of blastbao-expr's parser/lexer, adapted to this
// DSL's literal-suffix and null-safe-operator grammar.
package lexer

import (
	"fmt"

	"github.com/arborlang/evalc/file"
)

type Kind string

const (
	Identifier Kind = "Identifier"
	Keyword    Kind = "Keyword"
	Number     Kind = "Number"
	String     Kind = "String"
	Char       Kind = "Char"
	Duration   Kind = "Duration"
	Operator   Kind = "Operator"
	Bracket    Kind = "Bracket"
	EOF        Kind = "EOF"
)

var keywords = map[string]bool{
	"var": true, "if": true, "else": true, "return": true,
	"true": true, "false": true, "null": true, "new": true,
	"instanceof": true, "in": true, "modify": true, "with": true,
}

type Token struct {
	file.Location
	Kind  Kind
	Value string
}

func (t Token) String() string {
	if t.Value == "" {
		return string(t.Kind)
	}
	return fmt.Sprintf("%s(%#v)", t.Kind, t.Value)
}

func (t Token) Is(kind Kind, values ...string) bool {
	if t.Kind != kind {
		return false
	}
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == t.Value {
			return true
		}
	}
	return false
}

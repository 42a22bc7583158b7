package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/file"
)

const eof = -1

// Lex tokenizes the full source text, returning a token list terminated by
// a single EOF token. It never returns a partial list: on the first
// scanning error it returns a *errs.Error of KindParse.
func Lex(source file.Source) ([]Token, error) {
	l := &lexer{source: source, input: source.String()}
	for state := stateRoot; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.tokens, nil
}

type stateFn func(*lexer) stateFn

type lexer struct {
	source     file.Source
	input      string
	start, end int
	tokens     []Token
	err        *errs.Error
}

func (l *lexer) next() rune {
	if l.end >= len(l.input) {
		l.end++ // keep moving so backup() after an eof read is well-defined
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.end:])
	l.end += w
	return r
}

func (l *lexer) backup() {
	if l.end <= l.start {
		return
	}
	if l.end > len(l.input) {
		l.end = len(l.input)
		return
	}
	_, w := utf8.DecodeLastRuneInString(l.input[l.start:l.end])
	l.end -= w
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) word() string { return l.input[l.start:l.end] }

func (l *lexer) skip() { l.start = l.end }

func (l *lexer) emit(kind Kind) {
	l.emitValue(kind, l.word())
}

func (l *lexer) emitValue(kind Kind, value string) {
	l.tokens = append(l.tokens, Token{
		Location: file.Location{From: l.start, To: l.end},
		Kind:     kind,
		Value:    value,
	})
	l.start = l.end
}

func (l *lexer) emitEOF() {
	l.tokens = append(l.tokens, Token{
		Location: file.Location{From: l.start, To: l.end},
		Kind:     EOF,
	})
}

func (l *lexer) errorf(format string, args ...any) stateFn {
	if l.err == nil {
		l.err = errs.NewParseError(l.input, file.Location{From: l.start, To: l.end}, format, args...)
	}
	return nil
}

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func isAlpha(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }
func isAlnum(r rune) bool { return isAlpha(r) || unicode.IsDigit(r) }

func stateRoot(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emitEOF()
		return nil
	case unicode.IsSpace(r):
		l.skip()
		return stateRoot
	case r == '\'' || r == '"':
		return stateQuoted(r)
	case '0' <= r && r <= '9':
		l.backup()
		return stateNumber
	case strings.ContainsRune("([{", r):
		l.emit(Bracket)
	case strings.ContainsRune(")]}", r):
		l.emit(Bracket)
	case r == '!':
		if l.accept("=") {
			l.emit(Operator) // !=
		} else if l.accept(".") {
			l.emit(Operator) // !.
		} else {
			l.emit(Operator) // !
		}
	case r == '?':
		if l.accept(".") {
			l.emit(Operator) // ?.
		} else if l.accept(":") {
			l.emit(Operator) // ?:
		} else {
			l.emit(Operator) // ?
		}
	case r == '&':
		if l.accept("&") {
			l.emit(Operator)
		} else if l.accept("=") {
			l.emit(Operator)
		} else {
			l.emit(Operator)
		}
	case r == '|':
		if l.accept("|") {
			l.emit(Operator)
		} else if l.accept("=") {
			l.emit(Operator)
		} else {
			l.emit(Operator)
		}
	case r == '=':
		if l.accept("=") {
			l.emit(Operator)
		} else {
			l.emit(Operator)
		}
	case r == '<':
		if l.accept("<") {
			l.accept("=")
			l.emit(Operator)
		} else {
			l.accept("=")
			l.emit(Operator)
		}
	case r == '>':
		if l.accept(">") {
			l.accept("=")
			l.emit(Operator)
		} else {
			l.accept("=")
			l.emit(Operator)
		}
	case strings.ContainsRune("+-*/%^~", r):
		l.accept("=")
		l.emit(Operator)
	case strings.ContainsRune(",;:", r):
		l.emit(Operator)
	case r == '#':
		l.emit(Operator) // inline cast
	case r == '.':
		l.emit(Operator)
	case isAlpha(r):
		l.backup()
		return stateIdentifier
	default:
		return l.errorf("unrecognized character: %q", r)
	}
	return stateRoot
}

func stateIdentifier(l *lexer) stateFn {
	l.next()
	for isAlnum(l.peek()) {
		l.next()
	}
	word := l.word()
	if keywords[word] {
		l.emit(Keyword)
	} else {
		l.emit(Identifier)
	}
	return stateRoot
}

var durationUnits = []string{"ms", "h", "m", "s"}

func stateNumber(l *lexer) stateFn {
	l.acceptRun("0123456789")
	if l.accept(".") {
		if !unicode.IsDigit(l.peek()) {
			l.backup() // trailing '.', not part of the number (e.g. "1.toString()" is out of scope but be safe)
		} else {
			l.acceptRun("0123456789")
		}
	}

	// Temporal duration: a run of (digits unit) groups with no separator,
	// e.g. 12h30m. Only recognized when at least one unit suffix follows
	// immediately and no single-letter numeric suffix already matched: a
	// lone "s" with no further digit group after it (5s) is the short
	// suffix below, not a seconds unit.
	rest := l.input[l.end:]
	loneShort := strings.HasPrefix(rest, "s") && (len(rest) == 1 || !unicode.IsDigit(rune(rest[1])))
	if !loneShort && isDurationUnit(l) {
		for isDurationUnit(l) {
			consumeDurationUnit(l)
			l.acceptRun("0123456789")
			if l.accept(".") {
				l.acceptRun("0123456789")
			}
		}
		l.emit(Duration)
		return stateRoot
	}

	// Single-letter numeric suffixes: L/l long, B big-decimal, I big-integer,
	// s/S short, f/F float, d/D double.
	l.accept("LlBIsSfFdD")
	l.emit(Number)
	return stateRoot
}

func isDurationUnit(l *lexer) bool {
	for _, u := range durationUnits {
		if strings.HasPrefix(l.input[l.end:], u) {
			return true
		}
	}
	return false
}

func consumeDurationUnit(l *lexer) {
	for _, u := range durationUnits {
		if strings.HasPrefix(l.input[l.end:], u) {
			l.end += len(u)
			return
		}
	}
}

func stateQuoted(quote rune) stateFn {
	return func(l *lexer) stateFn {
		kind := String
		for {
			r := l.next()
			switch {
			case r == eof || r == '\n':
				return l.errorf("unterminated string literal")
			case r == '\\':
				l.next() // consume escaped rune, validated at unescape time
			case r == quote:
				goto done
			}
		}
	done:
		raw := l.input[l.start+1 : l.end-1]
		value, err := unescape(raw)
		if err != nil {
			return l.errorf("%v", err)
		}
		if quote == '\'' {
			runes := []rune(value)
			if len(runes) == 1 {
				kind = Char
			}
		}
		l.emitValue(kind, value)
		return stateRoot
	}
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' || i == len(rs)-1 {
			b.WriteRune(rs[i])
			continue
		}
		i++
		switch rs[i] {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case '\\', '\'', '"':
			b.WriteRune(rs[i])
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String(), nil
}

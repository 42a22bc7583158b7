// Package parser turns DSL source text into EIR (package ast): the
// recursive-descent, precedence-climbing front end SPEC_FULL §4.A assigns
// component A. It is grounded on blastbao-expr/parser/parser.go's overall
// shape (a token-cursor struct, first-error-wins reporting, a postfix loop
// for member/call/index chains) but targets this DSL's own grammar and
// operator set rather than expr-lang's.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arborlang/evalc/ast"
	"github.com/arborlang/evalc/decl"
	"github.com/arborlang/evalc/errs"
	"github.com/arborlang/evalc/file"
	"github.com/arborlang/evalc/lexer"
	"github.com/arborlang/evalc/types"
)

// ParseExpression parses source as a single expression (CONTENT=EXPRESSION
// in SPEC_FULL §3.1's CompilerRequest). A single trailing ";" is tolerated;
// anything else left over is a parse error.
func ParseExpression(source string, table decl.Table, imports []string) (ast.Node, error) {
	p, err := newParser(source, table, imports)
	if err != nil {
		return nil, err
	}
	n := p.parseAssign()
	p.acceptOperator(";")
	p.expectEOF()
	if p.err != nil {
		return nil, p.err
	}
	return n, nil
}

// ParseBlock parses source as a sequence of statements (CONTENT=BLOCK),
// returning an *ast.Block.
func ParseBlock(source string, table decl.Table, imports []string) (ast.Node, error) {
	p, err := newParser(source, table, imports)
	if err != nil {
		return nil, err
	}
	start := p.here()
	var stmts []ast.Node
	for !p.at(lexer.EOF) && p.err == nil {
		stmts = append(stmts, p.parseStatement())
	}
	if p.err != nil {
		return nil, p.err
	}
	b := &ast.Block{Stmts: stmts}
	b.SetLocation(p.span(start))
	return b, nil
}

// parser walks a fixed token slice with one token of lookahead (current).
// locals tracks `var`-declared names in source order, so a later reference
// recovers the declared type without a second pass over the tree.
type parser struct {
	source  string
	tokens  []lexer.Token
	pos     int
	current lexer.Token

	table   decl.Table
	imports []string
	locals  map[string]types.Descriptor

	err *errs.Error
}

func newParser(source string, table decl.Table, imports []string) (*parser, error) {
	toks, err := lexer.Lex(file.NewSource(source))
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, tokens: toks, table: table, imports: imports, locals: map[string]types.Descriptor{}}
	p.current = p.tokens[0]
	return p, nil
}

func (p *parser) here() int { return p.current.From }

func (p *parser) span(from int) file.Location {
	return file.Location{From: from, To: p.current.To}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.current = p.tokens[p.pos]
}

func (p *parser) at(kind lexer.Kind, values ...string) bool {
	return p.current.Is(kind, values...)
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = errs.NewParseError(p.source, p.current.Location, format, args...)
	}
}

func (p *parser) failType(name string) {
	if p.err == nil {
		p.err = errs.NewTypeResolutionError(p.source, p.current.Location, name)
	}
}

func (p *parser) expectOperator(val string) {
	if p.err != nil {
		return
	}
	if !p.at(lexer.Operator, val) {
		p.fail("expected %q, found %s", val, p.current)
		return
	}
	p.advance()
}

func (p *parser) acceptOperator(val string) bool {
	if p.err == nil && p.at(lexer.Operator, val) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectBracket(val string) {
	if p.err != nil {
		return
	}
	if !p.at(lexer.Bracket, val) {
		p.fail("expected %q, found %s", val, p.current)
		return
	}
	p.advance()
}

func (p *parser) expectIdentifier() string {
	if p.err != nil {
		return ""
	}
	if p.current.Kind != lexer.Identifier {
		p.fail("expected an identifier, found %s", p.current)
		return ""
	}
	name := p.current.Value
	p.advance()
	return name
}

func (p *parser) expectEOF() {
	if p.err != nil {
		return
	}
	if !p.at(lexer.EOF) {
		p.fail("unexpected trailing input: %s", p.current)
	}
}

// ---- type names ----

// parseTypeName consumes a dotted identifier chain (e.g. java.util.List)
// and resolves it, recording a TypeResolutionError if it names nothing
// resolveType recognizes.
func (p *parser) parseTypeName() types.Descriptor {
	if p.err != nil {
		return types.Descriptor{}
	}
	var sb strings.Builder
	sb.WriteString(p.expectIdentifier())
	for p.at(lexer.Operator, ".") && p.peekIsIdentifier() {
		p.advance()
		sb.WriteByte('.')
		sb.WriteString(p.expectIdentifier())
	}
	if p.err != nil {
		return types.Descriptor{}
	}
	name := sb.String()
	if d, ok := resolveType(name, p.imports); ok {
		return d
	}
	p.failType(name)
	return types.Descriptor{}
}

func (p *parser) peekIsIdentifier() bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+1].Kind == lexer.Identifier
}

// ---- names against the declaration table ----

// resolveName implements SPEC_FULL §4.A's declaration-table resolution:
// a local (`var`-declared earlier in this parse) wins first, then the
// caller's Table, then the context/receiver's own name. Returning
// ok=false does not by itself fail the parse — a bare identifier
// immediately followed by "(" may still be a function or static-class
// name resolved later by the emitter (see requireResolved).
func (p *parser) resolveName(name string) (types.Descriptor, bool) {
	if t, ok := p.locals[name]; ok {
		return t, true
	}
	if d, _, ok := p.table.Lookup(name); ok {
		return d.Type, true
	}
	if p.table.Context.Name != "" && p.table.Context.Name == name {
		return p.table.Context.Type, true
	}
	return types.Descriptor{}, false
}

// requireResolved rejects n if it is a bare NameRef that never resolved
// against the declaration table. It is called wherever a name is about to
// be used as a value or a field-access scope, not where it might still be
// a static-class receiver for a method call (the emitter's classreg
// lookup covers that case, and rejects it there if it also fails).
func (p *parser) requireResolved(n ast.Node) {
	if p.err != nil || n == nil {
		return
	}
	if nr, ok := n.(*ast.NameRef); ok {
		if _, resolved := p.resolveName(nr.Name); !resolved {
			p.err = errs.NewParseError(p.source, nr.Location(), "undefined name %q", nr.Name)
		}
	}
}

// ---- statements ----

func (p *parser) parseStatement() ast.Node {
	start := p.here()
	switch {
	case p.at(lexer.Bracket, "{"):
		return p.parseBraceBlock()
	case p.at(lexer.Operator, ";"):
		p.advance()
		n := &ast.Empty{}
		n.SetLocation(p.span(start))
		return n
	case p.at(lexer.Keyword, "var"):
		return p.parseVarDecl()
	case p.at(lexer.Keyword, "if"):
		return p.parseIf()
	case p.at(lexer.Keyword, "return"):
		return p.parseReturn()
	case p.at(lexer.Keyword, "modify"):
		return p.parseModify()
	case p.at(lexer.Keyword, "with"):
		return p.parseWith()
	default:
		expr := p.parseAssign()
		p.acceptOperator(";")
		n := &ast.ExprStmt{Expr: expr}
		n.SetLocation(p.span(start))
		return n
	}
}

func (p *parser) parseStatementOrBlock() ast.Node {
	if p.at(lexer.Bracket, "{") {
		return p.parseBraceBlock()
	}
	return p.parseStatement()
}

func (p *parser) parseBraceBlock() ast.Node {
	start := p.here()
	p.expectBracket("{")
	var stmts []ast.Node
	for !p.at(lexer.Bracket, "}") && !p.at(lexer.EOF) && p.err == nil {
		stmts = append(stmts, p.parseStatement())
	}
	p.expectBracket("}")
	b := &ast.Block{Stmts: stmts}
	b.SetLocation(p.span(start))
	return b
}

func (p *parser) parseVarDecl() ast.Node {
	start := p.here()
	p.advance() // "var"
	name := p.expectIdentifier()
	var init ast.Node
	if p.acceptOperator("=") {
		init = p.parseAssign()
	}
	p.acceptOperator(";")
	var typ types.Descriptor
	if init != nil {
		typ = init.Type()
	}
	p.locals[name] = typ
	n := &ast.VarDecl{Inferred: true, Name: name, Init: init}
	n.SetType(typ)
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseIf() ast.Node {
	start := p.here()
	p.advance() // "if"
	p.expectBracket("(")
	cond := p.parseAssign()
	p.expectBracket(")")
	then := p.parseStatementOrBlock()
	var els ast.Node
	if p.at(lexer.Keyword, "else") {
		p.advance()
		els = p.parseStatementOrBlock()
	}
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseReturn() ast.Node {
	start := p.here()
	p.advance() // "return"
	if p.at(lexer.Operator, ";") || p.at(lexer.Bracket, "}") || p.at(lexer.EOF) {
		p.acceptOperator(";")
		n := &ast.Return{}
		n.SetLocation(p.span(start))
		return n
	}
	expr := p.parseAssign()
	p.acceptOperator(";")
	n := &ast.Return{Expr: expr}
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseModify() ast.Node {
	start := p.here()
	p.advance() // "modify"
	p.expectBracket("(")
	target := p.parseAssign()
	p.expectBracket(")")
	body := p.parseBraceBlock().(*ast.Block)
	n := &ast.Modify{Target: target, Stmts: body.Stmts}
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseWith() ast.Node {
	start := p.here()
	p.advance() // "with"
	p.expectBracket("(")
	target := p.parseAssign()
	p.expectBracket(")")
	body := p.parseBraceBlock().(*ast.Block)
	n := &ast.With{Target: target, Stmts: body.Stmts}
	n.SetLocation(p.span(start))
	return n
}

// ---- expressions ----

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

func (p *parser) parseAssign() ast.Node {
	left := p.parseTernary()
	if p.err != nil {
		return left
	}
	if p.current.Kind == lexer.Operator && assignOps[p.current.Value] {
		op := p.current.Value
		p.advance()
		right := p.parseAssign()
		n := &ast.Assign{Op: op, Target: left, Value: right}
		n.SetType(left.Type())
		n.SetLocation(file.Location{From: left.Location().From, To: p.current.From})
		return n
	}
	return left
}

func (p *parser) parseTernary() ast.Node {
	cond := p.parseBinary(3)
	if p.err != nil {
		return cond
	}
	switch {
	case p.acceptOperator("?"):
		then := p.parseAssign()
		p.expectOperator(":")
		els := p.parseAssign()
		if p.err != nil {
			return then
		}
		n := &ast.Conditional{Cond: cond, Then: then, Else: els}
		n.SetType(then.Type())
		n.SetLocation(file.Location{From: cond.Location().From, To: p.current.From})
		return n
	case p.at(lexer.Operator, "?:"):
		p.advance()
		els := p.parseAssign()
		n := &ast.Conditional{Then: cond, Else: els}
		n.SetType(cond.Type())
		n.SetLocation(file.Location{From: cond.Location().From, To: p.current.From})
		return n
	default:
		return cond
	}
}

// precedence orders this DSL's binary operators tightest-last, the shape
// parseBinary's climbing loop expects. instanceof/is share level 9 with
// the relational operators and are handled as a special case in the loop
// since their right operand is a type name, not an expression.
func precedence(op string) (int, bool) {
	switch op {
	case "||":
		return 3, true
	case "&&":
		return 4, true
	case "|":
		return 5, true
	case "^":
		return 6, true
	case "&":
		return 7, true
	case "==", "!=":
		return 8, true
	case "<", "<=", ">", ">=":
		return 9, true
	case "<<", ">>":
		return 10, true
	case "+", "-":
		return 11, true
	case "*", "/", "%":
		return 12, true
	default:
		return 0, false
	}
}

func (p *parser) parseBinary(minPrec int) ast.Node {
	left := p.parseUnary()
	for p.err == nil {
		isTypeTest := p.at(lexer.Keyword, "instanceof") || p.at(lexer.Identifier, "is")
		if isTypeTest {
			if minPrec > 9 {
				break
			}
			p.advance()
			target := p.parseTypeNameOperand()
			n := &ast.Binary{Op: "instanceof", Left: left, Right: target}
			n.SetType(types.Prim(types.Boolean))
			n.SetLocation(file.Location{From: left.Location().From, To: p.current.From})
			left = n
			continue
		}
		if p.current.Kind != lexer.Operator {
			break
		}
		prec, ok := precedence(p.current.Value)
		if !ok || prec < minPrec {
			break
		}
		op := p.current.Value
		p.advance()
		right := p.parseBinary(prec + 1)
		if p.err != nil {
			return right
		}
		n := &ast.Binary{Op: op, Left: left, Right: right}
		n.SetType(binaryResultType(op, left, right))
		n.SetLocation(file.Location{From: left.Location().From, To: p.current.From})
		left = n
	}
	return left
}

// binaryResultType is a best-effort preliminary type for a Binary node;
// lowering and the emitter both re-derive types where it matters (numeric
// widening, string concatenation), so this only needs to be good enough
// for later NameRef propagation through `var` initializers.
func binaryResultType(op string, left, right ast.Node) types.Descriptor {
	if left == nil {
		return types.Descriptor{}
	}
	if right == nil {
		return left.Type()
	}
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return types.Prim(types.Boolean)
	case "+":
		if left.Type().IsReference() && left.Type().FQCN == "java.lang.String" {
			return left.Type()
		}
		if right.Type().IsReference() && right.Type().FQCN == "java.lang.String" {
			return right.Type()
		}
		fallthrough
	default:
		if left.Type().IsPrimitive() && right.Type().IsPrimitive() {
			return types.Prim(types.Widen(left.Type().Primitive, right.Type().Primitive))
		}
		return left.Type()
	}
}

// parseTypeNameOperand parses the right-hand type name of an
// instanceof/is expression as a NameRef carrying the resolved type, the
// shape emit.emitInstanceOf expects.
func (p *parser) parseTypeNameOperand() ast.Node {
	start := p.here()
	target := p.parseTypeName()
	n := &ast.NameRef{Name: target.String()}
	n.SetType(target)
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseUnary() ast.Node {
	if p.at(lexer.Operator, "!") || p.at(lexer.Operator, "-") || p.at(lexer.Operator, "~") {
		start := p.here()
		op := p.current.Value
		p.advance()
		inner := p.parseUnary()
		if p.err != nil {
			return inner
		}
		n := &ast.Unary{Op: op, Inner: inner}
		if op == "!" {
			n.SetType(types.Prim(types.Boolean))
		} else {
			n.SetType(inner.Type())
		}
		n.SetLocation(p.span(start))
		return n
	}
	return p.parseOperand()
}

// parseOperand parses one primary expression plus any postfix chain, and
// is the single point where a bare, never-resolved NameRef is finally
// rejected (see requireResolved).
func (p *parser) parseOperand() ast.Node {
	n := p.parsePostfix(p.parsePrimary())
	p.requireResolved(n)
	return n
}

func (p *parser) parsePostfix(node ast.Node) ast.Node {
	for p.err == nil && node != nil {
		start := node.Location().From
		switch {
		case p.at(lexer.Bracket, "("):
			nr, ok := node.(*ast.NameRef)
			if !ok {
				return node
			}
			args := p.parseArgs()
			mc := &ast.MethodCall{Name: nr.Name, Args: args}
			mc.SetLocation(p.span(start))
			node = mc

		case p.at(lexer.Operator, "."), p.at(lexer.Operator, "?."), p.at(lexer.Operator, "!."):
			opVal := p.current.Value
			p.advance()
			name := p.expectIdentifier()
			if p.err != nil {
				return node
			}
			if p.at(lexer.Bracket, "(") {
				args := p.parseArgs()
				var call ast.Node
				if opVal == "." {
					call = &ast.MethodCall{Scope: node, Name: name, Args: args}
				} else {
					call = &ast.NullSafeMethodCall{Scope: node, Name: name, Args: args}
				}
				call.SetLocation(p.span(start))
				node = call
				continue
			}
			p.requireResolved(node)
			var fg ast.Node
			if opVal == "." {
				fg = &ast.FieldGet{Scope: node, Field: name}
			} else {
				fg = &ast.NullSafeFieldGet{Scope: node, Field: name}
			}
			fg.SetLocation(p.span(start))
			node = fg

		case p.at(lexer.Bracket, "["):
			p.requireResolved(node)
			p.advance()
			idx := p.parseAssign()
			p.expectBracket("]")
			aa := &ast.ArrayAccess{Scope: node, Index: idx}
			aa.SetLocation(p.span(start))
			node = aa

		case p.at(lexer.Operator, "#"):
			p.advance()
			target := p.parseTypeName()
			ic := &ast.InlineCast{TargetType: target, Inner: node}
			ic.SetType(target)
			ic.SetLocation(p.span(start))
			node = ic

		default:
			return node
		}
	}
	return node
}

func (p *parser) parseArgs() []ast.Node {
	p.expectBracket("(")
	var args []ast.Node
	if p.at(lexer.Bracket, ")") {
		p.advance()
		return args
	}
	for p.err == nil {
		args = append(args, p.parseAssign())
		if !p.acceptOperator(",") {
			break
		}
	}
	p.expectBracket(")")
	return args
}

func (p *parser) parsePrimary() ast.Node {
	tok := p.current
	switch {
	case tok.Is(lexer.Keyword, "true"), tok.Is(lexer.Keyword, "false"):
		p.advance()
		n := &ast.BoolLit{Value: tok.Value == "true"}
		n.SetType(types.Prim(types.Boolean))
		n.SetLocation(tok.Location)
		return n

	case tok.Is(lexer.Keyword, "null"):
		p.advance()
		n := &ast.NullLit{}
		n.SetType(types.NullDescriptor)
		n.SetLocation(tok.Location)
		return n

	case tok.Is(lexer.Keyword, "new"):
		return p.parseNew()

	case tok.Kind == lexer.Number:
		return p.parseNumber()

	case tok.Kind == lexer.String:
		p.advance()
		n := &ast.StringLit{Value: tok.Value}
		n.SetType(wellKnown["String"])
		n.SetLocation(tok.Location)
		return n

	case tok.Kind == lexer.Char:
		p.advance()
		r := []rune(tok.Value)
		var v uint16
		if len(r) > 0 {
			v = uint16(r[0])
		}
		n := &ast.CharLit{Value: v}
		n.SetType(types.Prim(types.Char))
		n.SetLocation(tok.Location)
		return n

	case tok.Kind == lexer.Duration:
		p.advance()
		h, m, s, ms, err := parseDurationText(tok.Value)
		if err != nil {
			p.err = errs.NewParseError(p.source, tok.Location, "%v", err)
			return nil
		}
		n := &ast.TemporalDurationLit{Hours: h, Minutes: m, Seconds: s, Millis: ms}
		n.SetLocation(tok.Location)
		return n

	case tok.Is(lexer.Bracket, "("):
		p.advance()
		inner := p.parseAssign()
		p.expectBracket(")")
		n := &ast.Enclosed{Inner: inner}
		if inner != nil {
			n.SetType(inner.Type())
		}
		n.SetLocation(p.span(tok.From))
		return n

	case tok.Is(lexer.Bracket, "["):
		return p.parseBracketLiteral()

	case tok.Kind == lexer.Identifier:
		p.advance()
		name := tok.Value
		if p.at(lexer.Bracket, "(") {
			// bare function-style call target; left unresolved here and
			// settled by the emitter's classreg/local lookup.
			n := &ast.NameRef{Name: name}
			n.SetLocation(tok.Location)
			return n
		}
		n := &ast.NameRef{Name: name}
		if t, ok := p.resolveName(name); ok {
			n.SetType(t)
		}
		n.SetLocation(tok.Location)
		return n

	default:
		p.fail("unexpected token %s", tok)
		return nil
	}
}

func (p *parser) parseNew() ast.Node {
	start := p.here()
	p.advance() // "new"
	target := p.parseTypeName()
	args := p.parseArgs()
	n := &ast.ObjectNew{TypeName: target.String(), Args: args}
	n.SetType(target)
	n.SetLocation(p.span(start))
	return n
}

func (p *parser) parseBracketLiteral() ast.Node {
	start := p.here()
	p.expectBracket("[")
	if p.at(lexer.Bracket, "]") {
		p.advance()
		n := &ast.ListLiteral{}
		n.SetType(types.GenericRef("java.util.List"))
		n.SetLocation(p.span(start))
		return n
	}
	first := p.parseAssign()
	if p.acceptOperator(":") {
		val := p.parseAssign()
		entries := []ast.MapEntry{{Key: first, Value: val}}
		for p.acceptOperator(",") {
			k := p.parseAssign()
			p.expectOperator(":")
			v := p.parseAssign()
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		p.expectBracket("]")
		n := &ast.MapLiteral{Entries: entries}
		n.SetType(types.GenericRef("java.util.Map"))
		n.SetLocation(p.span(start))
		return n
	}
	elems := []ast.Node{first}
	for p.acceptOperator(",") {
		elems = append(elems, p.parseAssign())
	}
	p.expectBracket("]")
	n := &ast.ListLiteral{Elements: elems}
	n.SetType(types.GenericRef("java.util.List"))
	n.SetLocation(p.span(start))
	return n
}

// ---- numeric literals ----

const numberSuffixes = "LlBIsSfFdD"

func (p *parser) parseNumber() ast.Node {
	tok := p.current
	p.advance()
	text := tok.Value
	numPart := text
	var suffix byte
	if last := text[len(text)-1]; strings.IndexByte(numberSuffixes, last) >= 0 {
		suffix = last
		numPart = text[:len(text)-1]
	}

	var n ast.Node
	var err error
	switch suffix {
	case 'L', 'l':
		var v int64
		v, err = strconv.ParseInt(numPart, 10, 64)
		lit := &ast.LongLit{Value: v}
		lit.SetType(types.Prim(types.Long))
		n = lit
	case 'B':
		lit := &ast.BigDecimalLit{Text: numPart}
		lit.SetType(wellKnown["BigDecimal"])
		n = lit
	case 'I':
		lit := &ast.BigIntegerLit{Text: numPart}
		lit.SetType(wellKnown["BigInteger"])
		n = lit
	case 's', 'S':
		var v int64
		v, err = strconv.ParseInt(numPart, 10, 16)
		lit := &ast.ShortLit{Value: int16(v)}
		lit.SetType(types.Prim(types.Short))
		n = lit
	case 'f', 'F':
		var v float64
		v, err = strconv.ParseFloat(numPart, 32)
		lit := &ast.FloatLit{Value: float32(v)}
		lit.SetType(types.Prim(types.Float))
		n = lit
	case 'd', 'D':
		var v float64
		v, err = strconv.ParseFloat(numPart, 64)
		lit := &ast.DoubleLit{Value: v}
		lit.SetType(types.Prim(types.Double))
		n = lit
	default:
		if strings.Contains(numPart, ".") {
			var v float64
			v, err = strconv.ParseFloat(numPart, 64)
			lit := &ast.DoubleLit{Value: v}
			lit.SetType(types.Prim(types.Double))
			n = lit
		} else if v, ierr := strconv.ParseInt(numPart, 10, 32); ierr == nil {
			lit := &ast.IntLit{Value: int32(v)}
			lit.SetType(types.Prim(types.Int))
			n = lit
		} else if v, lerr := strconv.ParseInt(numPart, 10, 64); lerr == nil {
			// literal overflows int32: widen to long rather than fail,
			// matching how an unsuffixed literal too big for int behaves
			// in the source language this DSL is modeled on.
			lit := &ast.LongLit{Value: v}
			lit.SetType(types.Prim(types.Long))
			n = lit
		} else {
			err = lerr
		}
	}
	if err != nil {
		p.err = errs.NewParseError(p.source, tok.Location, "invalid numeric literal %q: %v", text, err)
		return nil
	}
	n.SetLocation(tok.Location)
	return n
}

var durationUnitOrder = []string{"ms", "h", "m", "s"}

// parseDurationText decomposes a lexer.Duration token's raw text (e.g.
// "12h30m") into its component counts. It mirrors lexer.go's own
// unit-matching order (ms before m) so the same text always splits the
// same way in both places. Fractional components (e.g. "1.5h") are
// rejected: TemporalDurationLit has no field to hold them.
func parseDurationText(raw string) (h, m, s, ms int64, err error) {
	i := 0
	for i < len(raw) {
		start := i
		for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
			i++
		}
		if i == start {
			return 0, 0, 0, 0, fmt.Errorf("invalid duration literal %q", raw)
		}
		numText := raw[start:i]
		if i < len(raw) && raw[i] == '.' {
			return 0, 0, 0, 0, fmt.Errorf("fractional duration components are not supported: %q", raw)
		}
		unit := ""
		for _, u := range durationUnitOrder {
			if strings.HasPrefix(raw[i:], u) {
				unit = u
				break
			}
		}
		if unit == "" {
			return 0, 0, 0, 0, fmt.Errorf("unrecognized duration unit in %q", raw)
		}
		i += len(unit)
		v, convErr := strconv.ParseInt(numText, 10, 64)
		if convErr != nil {
			return 0, 0, 0, 0, convErr
		}
		switch unit {
		case "h":
			h += v
		case "m":
			m += v
		case "s":
			s += v
		case "ms":
			ms += v
		}
	}
	return h, m, s, ms, nil
}

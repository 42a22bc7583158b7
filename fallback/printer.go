package fallback

import (
	"fmt"
	"strings"

	"github.com/arborlang/evalc/ast"
)

// Print pretty-prints n as syntactically valid Go-like source text wrapped
// in a function body, the artifact SPEC_FULL §4.D step 1 calls for before
// handing anything to a HostCompiler. package ast's own String helper
// documents this package as the fuller round-trip printer it is not; this
// is that printer.
func Print(n ast.Node) string {
	var b strings.Builder
	b.WriteString("func Eval(ctx any) any {\n")
	printStmtOrExpr(&b, n, 1)
	b.WriteString("}\n")
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("\t")
	}
}

func printStmtOrExpr(b *strings.Builder, n ast.Node, depth int) {
	if blk, ok := n.(*ast.Block); ok {
		for _, s := range blk.Stmts {
			printStmt(b, s, depth)
		}
		return
	}
	if isStmtNode(n) {
		printStmt(b, n, depth)
		return
	}
	indent(b, depth)
	b.WriteString("return ")
	b.WriteString(printExpr(n))
	b.WriteString("\n")
}

func isStmtNode(n ast.Node) bool {
	switch n.(type) {
	case *ast.ExprStmt, *ast.VarDecl, *ast.If, *ast.Return, *ast.Block, *ast.Empty:
		return true
	default:
		return false
	}
}

func printStmt(b *strings.Builder, n ast.Node, depth int) {
	indent(b, depth)
	switch v := n.(type) {
	case *ast.ExprStmt:
		b.WriteString(printExpr(v.Expr))
		b.WriteString("\n")
	case *ast.VarDecl:
		b.WriteString("var ")
		b.WriteString(v.Name)
		if v.Init != nil {
			b.WriteString(" = ")
			b.WriteString(printExpr(v.Init))
		}
		b.WriteString("\n")
	case *ast.If:
		b.WriteString("if ")
		b.WriteString(printExpr(v.Cond))
		b.WriteString(" {\n")
		printStmtOrExpr(b, v.Then, depth+1)
		indent(b, depth)
		if v.Else != nil {
			b.WriteString("} else {\n")
			printStmtOrExpr(b, v.Else, depth+1)
			indent(b, depth)
		}
		b.WriteString("}\n")
	case *ast.Return:
		b.WriteString("return")
		if v.Expr != nil {
			b.WriteString(" ")
			b.WriteString(printExpr(v.Expr))
		}
		b.WriteString("\n")
	case *ast.Block:
		b.WriteString("{\n")
		for _, s := range v.Stmts {
			printStmt(b, s, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *ast.Empty:
		b.WriteString(";\n")
	default:
		b.WriteString(printExpr(v))
		b.WriteString("\n")
	}
}

func printExpr(n ast.Node) string {
	if n == nil {
		return "nil"
	}
	switch v := n.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", v.Value)
	case *ast.LongLit:
		return fmt.Sprintf("%dL", v.Value)
	case *ast.ShortLit:
		return fmt.Sprintf("%ds", v.Value)
	case *ast.ByteLit:
		return fmt.Sprintf("(byte)(%d)", v.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%gf", v.Value)
	case *ast.DoubleLit:
		return fmt.Sprintf("%gd", v.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("%t", v.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", v.Value)
	case *ast.CharLit:
		return fmt.Sprintf("'%c'", rune(v.Value))
	case *ast.NullLit:
		return "null"
	case *ast.BigDecimalLit:
		return v.Text + "B"
	case *ast.BigIntegerLit:
		return v.Text + "I"
	case *ast.NameRef:
		return v.Name
	case *ast.Enclosed:
		return "(" + printExpr(v.Inner) + ")"
	case *ast.Unary:
		return v.Op + printExpr(v.Inner)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", printExpr(v.Left), v.Op, printExpr(v.Right))
	case *ast.Assign:
		return fmt.Sprintf("%s %s %s", printExpr(v.Target), v.Op, printExpr(v.Value))
	case *ast.Cast:
		return fmt.Sprintf("(%s)(%s)", v.TargetType.String(), printExpr(v.Inner))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", printExpr(v.Cond), printExpr(v.Then), printExpr(v.Else))
	case *ast.FieldGet:
		return printExpr(v.Scope) + "." + v.Field
	case *ast.ArrayAccess:
		return fmt.Sprintf("%s[%s]", printExpr(v.Scope), printExpr(v.Index))
	case *ast.MethodCall:
		return printCall(v.Scope, v.Name, v.Args)
	case *ast.ObjectNew:
		return fmt.Sprintf("new %s(%s)", v.TypeName, printArgs(v.Args))
	case *ast.MapLiteral:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = printExpr(e.Key) + ": " + printExpr(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.ListLiteral:
		return "[" + printArgs(v.Elements) + "]"
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

func printCall(scope ast.Node, name string, args []ast.Node) string {
	if scope == nil {
		return fmt.Sprintf("%s(%s)", name, printArgs(args))
	}
	return fmt.Sprintf("%s.%s(%s)", printExpr(scope), name, printArgs(args))
}

func printArgs(args []ast.Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printExpr(a)
	}
	return strings.Join(parts, ", ")
}

package cspc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexaredecimal/CSpydr/token"
)

// parseSource is the shared test fixture: lex + parse a source string
// into a Program, failing the test on any parse error (mirrors the
// teacher's go/*_test.go helper-function style over table-driven
// frameworks).
func parseSource(t *testing.T, src string) *Program {
	t.Helper()
	global := NewGlobal()
	arena := NewArena()
	sink := NewErrorSink(global)
	program := NewProgram(global, arena)
	lexer := token.NewLexer("test.csp", src)
	parser := NewParser(lexer, sink, program)
	require.NoError(t, parser.ParseProgram())
	return program
}

func checkedProgram(t *testing.T, src string) *Program {
	t.Helper()
	program := parseSource(t, src)
	checker := NewTypeChecker(program, NewErrorSink(program.Global))
	require.NoError(t, checker.Run())
	return program
}

func findObj(program *Program, name string) *Object {
	for _, o := range program.Objects.Items() {
		if o.Ident != nil && o.Ident.Name == name && o.Ident.Outer == nil {
			return o
		}
	}
	return nil
}

func findObjByChain(program *Program, chain ...string) *Object {
	for _, o := range program.Objects.Items() {
		if o.Ident != nil && chainEqual(o.Ident.Chain(), chain) {
			return o
		}
	}
	return nil
}

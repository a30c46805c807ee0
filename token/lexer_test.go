package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	lex := NewLexer("test.csp", input)
	var toks []Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "fn main(): i32 { ret 0; }")
	require.NotEmpty(t, toks)
	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		KW_FN, IDENT, LPAREN, RPAREN, COLON, IDENT, LBRACE,
		KW_RETURN, INT, SEMI, RBRACE, EOF,
	}, kinds)
}

func TestLexerOperatorDisambiguation(t *testing.T) {
	toks := scanAll(t, "a |> f($) :: b -> c")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, PIPE_GT)
	assert.Contains(t, kinds, DOLLAR)
	assert.Contains(t, kinds, COLONCOLON)
	assert.Contains(t, kinds, ARROW)
}

func TestLexerStringAndComment(t *testing.T) {
	toks := scanAll(t, `import "foo"; // trailing comment
let x: i32;`)
	require.GreaterOrEqual(t, len(toks), 6)
	assert.Equal(t, KW_IMPORT, toks[0].Kind)
	assert.Equal(t, STRING, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Value)
}

func TestLexerPeekIsStable(t *testing.T) {
	lex := NewLexer("t.csp", "fn")
	first := lex.Peek()
	second := lex.Peek()
	assert.Equal(t, first, second)
	assert.Equal(t, first, lex.Next())
}

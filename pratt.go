package cspc

import "github.com/hexaredecimal/CSpydr/token"

// precedence classes from spec.md §4.1.2, lowest to highest. Several
// levels are deliberately aliased (GT==LT, MINUS==PLUS, DIV==MULT,
// DEC==INC) and spec.md §9 is explicit that implementers must not
// "tidy" this by separating them, because the parser compares levels
// with `<`, never `<=`. Grounded on the funxy compiler's
// prefixParseFn/infixParseFn-map Pratt parser (internal/parser,
// `precedences` table + `registerPrefix`/`registerInfix`), since the
// teacher (langlang) is a PEG parser with no precedence climbing of
// its own.
type precedence int

const (
	precLowest precedence = iota
	precAssign
	precPipe
	precLogicOr
	precLogicAnd
	precInfixCall
	precBitOr
	precBitXor
	precBitAnd
	precEquals
	precCompare // LT == GT
	precBitShift
	precAdd // PLUS == MINUS
	precMul // MULT == DIV
	precMod
	precPower
	precIncDec // INC == DEC
	precXOf
	precCast
	precCall
	precArray
	precMember
)

var tokenPrecedence = map[token.Kind]precedence{
	token.ASSIGN: precAssign,
	token.PIPE_GT: precPipe,
	token.OROR:    precLogicOr,
	token.ANDAND:  precLogicAnd,
	token.BACKTICK: precInfixCall,
	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,
	token.EQ:  precEquals,
	token.NEQ: precEquals,
	token.LT: precCompare,
	token.GT: precCompare, // aliased with LT per spec.md §9 — do not separate
	token.LE: precCompare,
	token.GE: precCompare,
	token.SHL: precBitShift,
	token.SHR: precBitShift,
	token.PLUS:  precAdd,
	token.MINUS: precAdd, // aliased with PLUS
	token.STAR:  precMul,
	token.SLASH: precMul, // aliased with STAR
	token.PERCENT: precMod,
	token.POWER2: precPower,
	token.POWER3: precPower,
	token.INC: precIncDec,
	token.DEC: precIncDec, // aliased with INC
	token.LPAREN:   precCall,
	token.LBRACKET: precArray,
	token.DOT:      precMember,
	token.COLON:    precCast,
}

func (p *Parser) peekPrecedence() precedence {
	if prec, ok := tokenPrecedence[p.peek.Kind]; ok {
		return prec
	}
	return precLowest
}

type prefixParseFn func() (*Node, error)
type infixParseFn func(left *Node) (*Node, error)

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) {
	p.prefixFns[k] = fn
}

func (p *Parser) registerInfix(k token.Kind, fn infixParseFn) {
	p.infixFns[k] = fn
}

func (p *Parser) installGrammar() {
	p.prefixFns = make(map[token.Kind]prefixParseFn)
	p.infixFns = make(map[token.Kind]infixParseFn)

	p.registerPrefix(token.INT, p.parseIntLit)
	p.registerPrefix(token.FLOAT, p.parseFloatLit)
	p.registerPrefix(token.STRING, p.parseStringLit)
	p.registerPrefix(token.CHAR, p.parseCharLit)
	p.registerPrefix(token.KW_TRUE, p.parseBoolLit)
	p.registerPrefix(token.KW_FALSE, p.parseBoolLit)
	p.registerPrefix(token.KW_NIL, p.parseNilLit)
	p.registerPrefix(token.IDENT, p.parseIdentOrCall)
	p.registerPrefix(token.DOLLAR, p.parsePlaceholder)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrTypePredicate)
	p.registerPrefix(token.LBRACE, p.parseStructLitOrTupleType)
	p.registerPrefix(token.LBRACKET, p.parseArrayLit)
	p.registerPrefix(token.PIPE, p.parseLambdaLit)
	p.registerPrefix(token.MINUS, p.parsePrefixUnary)
	p.registerPrefix(token.BANG, p.parsePrefixUnary)
	p.registerPrefix(token.TILDE, p.parsePrefixUnary)
	p.registerPrefix(token.AMP, p.parsePrefixUnary)
	p.registerPrefix(token.STAR, p.parsePrefixUnary)
	p.registerPrefix(token.INC, p.parsePrefixIncDec)
	p.registerPrefix(token.DEC, p.parsePrefixIncDec)
	p.registerPrefix(token.KW_IF, p.parseIfExpr)
	p.registerPrefix(token.KW_SIZEOF, p.parseSizeofAlignof)
	p.registerPrefix(token.KW_ALIGNOF, p.parseSizeofAlignof)
	p.registerPrefix(token.KW_LEN, p.parseLenExpr)
	p.registerPrefix(token.KW_ASM, p.parseAsmExpr)

	p.registerInfix(token.PLUS, p.parseBinary)
	p.registerInfix(token.MINUS, p.parseBinary)
	p.registerInfix(token.STAR, p.parseBinary)
	p.registerInfix(token.SLASH, p.parseBinary)
	p.registerInfix(token.PERCENT, p.parseBinary)
	p.registerInfix(token.AMP, p.parseBinary)
	p.registerInfix(token.PIPE, p.parseBinary)
	p.registerInfix(token.CARET, p.parseBinary)
	p.registerInfix(token.SHL, p.parseBinary)
	p.registerInfix(token.SHR, p.parseBinary)
	p.registerInfix(token.ANDAND, p.parseBinary)
	p.registerInfix(token.OROR, p.parseBinary)
	p.registerInfix(token.EQ, p.parseComparison)
	p.registerInfix(token.NEQ, p.parseComparison)
	p.registerInfix(token.LT, p.parseComparison)
	p.registerInfix(token.GT, p.parseComparison)
	p.registerInfix(token.LE, p.parseComparison)
	p.registerInfix(token.GE, p.parseComparison)
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.INC, p.parsePostfixIncDec)
	p.registerInfix(token.DEC, p.parsePostfixIncDec)
	p.registerInfix(token.POWER2, p.parsePower)
	p.registerInfix(token.POWER3, p.parsePower)
	p.registerInfix(token.LPAREN, p.parseCallInfix)
	p.registerInfix(token.LBRACKET, p.parseIndexInfix)
	p.registerInfix(token.DOT, p.parseMemberInfix)
	p.registerInfix(token.BACKTICK, p.parseInfixCall)
	p.registerInfix(token.PIPE_GT, p.parsePipeInfix)
	p.registerInfix(token.COLON, p.parseCastInfix)
}

// parseExpr is spec.md §4.1.2's parse_expr(min_prec, end_tok):
//  1. run the current token's prefix function
//  2. while the next token isn't end_tok and its precedence strictly
//     exceeds min_prec, consume it via its infix function
//  3. return the built node
func (p *Parser) parseExpr(minPrec precedence) (*Node, error) {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		return nil, p.errf(ErrSyntax, p.cur, "unexpected token %s in expression", p.cur)
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind != token.EOF && p.peekOperatorPrecedenceOf(p.cur.Kind) > minPrec {
		infix, ok := p.infixFns[p.cur.Kind]
		if !ok {
			break
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

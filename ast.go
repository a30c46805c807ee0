package cspc

import "github.com/hexaredecimal/CSpydr/token"

// NodeKind enumerates every AST node variant from spec.md §3/§4.
type NodeKind int

const (
	NIntLit NodeKind = iota
	NFloatLit
	NBoolLit
	NCharLit
	NStringLit
	NNilLit
	NIdent
	NPlaceholder // `$`, valid only inside a pipe right-side

	NBinary
	NUnary
	NIncDec
	NAssign
	NCast
	NExplicitCast
	NCall
	NInfixCall
	NMember
	NIndex
	NLen
	NSizeof
	NAlignof
	NAddrOf
	NDeref
	NClosureGroup // wraps `x*x` / `x*x*x` power lowering to preserve eval order

	NLambdaLit
	NTypePredicate // __is_int/__is_float/... compile-time predicate
	NIfExpr        // `if c => a else b`
	NStructLit
	NArrayLit
	NTupleTypeExpr // `{T1, T2, ...}` parsed in expression/type position

	NBlock
	NReturn
	NIf
	NLoop
	NWhile
	NFor
	NForRange
	NMatch
	NMatchCase
	NWith
	NLetLocal
	NConstLocal
	NBreak
	NContinue
	NNoop
	NExprStmt
	NAsm

	NTypedef
	NFnDecl
	NFnArg
	NGlobalDecl
	NExternBlock
	NNamespace
	NEnumDecl
	NDirective
)

// Node is the closed-sum AST node from spec.md §3: one tagged struct
// carrying kind, token, inferred data type, and kind-specific slots
// (Left/Right/Condition/IfBranch/ElseBranch/Body/Args/Stmts/Locals/
// Cases/literal value), per §9's "tagged structs with a kind field ...
// lifted to an outer record wrapping the variant" guidance. Go has no
// native sum type, so this single struct (rather than N separate Go
// types behind an interface, which is what the teacher's grammar AST
// does) is the closest fit to spec.md's own data model — it is also
// what makes the dispatch-table Visitor in visitor.go possible,
// matching spec.md §4.2 literally.
type Node struct {
	Kind     NodeKind
	Token    token.Token
	DataType *Type

	IsConstant     bool
	IsAssigning    bool
	IsInitializing bool

	// Shared structural slots (spec.md §3's "kind-specific slots").
	Left       *Node
	Right      *Node
	Condition  *Node
	IfBranch   *Node
	ElseBranch *Node
	Body       *Node
	Args       []*Node
	Stmts      []*Node
	Locals     *ObjList
	Cases      []*Node

	// Literal value union.
	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string

	Ident *Identifier

	// Call / member / index extras.
	Callee    *Object // resolved function/lambda object, once known
	FieldName string
	Operator  token.Kind // for NBinary/NUnary/NIncDec/NAssign compound ops

	// NFor
	ForInit *Node
	ForCond *Node
	ForStep *Node

	// NForRange
	RangeLow  *Node
	RangeHigh *Node
	RangeVar  *Object

	// NMatch / NMatchCase
	MatchType *Type // non-nil for `match (type) { ... }`
	CaseType  *Type // NMatchCase: nil means `_ =>` default

	// NWith
	WithVar *Object

	// NTypedef / NFnDecl / NGlobalDecl / NNamespace / NExternBlock
	DeclObj *Object

	// NTypePredicate
	PredicateName string
	PredicateArg  *Type

	// NAsm
	AsmTemplate string
	AsmArgs     []*Node

	// Pipe-hole flag. The parser does not set it: whether `$` is legal
	// is tracked by Parser.pipeHoleDepth while a pipe's right-hand side
	// is parsed (spec.md §4.1.2, §8 boundary case).
	InPipeHole bool

	// NLambdaLit: the hoisted program-scope function this literal
	// was rewritten into (spec.md §3 invariant).
	HoistedFn *Object
}

func newNode(kind NodeKind, tok token.Token) *Node {
	return &Node{Kind: kind, Token: tok}
}

// IsExecutableExpr reports whether an expression is allowed as a
// standalone statement (spec.md §4.1.4): call, assign, inc/dec, cast,
// member, asm, or a closure/pipe/if-expr whose final value is
// executable.
func (n *Node) IsExecutableExpr() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case NCall, NInfixCall, NAssign, NIncDec, NExplicitCast, NMember, NAsm:
		return true
	case NClosureGroup:
		return n.Body.IsExecutableExpr()
	case NIfExpr:
		return n.IfBranch.IsExecutableExpr() && n.ElseBranch.IsExecutableExpr()
	case NBinary:
		return n.Operator == token.PIPE_GT && n.Right.IsExecutableExpr()
	default:
		return false
	}
}

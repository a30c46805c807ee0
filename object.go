package cspc

import (
	"strconv"

	"github.com/hexaredecimal/CSpydr/token"
)

// ObjectKind enumerates the declaration kinds from spec.md §3.
type ObjectKind int

const (
	ObjFunction ObjectKind = iota
	ObjFunctionArg
	ObjLocal
	ObjGlobal
	ObjTypedef
	ObjEnumMember
	ObjNamespace
)

// Object is a declaration: function, function-argument, local
// variable, global, typedef, enum-member, or namespace (spec.md §3).
type Object struct {
	Kind  ObjectKind
	Ident *Identifier
	Type  *Type
	Token token.Token

	Body  *Node // function body block, or nil
	Value *Node // initializer expression, or nil

	IsExtern      bool
	IsConstant    bool
	NoReturn      bool
	IgnoreUnused  bool
	Generated     bool // synthesized by the compiler (tuple typedefs, lambdas)

	// ObjFunction / ObjNamespace
	Args    *ObjList
	Locals  *ObjList // nested declarations, for namespaces
}

func NewObject(kind ObjectKind, id *Identifier, tok token.Token) *Object {
	return &Object{Kind: kind, Ident: id, Token: tok}
}

// MainFunctionKind inspects a `main` function's argument list and
// reports which of the four `_start` stub variants it needs
// (spec.md §3 Program.main_function_kind, Glossary).
func MainFunctionKind(fn *Object) MainFunctionKind {
	if fn == nil || fn.Args == nil || fn.Args.Len() == 0 {
		return MainNoArgs
	}
	args := fn.Args.Items()
	switch len(args) {
	case 1:
		return MainArgvPtr
	case 2:
		return MainArgcArgvPtr
	default:
		return MainArgsArray
	}
}

// Program is the compilation root (spec.md §3): the root object list
// plus imports, linker flags, per-type exit functions, and the main
// function kind discriminator.
type Program struct {
	Objects *ObjList
	Imports []string

	Global *Global
	Arena  *Arena

	MainFn         *Object
	MainKind       MainFunctionKind

	// TupleCache deduplicates anonymous tuple types by structural
	// equality (spec.md §4.1.3, §8 property 3).
	Tuples *TupleCache

	lambdaCounter int
	loopCounter   int
}

func NewProgram(global *Global, arena *Arena) *Program {
	p := &Program{
		Objects: NewObjList(),
		Global:  global,
		Arena:   arena,
		Tuples:  newTupleCache(),
	}
	arena.RegisterList(p.Objects)
	arena.RegisterMap(p.Tuples)
	return p
}

func (p *Program) AddObject(o *Object) {
	p.Objects.Append(o)
	if o.Kind == ObjFunction && o.Ident != nil && o.Ident.Name == "main" && o.Ident.Outer == nil {
		p.MainFn = o
		p.MainKind = MainFunctionKind(o)
	}
}

// nextLambdaName returns the next `__csp_lambda_lit_<N>__` callee name
// (spec.md §3 invariant, §8 property 4).
func (p *Program) nextLambdaName() string {
	name := mangledPrefix + "lambda_lit_" + strconv.Itoa(p.lambdaCounter) + "__"
	p.lambdaCounter++
	return name
}

func (p *Program) nextLoopScratch() string {
	name := mangledPrefix + "range_" + strconv.Itoa(p.loopCounter)
	p.loopCounter++
	return name
}

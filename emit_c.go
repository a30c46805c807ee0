package cspc

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hexaredecimal/CSpydr/token"
)

// CEmitter lowers a type-checked Program into a single C translation
// unit (spec.md §4.4). Grounded on the teacher's gen.go/genc.go
// pairing (an outputWriter plus one emit* method per AST shape,
// walked top to bottom) but targeting the Source Language's C lowering
// rules instead of langlang's PEG-table C backend.
type CEmitter struct {
	program *Program
	sink    *ErrorSink
	w       *outputWriter
}

func NewCEmitter(program *Program, sink *ErrorSink) *CEmitter {
	return &CEmitter{program: program, sink: sink, w: newOutputWriter("    ")}
}

const cHeader = `#include <stdarg.h>

#define _true 1
#define _false 0

static inline unsigned long _inline_strlen(const char* s) {
    unsigned long __len = 0;
    while (s[__len]) __len++;
    return __len;
}
`

// Emit runs the full seven-step lowering from spec.md §4.4 and returns
// the generated C source.
func (e *CEmitter) Emit() (string, error) {
	e.w.writel(cHeader)

	mark := e.w.lines()
	if err := e.emitTypedefs(); err != nil {
		return "", err
	}
	mark = e.separate(mark)

	e.emitGlobals()
	mark = e.separate(mark)

	e.emitPrototypes()
	mark = e.separate(mark)

	if err := e.emitFunctionBodies(); err != nil {
		return "", err
	}
	e.separate(mark)

	e.w.writel(e.startStub())

	return e.w.buffer.String(), nil
}

// separate inserts a blank line after a lowering pass that actually
// wrote something since mark, so an empty program (no typedefs, no
// globals, ...) never picks up stray blank lines between sections. It
// returns the writer's current line count, ready to be passed as the
// mark for the next pass.
func (e *CEmitter) separate(mark int) int {
	if e.w.lines() > mark {
		e.w.writel("")
	}
	return e.w.lines()
}

// emitTypedefs emits every ObjTypedef's underlying C type. Source's
// typedef/struct-body split (spec.md §4.4 steps 2-3, needed in the
// original compiler to predeclare mutually-referential structs before
// re-emitting bodies) collapses to one step here: cBaseType already
// inlines struct bodies textually, so there is no separate forward
// declaration to thread through.
func (e *CEmitter) emitTypedefs() error {
	for _, o := range e.program.Objects.Items() {
		if o.Kind != ObjTypedef || o.IsExtern {
			continue
		}
		e.w.writeil(fmt.Sprintf("typedef %s;", e.cDecl(o.Type, Mangle(o.Ident))))
	}
	return nil
}

// emitGlobals emits every ObjGlobal and, per spec.md §4.4 step 4, every
// enum member as a plain `int` global (spec.md §9's explicit
// "leaks identifiers, kept verbatim" open question). An extern global
// gets an `extern` declaration referring to storage defined elsewhere,
// never a definition with an initializer (SPEC_FULL.md's extern-block
// note, mirrored from emitFunctionBodies' o.IsExtern skip).
func (e *CEmitter) emitGlobals() {
	for _, o := range e.program.Objects.Items() {
		switch o.Kind {
		case ObjGlobal:
			qualifier := ""
			if o.IsConstant {
				qualifier = "const "
			}
			if o.IsExtern {
				e.w.writeil(fmt.Sprintf("extern %s%s;", qualifier, e.cDecl(o.Type, Mangle(o.Ident))))
				continue
			}
			decl := fmt.Sprintf("%s%s", qualifier, e.cDecl(o.Type, Mangle(o.Ident)))
			if o.Value != nil {
				e.w.writeil(fmt.Sprintf("%s = %s;", decl, e.emitExpr(o.Value)))
			} else {
				e.w.writeil(decl + ";")
			}
		case ObjEnumMember:
			val := "0"
			if o.Value != nil {
				val = e.emitExpr(o.Value)
			}
			e.w.writeil(fmt.Sprintf("int %s = %s;", Mangle(o.Ident), val))
		}
	}
}

func (e *CEmitter) emitPrototypes() {
	for _, o := range e.program.Objects.Items() {
		if o.Kind != ObjFunction {
			continue
		}
		e.w.writeil(e.fnSignature(o) + ";")
	}
}

func (e *CEmitter) emitFunctionBodies() error {
	for _, o := range e.program.Objects.Items() {
		if o.Kind != ObjFunction || o.Body == nil || o.IsExtern {
			continue
		}
		e.w.writeil(e.fnSignature(o) + " {")
		e.w.indent()
		for _, stmt := range o.Body.Stmts {
			if err := e.emitStmt(stmt); err != nil {
				return err
			}
		}
		e.w.unindent()
		e.w.writeil("}")
	}
	return nil
}

func (e *CEmitter) fnSignature(fn *Object) string {
	args := make([]string, 0, fn.Args.Len())
	for _, a := range fn.Args.Items() {
		args = append(args, e.cDecl(a.Type, Mangle(a.Ident)))
	}
	if fn.Type.IsVariadic {
		args = append(args, "...")
	}
	if len(args) == 0 {
		args = append(args, "void")
	}
	return fmt.Sprintf("%s %s(%s)", e.cBaseType(fn.Type.Base), Mangle(fn.Ident), strings.Join(args, ", "))
}

// ---- type lowering (spec.md §4.4.2) ----

func (e *CEmitter) cBaseType(t *Type) string {
	base := e.cBaseTypeRaw(t)
	if t != nil && t.IsConstant {
		return "const " + base
	}
	return base
}

func (e *CEmitter) cBaseTypeRaw(t *Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "_Bool"
	case TypeChar:
		return "char"
	case TypeI8:
		return "signed char"
	case TypeI16:
		return "signed short"
	case TypeI32:
		return "signed int"
	case TypeI64:
		return "signed long"
	case TypeU8:
		return "unsigned char"
	case TypeU16:
		return "unsigned short"
	case TypeU32:
		return "unsigned int"
	case TypeU64:
		return "unsigned long"
	case TypeF32:
		return "float"
	case TypeF64:
		return "double"
	case TypeF80:
		return "long double"
	case TypeFn:
		return "void*"
	case TypePointer:
		return e.cBaseType(t.Base) + "*"
	case TypeCArray:
		return e.cBaseType(t.Base)
	case TypeSizedArray:
		return fmt.Sprintf("struct { unsigned long __s; %s __v[%d]; }", e.cBaseType(t.Base), t.NumIndices)
	case TypeVLA:
		return fmt.Sprintf("struct { unsigned long __s; %s __v[]; }*", e.cBaseType(t.Base))
	case TypeFunction:
		return e.cBaseType(t.Base)
	case TypeStruct:
		return e.cInlineStruct(t)
	case TypeEnum:
		return "int"
	case TypeNamedRef:
		if t.ReferencedObj != nil {
			return Mangle(t.ReferencedObj.Ident)
		}
		if t.RefIdent != nil {
			return Mangle(t.RefIdent)
		}
		return "void"
	case TypeTypeof:
		return "void"
	default:
		return "void"
	}
}

func (e *CEmitter) cInlineStruct(t *Type) string {
	kw := "struct"
	if t.IsUnion {
		kw = "union"
	}
	var b strings.Builder
	b.WriteString(kw + " { ")
	for _, m := range t.Members {
		b.WriteString(e.cDecl(m.Type, m.Ident.Name))
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

// cDecl builds a full C declarator: the spelling needed when a type
// must bind to a name (locals, globals, struct members, fn args,
// typedefs) rather than stand alone, per spec.md §4.4.2's distinction
// between "name-bound" array/function forms and plain type-position
// forms.
func (e *CEmitter) cDecl(t *Type, name string) string {
	if t == nil {
		return "void " + name
	}
	switch t.Kind {
	case TypeCArray:
		return fmt.Sprintf("%s %s[%d]", e.cBaseType(t.Base), name, t.NumIndices)
	case TypeFunction:
		args := make([]string, len(t.ArgTypes))
		for i, a := range t.ArgTypes {
			args[i] = e.cBaseType(a)
		}
		if len(args) == 0 {
			args = append(args, "void")
		}
		return fmt.Sprintf("%s (*%s)(%s)", e.cBaseType(t.Base), name, strings.Join(args, ", "))
	default:
		return e.cBaseType(t) + " " + name
	}
}

// ---- statements (spec.md §4.4.4) ----

func (e *CEmitter) emitStmt(n *Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NBlock:
		e.w.writeil("{")
		e.w.indent()
		for _, s := range n.Stmts {
			if err := e.emitStmt(s); err != nil {
				return err
			}
		}
		e.w.unindent()
		e.w.writeil("}")

	case NReturn:
		if n.Left != nil {
			e.w.writeil(fmt.Sprintf("return %s;", e.emitExpr(n.Left)))
		} else {
			e.w.writeil("return;")
		}

	case NIf:
		e.w.writeil(fmt.Sprintf("if (%s)", e.emitExpr(n.Condition)))
		if err := e.emitStmt(n.IfBranch); err != nil {
			return err
		}
		if n.ElseBranch != nil {
			e.w.writeil("else")
			if err := e.emitStmt(n.ElseBranch); err != nil {
				return err
			}
		}

	case NLoop:
		e.w.writeil("while (1)")
		return e.emitStmt(n.Body)

	case NWhile:
		e.w.writeil(fmt.Sprintf("while (%s)", e.emitExpr(n.Condition)))
		return e.emitStmt(n.Body)

	case NFor:
		init, cond, step := "", "", ""
		if n.ForInit != nil {
			init = e.emitForClause(n.ForInit)
		}
		if n.ForCond != nil {
			cond = e.emitExpr(n.ForCond)
		}
		if n.ForStep != nil {
			step = e.emitExpr(n.ForStep)
		}
		e.w.writeil(fmt.Sprintf("for (%s; %s; %s)", init, cond, step))
		return e.emitStmt(n.Body)

	case NMatch:
		return e.emitMatch(n)

	case NWith:
		e.w.writeil("{")
		e.w.indent()
		e.w.writeil(fmt.Sprintf("%s = %s;", e.cDecl(n.WithVar.Type, Mangle(n.WithVar.Ident)), e.emitExpr(n.Left)))
		e.w.writeil(fmt.Sprintf("if (%s)", Mangle(n.WithVar.Ident)))
		if err := e.emitStmt(n.Body); err != nil {
			return err
		}
		if n.ElseBranch != nil {
			e.w.writeil("else")
			if err := e.emitStmt(n.ElseBranch); err != nil {
				return err
			}
		}
		e.w.unindent()
		e.w.writeil("}")

	case NLetLocal, NConstLocal:
		e.emitLocalDecl(n)

	case NBreak:
		e.w.writeil("break;")
	case NContinue:
		e.w.writeil("continue;")
	case NNoop:
		e.w.writeil(";")
	case NExprStmt:
		e.w.writeil(e.emitExpr(n.Left) + ";")
	case NAsm:
		e.w.writeil(e.emitAsm(n) + ";")
	default:
		return e.sink.Error(ErrCodegen, n.Token, "internal: unhandled statement kind in emitter")
	}
	return nil
}

func (e *CEmitter) emitForClause(n *Node) string {
	switch n.Kind {
	case NLetLocal, NConstLocal:
		qualifier := ""
		if n.DeclObj.IsConstant {
			qualifier = "const "
		}
		decl := qualifier + e.cDecl(n.DeclObj.Type, Mangle(n.DeclObj.Ident))
		if n.Left != nil {
			return decl + " = " + e.emitExpr(n.Left)
		}
		return decl
	case NExprStmt:
		return e.emitExpr(n.Left)
	default:
		return e.emitExpr(n)
	}
}

// emitLocalDecl emits a block-local `let`/`const`, zero-initialising
// when the source omitted a value, by type class (spec.md §4.4.4).
func (e *CEmitter) emitLocalDecl(n *Node) {
	obj := n.DeclObj
	qualifier := ""
	if obj.IsConstant {
		qualifier = "const "
	}
	decl := qualifier + e.cDecl(obj.Type, Mangle(obj.Ident))
	if n.Left != nil {
		e.w.writeil(fmt.Sprintf("%s = %s;", decl, e.emitExpr(n.Left)))
		return
	}
	e.w.writeil(fmt.Sprintf("%s = %s;", decl, e.zeroValue(obj.Type)))
}

func (e *CEmitter) zeroValue(t *Type) string {
	if t == nil {
		return "0"
	}
	rt := t.resolve()
	switch {
	case rt.Kind.IsFloat():
		return "0.0"
	case rt.Kind == TypePointer, rt.Kind == TypeVLA:
		return "((void*)0)"
	case rt.Kind == TypeStruct, rt.Kind == TypeSizedArray, rt.Kind == TypeCArray:
		return "{0}"
	default:
		return "0"
	}
}

// emitMatch lowers `match` to a scratch variable plus an if/else-if
// chain, `_ =>` becoming the trailing else (spec.md §4.4.4).
func (e *CEmitter) emitMatch(n *Node) error {
	scratch := e.program.nextLoopScratch() + "_match"
	subjType := n.Condition.DataType
	e.w.writeil("{")
	e.w.indent()
	e.w.writeil(fmt.Sprintf("%s = %s;", e.cDecl(subjType, scratch), e.emitExpr(n.Condition)))

	first := true
	var defaultCase *Node
	for _, c := range n.Cases {
		if c.CaseType == nil && c.Left == nil {
			defaultCase = c
			continue
		}
		var cond string
		if n.MatchType != nil {
			cond = fmt.Sprintf("/* type-case %s */ 1", e.cBaseType(c.CaseType))
		} else {
			cond = fmt.Sprintf("%s == %s", scratch, e.emitExpr(c.Left))
		}
		kw := "if"
		if !first {
			kw = "else if"
		}
		first = false
		e.w.writeil(fmt.Sprintf("%s (%s)", kw, cond))
		if err := e.emitStmt(c.Body); err != nil {
			return err
		}
	}
	if defaultCase != nil {
		if first {
			e.w.writeil("{")
		} else {
			e.w.writeil("else")
		}
		if err := e.emitStmt(defaultCase.Body); err != nil {
			return err
		}
		if first {
			e.w.writeil("}")
		}
	}
	e.w.unindent()
	e.w.writeil("}")
	return nil
}

// ---- expressions (spec.md §4.4.3) ----

func (e *CEmitter) emitExpr(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NIntLit:
		return strconv.FormatInt(n.IntVal, 10) + e.intLitSuffix(n.DataType)
	case NFloatLit:
		return strconv.FormatFloat(n.FloatVal, 'g', -1, 64)
	case NBoolLit:
		if n.BoolVal {
			return "_true"
		}
		return "_false"
	case NCharLit:
		return "'" + n.StringVal + "'"
	case NStringLit:
		return "\"" + n.StringVal + "\""
	case NNilLit:
		return "((void*)0)"

	case NIdent:
		if n.Callee != nil {
			return Mangle(n.Callee.Ident)
		}
		return Mangle(n.Ident)

	case NPlaceholder:
		return Mangle(NewIdentifier("pipe_hole"))

	case NBinary:
		if n.Operator == token.PIPE_GT {
			return e.emitPipe(n)
		}
		return fmt.Sprintf("(%s %s %s)", e.emitExpr(n.Left), n.Operator.String(), e.emitExpr(n.Right))

	case NUnary:
		return fmt.Sprintf("(%s%s)", n.Operator.String(), e.emitExpr(n.Left))

	case NIncDec:
		if n.IsAssigning {
			return fmt.Sprintf("(%s%s)", e.emitExpr(n.Left), n.Operator.String())
		}
		return fmt.Sprintf("(%s%s)", n.Operator.String(), e.emitExpr(n.Left))

	case NAssign:
		return fmt.Sprintf("(%s = %s)", e.emitExpr(n.Left), e.emitExpr(n.Right))

	case NCast, NExplicitCast:
		return fmt.Sprintf("((%s)(%s))", e.cBaseType(n.DataType), e.emitExpr(n.Left))

	case NCall:
		return e.emitCall(n)

	case NInfixCall:
		return fmt.Sprintf("%s(%s, %s)", e.emitExpr(n.Left), e.emitExpr(n.Args[0]), e.emitExpr(n.Args[1]))

	case NMember:
		sep := "."
		if base := n.Left.DataType; base != nil && base.resolve().Kind == TypePointer {
			sep = "->"
		}
		return fmt.Sprintf("(%s%s%s)", e.emitExpr(n.Left), sep, n.FieldName)

	case NIndex:
		return e.emitIndex(n)

	case NLen:
		return e.emitLen(n)

	case NSizeof:
		return strconv.Itoa(n.PredicateArg.Size)
	case NAlignof:
		return strconv.Itoa(n.PredicateArg.Align)

	case NTypePredicate:
		return e.emitTypePredicate(n)

	case NAddrOf:
		return fmt.Sprintf("(&(%s))", e.emitExpr(n.Left))
	case NDeref:
		return fmt.Sprintf("(*(%s))", e.emitExpr(n.Left))

	case NClosureGroup:
		return "(" + e.emitExpr(n.Body) + ")"

	case NLambdaLit:
		return Mangle(n.HoistedFn.Ident)

	case NIfExpr:
		return e.emitIfExpr(n)

	case NStructLit:
		return e.emitStructLit(n)

	case NArrayLit:
		return e.emitArrayLit(n)

	case NAsm:
		return e.emitAsm(n)

	default:
		return "/* unsupported expression */0"
	}
}

func (e *CEmitter) intLitSuffix(t *Type) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeI64:
		return "l"
	case TypeU64:
		return "lu"
	default:
		return ""
	}
}

func (e *CEmitter) emitCall(n *Node) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.emitExpr(a)
	}
	return fmt.Sprintf("%s(%s)", e.emitExpr(n.Left), strings.Join(args, ", "))
}

// emitPipe lowers `a |> f($)` / `a |> f()`, per spec.md §4.1.2's pipe
// semantics: a call argument that is exactly `$` is replaced by the
// left operand, or — absent such an argument — the left operand is
// prepended as the call's first argument. A `$` nested deeper inside
// an argument expression is not substituted.
func (e *CEmitter) emitPipe(n *Node) string {
	right := n.Right
	if right.Kind != NCall {
		return fmt.Sprintf("%s(%s)", e.emitExpr(right), e.emitExpr(n.Left))
	}
	hasHole := false
	args := make([]string, 0, len(right.Args)+1)
	for _, a := range right.Args {
		if a.Kind == NPlaceholder {
			args = append(args, e.emitExpr(n.Left))
			hasHole = true
		} else {
			args = append(args, e.emitExpr(a))
		}
	}
	if !hasHole {
		args = append([]string{e.emitExpr(n.Left)}, args...)
	}
	return fmt.Sprintf("%s(%s)", e.emitExpr(right.Left), strings.Join(args, ", "))
}

// emitIndex implements spec.md §4.4.3's by-kind indexing spelling.
func (e *CEmitter) emitIndex(n *Node) string {
	base := n.Left.DataType
	kind := TypePointer
	if base != nil {
		kind = base.resolve().Kind
	}
	switch kind {
	case TypeSizedArray:
		return fmt.Sprintf("(%s.__v[%s])", e.emitExpr(n.Left), e.emitExpr(n.Right))
	case TypeVLA:
		return fmt.Sprintf("(%s->__v[%s])", e.emitExpr(n.Left), e.emitExpr(n.Right))
	default:
		return fmt.Sprintf("(%s[%s])", e.emitExpr(n.Left), e.emitExpr(n.Right))
	}
}

// emitLen implements spec.md §4.4.3's by-kind `len` lowering.
func (e *CEmitter) emitLen(n *Node) string {
	t := n.Left.DataType
	if t == nil {
		return "0"
	}
	rt := t.resolve()
	switch rt.Kind {
	case TypeSizedArray:
		return fmt.Sprintf("(%s.__s)", e.emitExpr(n.Left))
	case TypeVLA:
		return fmt.Sprintf("(%s->__s)", e.emitExpr(n.Left))
	case TypeCArray:
		return strconv.Itoa(rt.NumIndices)
	case TypePointer:
		if rt.Base != nil && rt.Base.resolve().Kind == TypeChar {
			return fmt.Sprintf("_inline_strlen(%s)", e.emitExpr(n.Left))
		}
	}
	return "0"
}

func (e *CEmitter) emitTypePredicate(n *Node) string {
	t := n.PredicateArg.resolve()
	truth := func(v bool) string {
		if v {
			return "_true"
		}
		return "_false"
	}
	switch n.PredicateName {
	case "__is_int":
		return truth(t.Kind.IsInteger())
	case "__is_uint":
		return truth(t.Kind.IsUnsigned())
	case "__is_float":
		return truth(t.Kind.IsFloat())
	case "__is_pointer":
		return truth(t.Kind == TypePointer)
	case "__is_array":
		return truth(t.Kind == TypeSizedArray || t.Kind == TypeCArray || t.Kind == TypeVLA)
	case "__is_struct":
		return truth(t.Kind == TypeStruct && !t.IsUnion)
	case "__is_union":
		return truth(t.Kind == TypeStruct && t.IsUnion)
	case "__to_str":
		return "\"" + e.cBaseType(t) + "\""
	default:
		return "_false"
	}
}

// emitIfExpr lowers `if c => a else b` to a GNU statement expression,
// since plain C has no conditional-expression form that accepts
// arbitrary statements on either side.
func (e *CEmitter) emitIfExpr(n *Node) string {
	tmp := e.program.nextLoopScratch() + "_ifx"
	decl := e.cDecl(n.DataType, tmp)
	return fmt.Sprintf("({ %s; if (%s) { %s = %s; } else { %s = %s; } %s; })",
		decl, e.emitExpr(n.Condition), tmp, e.emitExpr(n.IfBranch), tmp, e.emitExpr(n.ElseBranch), tmp)
}

func (e *CEmitter) emitStructLit(n *Node) string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.emitExpr(a)
	}
	typeName := ""
	if n.Callee != nil {
		typeName = Mangle(n.Callee.Ident)
	} else if n.DataType != nil {
		typeName = e.cBaseType(n.DataType)
	}
	return fmt.Sprintf("(%s){%s}", typeName, strings.Join(args, ", "))
}

// emitArrayLit emits the `{count,{elems}}` sized-array compound
// literal from spec.md §8 scenario 4.
func (e *CEmitter) emitArrayLit(n *Node) string {
	elems := make([]string, len(n.Args))
	for i, a := range n.Args {
		elems[i] = e.emitExpr(a)
	}
	typeName := e.cBaseType(n.DataType)
	return fmt.Sprintf("(%s){%d,{%s}}", typeName, len(n.Args), strings.Join(elems, ", "))
}

// ---- inline assembly (spec.md §4.5) ----

var asmRegisterPattern = regexp.MustCompile(`%[A-Za-z][A-Za-z0-9]*`)

// asmRegisters is the fixed x86-64 register-name table spec.md §4.5
// step 1 checks every `%<letters>` sequence against.
var asmRegisters = map[string]bool{
	"rax": true, "rbx": true, "rcx": true, "rdx": true,
	"rsi": true, "rdi": true, "rbp": true, "rsp": true,
	"r8": true, "r9": true, "r10": true, "r11": true,
	"r12": true, "r13": true, "r14": true, "r15": true,
	"eax": true, "ebx": true, "ecx": true, "edx": true,
	"esi": true, "edi": true, "ebp": true, "esp": true,
	"ax": true, "bx": true, "cx": true, "dx": true,
	"si": true, "di": true, "bp": true, "sp": true,
	"al": true, "bl": true, "cl": true, "dl": true,
	"ah": true, "bh": true, "ch": true, "dh": true,
}

// emitAsm lowers an `asm` node into a GCC extended-asm statement
// following spec.md §4.5's four-step protocol: scan the template for
// `%reg` clobbers, escape `%` to `%%`, assign identifier arguments
// dense positional input slots, and emit the clobber list.
func (e *CEmitter) emitAsm(n *Node) string {
	clobberSet := map[string]bool{}
	for _, m := range asmRegisterPattern.FindAllString(n.AsmTemplate, -1) {
		name := strings.ToLower(m[1:])
		if !asmRegisters[name] {
			e.sink.Warn(ErrCodegen, n.Token, "unrecognised register %q in asm block", m)
			continue
		}
		clobberSet[name] = true
	}

	var inputs []string
	for _, arg := range n.AsmArgs {
		switch arg.Kind {
		case NIdent:
			inputs = append(inputs, fmt.Sprintf(`"r"((unsigned long)%s)`, e.emitExpr(arg)))
		default:
			inputs = append(inputs, e.emitExpr(arg))
		}
	}

	clobbers := make([]string, 0, len(clobberSet))
	for name := range clobberSet {
		clobbers = append(clobbers, fmt.Sprintf("%q", "%"+name))
	}
	sort.Strings(clobbers)

	escaped := strings.ReplaceAll(n.AsmTemplate, "%", "%%")
	if len(inputs) == 0 {
		return fmt.Sprintf(`__asm__ volatile("%s" :: :%s)`, escaped, strings.Join(clobbers, ","))
	}
	return fmt.Sprintf(`__asm__ volatile("%s" : : %s : %s)`, escaped, strings.Join(inputs, ", "), strings.Join(clobbers, ","))
}

// ---- `_start` stub (spec.md §4.4 step 7) ----

// startStub selects one of three process-entry stubs (MainArgcArgvPtr
// and MainArgsArray share one) by how `main` takes its arguments (spec.md's MainFunctionKind / Glossary), all
// ending in the fixed `movq %rax, %rdi; mov $60, %rax; syscall` exit
// sequence since the runtime never links libc's CRT.
func (e *CEmitter) startStub() string {
	switch e.program.MainKind {
	case MainArgvPtr:
		return `__asm__(
    ".global _start\n"
    "_start:\n"
    "    lea rdi, [rsp+8]\n"
    "    call __csp_main\n"
    "    movq %rax, %rdi\n"
    "    mov $60, %rax\n"
    "    syscall\n"
);
`
	case MainArgcArgvPtr, MainArgsArray:
		return `__asm__(
    ".global _start\n"
    "_start:\n"
    "    mov rdi, [rsp]\n"
    "    lea rsi, [rsp+8]\n"
    "    call __csp_main\n"
    "    movq %rax, %rdi\n"
    "    mov $60, %rax\n"
    "    syscall\n"
);
`
	default: // MainNoArgs
		return `__asm__(
    ".global _start\n"
    "_start:\n"
    "    call __csp_main\n"
    "    movq %rax, %rdi\n"
    "    mov $60, %rax\n"
    "    syscall\n"
);
`
	}
}

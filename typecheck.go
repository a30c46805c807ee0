package cspc

import (
	"fmt"

	"github.com/hexaredecimal/CSpydr/token"
)

// TypeChecker implements spec.md §4.3: it runs after parsing, resolves
// every TypeNamedRef to its referenced object, computes
// implicit-cast eligibility, rewrites the AST with explicit cast
// nodes, and validates assignments/calls/explicit-casts/array
// literals. Grounded on the funxy compiler's checker shape (a single
// walker threading an error return through recursive Check* calls)
// since the teacher (langlang) has no type system of its own.
type TypeChecker struct {
	program *Program
	sink    *ErrorSink
	scopes  []*ObjList
}

func NewTypeChecker(program *Program, sink *ErrorSink) *TypeChecker {
	return &TypeChecker{program: program, sink: sink}
}

func (c *TypeChecker) pushScope(locals *ObjList) {
	c.scopes = append(c.scopes, locals)
}

func (c *TypeChecker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *TypeChecker) lookup(id *Identifier) *Object {
	name := id.Name
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i] == nil {
			continue
		}
		if o := c.scopes[i].Find(name); o != nil {
			return o
		}
	}
	return c.program.findObject(id)
}

// findObject resolves a (possibly namespace-qualified) identifier
// against every top-level object by full chain equality (spec.md §3:
// "Identifiers compare by full chain equality").
func (p *Program) findObject(id *Identifier) *Object {
	chain := id.Chain()
	for _, o := range p.Objects.Items() {
		if o.Ident != nil && chainEqual(o.Ident.Chain(), chain) {
			return o
		}
	}
	return nil
}

func chainEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Run type-checks every function body and global initializer in the
// program, resolving named types as it goes (spec.md §4.3).
func (c *TypeChecker) Run() error {
	for _, o := range c.program.Objects.Items() {
		if o.Type != nil {
			c.resolveType(o.Type)
		}
	}

	for _, o := range c.program.Objects.Items() {
		switch o.Kind {
		case ObjGlobal:
			if o.Value != nil {
				if err := c.checkExpr(o.Value); err != nil {
					return err
				}
				if o.Type != nil && !typesEqual(o.Type, o.Value.DataType) {
					cast, err := c.coerce(o.Value, o.Type)
					if err != nil {
						return err
					}
					o.Value = cast
				} else if o.Type == nil {
					o.Type = o.Value.DataType
				}
			}
		case ObjFunction:
			if err := c.checkFunction(o); err != nil {
				return err
			}
		}
	}

	if err := c.checkEnumMembers(); err != nil {
		return err
	}
	return nil
}

// checkEnumMembers folds every enum member's value expression to a
// plain integer constant (SPEC_FULL.md's supplemented-features
// section: only integer and char literals, unary `-`, `+`, `~`, and
// binary `+`, `-`, `*`, `<<`, `>>` are permitted, matching spec.md §1's carve-out that primitive/integer
// constant folding stays in scope even though general constant
// evaluation is a Non-goal). Members with no initializer auto-increment
// from the previous member of the same enum, C-style, starting at 0.
func (c *TypeChecker) checkEnumMembers() error {
	next := map[string]int64{}
	for _, o := range c.program.Objects.Items() {
		if o.Kind != ObjEnumMember {
			continue
		}
		enumKey := o.Ident.Outer.String()
		if o.Value == nil {
			o.Value = intLitNode(o.Token, next[enumKey])
			next[enumKey] = next[enumKey] + 1
			continue
		}
		val, err := foldIntConst(o.Value)
		if err != nil {
			return c.sink.Error(ErrConstEval, o.Token, "enum member %s: %s", o.Ident, err)
		}
		o.Value = intLitNode(o.Token, val)
		next[enumKey] = val + 1
	}
	return nil
}

func intLitNode(tok token.Token, val int64) *Node {
	n := newNode(NIntLit, tok)
	n.IntVal = val
	n.DataType = TI32
	n.IsConstant = true
	return n
}

// foldIntConst evaluates an enum member's initializer expression at
// compile time. Only integer literals and the handful of arithmetic/
// shift operators spec.md §1 exempts from the general
// constant-evaluation Non-goal are supported; anything else (a call, a
// float, a name lookup) is rejected rather than silently miscompiled.
func foldIntConst(n *Node) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("missing value")
	}
	switch n.Kind {
	case NIntLit:
		return n.IntVal, nil
	case NCharLit:
		if len(n.StringVal) > 0 {
			return int64(n.StringVal[0]), nil
		}
		return 0, nil
	case NUnary:
		v, err := foldIntConst(n.Left)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case token.MINUS:
			return -v, nil
		case token.PLUS:
			return v, nil
		case token.TILDE:
			return ^v, nil
		default:
			return 0, fmt.Errorf("operator %s is not a constant integer operator", n.Operator)
		}
	case NBinary:
		l, err := foldIntConst(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := foldIntConst(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case token.PLUS:
			return l + r, nil
		case token.MINUS:
			return l - r, nil
		case token.STAR:
			return l * r, nil
		case token.SHL:
			return l << uint(r), nil
		case token.SHR:
			return l >> uint(r), nil
		default:
			return 0, fmt.Errorf("operator %s is not a constant integer operator", n.Operator)
		}
	default:
		return 0, fmt.Errorf("expression is not a constant integer")
	}
}

func (c *TypeChecker) resolveType(t *Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case TypeNamedRef:
		if t.ReferencedObj == nil && t.RefIdent != nil {
			t.ReferencedObj = c.program.findObject(t.RefIdent)
		}
	case TypePointer, TypeVLA, TypeCArray, TypeSizedArray:
		c.resolveType(t.Base)
	case TypeFunction:
		c.resolveType(t.Base)
		for _, a := range t.ArgTypes {
			c.resolveType(a)
		}
	case TypeStruct:
		for i := range t.Members {
			c.resolveType(t.Members[i].Type)
		}
	}
}

func (c *TypeChecker) checkFunction(fn *Object) error {
	if fn.Body == nil {
		return nil
	}
	c.pushScope(fn.Args)
	defer c.popScope()
	return c.checkStmt(fn.Body, fn.Type.Base)
}

// checkStmt type-checks a statement node; retType is the enclosing
// function's return type, used to validate `return` statements
// (spec.md §8: "a return without a value inside a non-void function is
// a type error").
func (c *TypeChecker) checkStmt(n *Node, retType *Type) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NBlock:
		c.pushScope(n.Locals)
		defer c.popScope()
		for _, s := range n.Stmts {
			if err := c.checkStmt(s, retType); err != nil {
				return err
			}
		}
	case NReturn:
		if n.Left == nil {
			if retType != nil && retType.Kind != TypeVoid {
				return c.sink.Error(ErrType, n.Token, "missing return value in function returning non-void type")
			}
			return nil
		}
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if retType != nil && !typesEqual(retType, n.Left.DataType) {
			cast, err := c.coerce(n.Left, retType)
			if err != nil {
				return err
			}
			n.Left = cast
		}
	case NIf:
		if err := c.checkExpr(n.Condition); err != nil {
			return err
		}
		if err := c.checkStmt(n.IfBranch, retType); err != nil {
			return err
		}
		if err := c.checkStmt(n.ElseBranch, retType); err != nil {
			return err
		}
	case NLoop:
		if err := c.checkStmt(n.Body, retType); err != nil {
			return err
		}
	case NWhile:
		if err := c.checkExpr(n.Condition); err != nil {
			return err
		}
		if err := c.checkStmt(n.Body, retType); err != nil {
			return err
		}
	case NFor:
		c.pushScope(n.Locals)
		defer c.popScope()
		if n.ForInit != nil {
			if err := c.checkStmt(n.ForInit, retType); err != nil {
				return err
			}
		}
		if n.ForCond != nil {
			if err := c.checkExpr(n.ForCond); err != nil {
				return err
			}
		}
		if n.ForStep != nil {
			if err := c.checkExpr(n.ForStep); err != nil {
				return err
			}
		}
		if err := c.checkStmt(n.Body, retType); err != nil {
			return err
		}
	case NMatch:
		if err := c.checkExpr(n.Condition); err != nil {
			return err
		}
		for _, cs := range n.Cases {
			if cs.Left != nil {
				if err := c.checkExpr(cs.Left); err != nil {
					return err
				}
			}
			if err := c.checkStmt(cs.Body, retType); err != nil {
				return err
			}
		}
	case NWith:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if n.WithVar.Type == nil {
			n.WithVar.Type = n.Left.DataType
		} else {
			c.resolveType(n.WithVar.Type)
		}
		if err := c.checkStmt(n.Body, retType); err != nil {
			return err
		}
		if err := c.checkStmt(n.ElseBranch, retType); err != nil {
			return err
		}
	case NLetLocal, NConstLocal:
		if n.DeclObj.Type != nil {
			c.resolveType(n.DeclObj.Type)
		}
		if n.Left != nil {
			if err := c.checkExpr(n.Left); err != nil {
				return err
			}
			if n.DeclObj.Type == nil {
				n.DeclObj.Type = n.Left.DataType
			} else if !typesEqual(n.DeclObj.Type, n.Left.DataType) {
				cast, err := c.coerce(n.Left, n.DeclObj.Type)
				if err != nil {
					return err
				}
				n.Left = cast
				n.DeclObj.Value = cast
			}
		}
	case NExprStmt:
		return c.checkExpr(n.Left)
	case NBreak, NContinue, NNoop:
		// no sub-expressions
	default:
		return c.checkExpr(n)
	}
	return nil
}

// checkExpr type-checks expr and annotates n.DataType in place
// (spec.md §3 invariant: "every expression node has a non-null
// data_type after type checking").
func (c *TypeChecker) checkExpr(n *Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NIntLit, NFloatLit, NBoolLit, NCharLit, NStringLit, NNilLit:
		// already typed by the parser (spec.md §8 boundary sizing rules)

	case NIdent:
		obj := c.lookup(n.Ident)
		if obj == nil {
			return c.sink.Error(ErrUndefined, n.Token, "undefined identifier %q", n.Ident.String())
		}
		n.Callee = obj
		n.DataType = obj.Type

	case NPlaceholder:
		// left untyped: the pipe's C emission substitutes the left
		// operand for a placeholder that is a direct call argument, and
		// the NCall case below skips coercion for such arguments.

	case NBinary:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if err := c.checkExpr(n.Right); err != nil {
			return err
		}
		switch n.Operator {
		case token.EQ, token.NEQ, token.LT, token.GT, token.LE, token.GE, token.ANDAND, token.OROR:
			n.DataType = TBool
		default:
			if n.DataType == nil {
				n.DataType = widerOf(n.Left.DataType, n.Right.DataType)
			}
		}

	case NUnary:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if n.Operator == token.BANG {
			n.DataType = TBool
		} else {
			n.DataType = n.Left.DataType
		}

	case NIncDec:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		n.DataType = n.Left.DataType

	case NAssign:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if n.Left.Kind == NIdent && n.Left.Callee != nil && n.Left.Callee.IsConstant {
			return c.sink.Error(ErrType, n.Token, "cannot assign to constant %q", n.Left.Callee.Ident.String())
		}
		if err := c.checkExpr(n.Right); err != nil {
			return err
		}
		if !typesEqual(n.Left.DataType, n.Right.DataType) {
			cast, err := c.coerce(n.Right, n.Left.DataType)
			if err != nil {
				return err
			}
			n.Right = cast
		}
		n.DataType = n.Left.DataType

	case NCast, NExplicitCast:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		c.resolveType(n.DataType)
		if n.DataType != nil && typesEqual(n.DataType, n.Left.DataType) {
			c.sink.Warn(ErrTypeCastWarning, n.Token, "identity cast to the same type")
		}
		if (n.DataType != nil && n.DataType.Kind == TypeVoid) != (n.Left.DataType != nil && n.Left.DataType.Kind == TypeVoid) {
			return c.sink.Error(ErrType, n.Token, "cannot cast between void and a non-void type")
		}

	case NCall:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		fnType := n.Left.DataType
		if n.Left.Kind == NIdent && n.Left.Callee != nil {
			fnType = n.Left.Callee.Type
		}
		for i, arg := range n.Args {
			if err := c.checkExpr(arg); err != nil {
				return err
			}
			if arg.Kind == NPlaceholder {
				continue
			}
			if fnType != nil && i < len(fnType.ArgTypes) && !typesEqual(fnType.ArgTypes[i], arg.DataType) {
				cast, err := c.coerce(arg, fnType.ArgTypes[i])
				if err != nil {
					return err
				}
				n.Args[i] = cast
			}
		}
		if fnType != nil {
			n.DataType = fnType.Base
		}

	case NInfixCall:
		for _, a := range n.Args {
			if err := c.checkExpr(a); err != nil {
				return err
			}
		}
		if fn := c.lookup(n.Left.Ident); fn != nil {
			n.Left.Callee = fn
			n.Left.DataType = fn.Type
			if fn.Type != nil {
				n.DataType = fn.Type.Base
			}
		}

	case NMember:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		base := n.Left.DataType.resolve()
		if base != nil && base.Kind == TypePointer {
			base = base.Base.resolve()
		}
		if base != nil {
			for _, m := range base.Members {
				if m.Ident.Name == n.FieldName {
					n.DataType = m.Type
					break
				}
			}
		}

	case NIndex:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if err := c.checkExpr(n.Right); err != nil {
			return err
		}
		base := n.Left.DataType.resolve()
		if base != nil {
			n.DataType = base.Base
		}

	case NLen:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		n.DataType = TU64

	case NSizeof, NAlignof:
		c.resolveType(n.PredicateArg)
		n.DataType = TU64

	case NTypePredicate:
		c.resolveType(n.PredicateArg)
		n.DataType = TBool

	case NAddrOf:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		n.DataType = PointerTo(n.Left.DataType)

	case NDeref:
		if err := c.checkExpr(n.Left); err != nil {
			return err
		}
		if n.Left.DataType != nil {
			n.DataType = n.Left.DataType.Base
		}

	case NClosureGroup:
		if err := c.checkExpr(n.Body); err != nil {
			return err
		}
		n.DataType = n.Body.DataType

	case NLambdaLit:
		// already fully typed by the parser; its hoisted function body
		// is checked separately via the ObjFunction pass in Run().

	case NIfExpr:
		if err := c.checkExpr(n.Condition); err != nil {
			return err
		}
		if err := c.checkExpr(n.IfBranch); err != nil {
			return err
		}
		if err := c.checkExpr(n.ElseBranch); err != nil {
			return err
		}
		n.DataType = n.IfBranch.DataType

	case NStructLit:
		for _, a := range n.Args {
			if err := c.checkExpr(a); err != nil {
				return err
			}
		}
		if n.Ident != nil {
			obj := c.lookup(n.Ident)
			if obj == nil {
				return c.sink.Error(ErrUndefined, n.Token, "undefined type %q in struct literal", n.Ident)
			}
			n.Callee = obj
			n.DataType = obj.Type
		}

	case NArrayLit:
		var elemType *Type
		for i, a := range n.Args {
			if err := c.checkExpr(a); err != nil {
				return err
			}
			if i == 0 {
				elemType = a.DataType
			}
		}
		if n.DataType == nil && elemType != nil {
			n.DataType = SizedArrayOf(elemType, len(n.Args))
		}
		target := n.DataType
		if target != nil && target.Base != nil {
			for i, a := range n.Args {
				if !typesEqual(target.Base, a.DataType) {
					cast, err := c.coerce(a, target.Base)
					if err != nil {
						return err
					}
					n.Args[i] = cast
				}
			}
		}

	case NAsm:
		for _, a := range n.AsmArgs {
			if err := c.checkExpr(a); err != nil {
				return err
			}
		}

	default:
		return c.sink.Error(ErrType, n.Token, "internal: unhandled expression kind in type checker")
	}
	return nil
}

// coerce implements implicitly_castable + implicit_cast from spec.md
// §4.3: builds the appropriate cast (or address-of, for
// sized-array→VLA) node, or fails with ErrTypeUncorrectable.
func (c *TypeChecker) coerce(expr *Node, to *Type) (*Node, error) {
	from := expr.DataType
	if !implicitlyCastable(from, to) {
		return nil, c.sink.Error(ErrTypeUncorrectable, expr.Token, "cannot implicitly convert to target type")
	}
	if from != nil && from.Kind == TypeSizedArray && to != nil && to.Kind == TypeVLA {
		addr := newNode(NAddrOf, expr.Token)
		addr.Left = expr
		addr.DataType = to
		return addr, nil
	}
	// float→int narrows and warns; int→int/float→float/int→float are
	// silent (spec.md §4.3).
	if from != nil && to != nil && from.Kind.IsFloat() && to.Kind.IsInteger() {
		c.sink.Warn(ErrTypeCastWarning, expr.Token, "implicit float-to-integer conversion")
	}
	cast := newNode(NCast, expr.Token)
	cast.Left = expr
	cast.DataType = to
	return cast, nil
}

// implicitlyCastable implements spec.md §4.3's rule table, peeling
// named references on both sides first.
func implicitlyCastable(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	from, to = from.resolve(), to.resolve()
	if typesEqual(from, to) {
		return true
	}
	switch {
	case from.Kind.IsInteger() && to.Kind.IsInteger():
		return true
	case from.Kind.IsFloat() && to.Kind.IsFloat():
		return true
	case from.Kind.IsInteger() && to.Kind.IsFloat():
		return true
	case from.Kind.IsFloat() && to.Kind.IsInteger():
		return true
	case (from.Kind == TypePointer || from.Kind == TypeCArray) && to.Kind == TypePointer:
		return true
	case from.Kind == TypeSizedArray && to.Kind == TypeVLA:
		return true
	case from.Kind == TypePointer && from.Base != nil && from.Base.resolve().Kind == TypeSizedArray && to.Kind == TypeVLA:
		return typesEqual(from.Base.resolve().Base, to.Base)
	default:
		return false
	}
}

// widerOf is the arithmetic-promotion helper for NBinary nodes absent
// an explicit operator result type: the wider/float-preferring of the
// two operand types, falling back to the left operand.
func widerOf(a, b *Type) *Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	ra, rb := a.resolve(), b.resolve()
	if ra.Kind.IsFloat() != rb.Kind.IsFloat() {
		if ra.Kind.IsFloat() {
			return a
		}
		return b
	}
	if ra.Size >= rb.Size {
		return a
	}
	return b
}

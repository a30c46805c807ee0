package cspc

import (
	"github.com/hexaredecimal/CSpydr/token"
)

// TypeKind enumerates every Type variant from spec.md §3. Types are a
// closed sum represented as one tagged struct (per spec.md §9's
// "tagged structs with a kind field ... or lifted to an outer record
// wrapping the variant" guidance) rather than one Go type per kind,
// because named-type resolution and tuple deduplication both need to
// compare/rewrite Types structurally and uniformly regardless of
// variant.
type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeBool
	TypeChar
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeF32
	TypeF64
	TypeF80
	TypeFn // primitive `fn` type tag, used for bare function-type values

	TypePointer
	TypeCArray      // fixed-size C array T[N]
	TypeSizedArray  // Source T[N], lowered to {len, data[]}
	TypeVLA         // variable-length array
	TypeFunction    // function type: base=return, ArgTypes, IsVariadic
	TypeStruct      // struct or union (IsUnion distinguishes)
	TypeEnum
	TypeNamedRef    // undef named reference, resolved via ReferencedObj
	TypeTypeof      // typeof(expr); IndexExpr holds the expression
	TypeTuple       // anonymous tuple tag; the parser builds tuples as a named reference to a deduped TypeStruct typedef instead
)

func (k TypeKind) IsPrimitive() bool {
	return k >= TypeVoid && k <= TypeFn
}

func (k TypeKind) IsInteger() bool {
	switch k {
	case TypeI8, TypeI16, TypeI32, TypeI64, TypeU8, TypeU16, TypeU32, TypeU64, TypeChar, TypeBool:
		return true
	}
	return false
}

func (k TypeKind) IsUnsigned() bool {
	switch k {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return true
	}
	return false
}

func (k TypeKind) IsFloat() bool {
	switch k {
	case TypeF32, TypeF64, TypeF80:
		return true
	}
	return false
}

// Member is a struct/union field or enum member. For enums, ValueExpr
// holds the (possibly constant-folded, per SPEC_FULL.md's
// enum-member-value supplement) initializer expression.
type Member struct {
	Ident     *Identifier
	Type      *Type
	ValueExpr *Node // enum members only
}

// Type is the tagged-variant node from spec.md §3.
type Type struct {
	Kind TypeKind

	IsConstant  bool
	IsPrimitive bool
	Size        int
	Align       int
	Token       token.Token
	SemanticID  int // 0 means "unset"; the tuple-dedup cache compares member types and does not read it

	// Pointer / array-ish variants
	Base       *Type
	NumIndices int   // fixed/array element count, or sizeof marker
	IndexExpr  *Node // VLA/typeof: expression standing in for NumIndices

	// Function
	ArgTypes    []*Type
	IsVariadic  bool

	// Struct/union/enum
	Members []Member
	IsUnion bool

	// Named reference
	RefIdent      *Identifier
	ReferencedObj *Object
}

func primitiveType(kind TypeKind, size, align int) *Type {
	return &Type{Kind: kind, IsPrimitive: true, Size: size, Align: align}
}

// Well-known primitive singletons. The emitter and type checker both
// compare against these by value (types_equal is structural, spec.md
// §4.3), so sharing instances is an optimization, not a correctness
// requirement.
var (
	TVoid = primitiveType(TypeVoid, 0, 0)
	TBool = primitiveType(TypeBool, 1, 1)
	TChar = primitiveType(TypeChar, 1, 1)
	TI8   = primitiveType(TypeI8, 1, 1)
	TI16  = primitiveType(TypeI16, 2, 2)
	TI32  = primitiveType(TypeI32, 4, 4)
	TI64  = primitiveType(TypeI64, 8, 8)
	TU8   = primitiveType(TypeU8, 1, 1)
	TU16  = primitiveType(TypeU16, 2, 2)
	TU32  = primitiveType(TypeU32, 4, 4)
	TU64  = primitiveType(TypeU64, 8, 8)
	TF32  = primitiveType(TypeF32, 4, 4)
	TF64  = primitiveType(TypeF64, 8, 8)
	TF80  = primitiveType(TypeF80, 16, 16)
)

func PointerTo(base *Type) *Type {
	return &Type{Kind: TypePointer, Base: base, Size: 8, Align: 8}
}

func CArrayOf(base *Type, n int) *Type {
	return &Type{Kind: TypeCArray, Base: base, NumIndices: n, Size: base.Size * n, Align: base.Align}
}

func SizedArrayOf(base *Type, n int) *Type {
	// Lowered to `{ulong __s; base __v[N]}` (spec.md §3 table); the
	// 8-byte length field plus the element array.
	return &Type{Kind: TypeSizedArray, Base: base, NumIndices: n, Size: 8 + base.Size*n, Align: 8}
}

func VLAOf(base *Type) *Type {
	return &Type{Kind: TypeVLA, Base: base, Size: 8, Align: 8}
}

func FunctionType(ret *Type, args []*Type, variadic bool) *Type {
	return &Type{Kind: TypeFunction, Base: ret, ArgTypes: args, IsVariadic: variadic, Size: 8, Align: 8}
}

func NamedRef(id *Identifier, tok token.Token) *Type {
	return &Type{Kind: TypeNamedRef, RefIdent: id, Token: tok}
}

// resolve peels a chain of named references down to the underlying
// type, following ReferencedObj's Type (spec.md §3 invariant: "every
// named type reference resolves to exactly one object before
// emission"). It does not peel Constant-qualification; callers that
// need both peel it separately (spec.md §4.3 implicit-cast rules work
// "after peeling named references").
func (t *Type) resolve() *Type {
	seen := map[*Type]bool{}
	cur := t
	for cur != nil && cur.Kind == TypeNamedRef {
		if seen[cur] {
			return cur
		}
		seen[cur] = true
		if cur.ReferencedObj == nil || cur.ReferencedObj.Type == nil {
			return cur
		}
		cur = cur.ReferencedObj.Type
	}
	return cur
}

// typesEqual implements spec.md §4.3's structural types_equal: same
// kind, same is_constant, recursing into bases and member lists
// (order and names matter for struct/union/enum), and function arg
// lists. Named references are resolved before comparison so that
// `type N: i32; let x: N; let y: i32;` reports x and y as
// equal-typed.
func typesEqual(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	a, b = a.resolve(), b.resolve()
	if a == b {
		return true
	}
	if a.Kind != b.Kind || a.IsConstant != b.IsConstant {
		return false
	}
	switch a.Kind {
	case TypePointer, TypeVLA:
		return typesEqual(a.Base, b.Base)
	case TypeCArray, TypeSizedArray:
		return a.NumIndices == b.NumIndices && typesEqual(a.Base, b.Base)
	case TypeFunction:
		if a.IsVariadic != b.IsVariadic || len(a.ArgTypes) != len(b.ArgTypes) {
			return false
		}
		if !typesEqual(a.Base, b.Base) {
			return false
		}
		for i := range a.ArgTypes {
			if !typesEqual(a.ArgTypes[i], b.ArgTypes[i]) {
				return false
			}
		}
		return true
	case TypeStruct:
		if a.IsUnion != b.IsUnion || len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Ident.Name != b.Members[i].Ident.Name {
				return false
			}
			if !typesEqual(a.Members[i].Type, b.Members[i].Type) {
				return false
			}
		}
		return true
	case TypeEnum:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if a.Members[i].Ident.Name != b.Members[i].Ident.Name {
				return false
			}
		}
		return true
	default:
		// Primitive kinds: equal kind + equal constness already checked.
		return true
	}
}

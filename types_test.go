package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypesEqualResolvesNamedReferences(t *testing.T) {
	program := parseSource(t, `
type N: i32;
let x: N;
let y: i32;
`)
	nTypedef := findObj(program, "N")
	x := findObj(program, "x")
	y := findObj(program, "y")
	x.Type.ReferencedObj = nTypedef
	assert.True(t, typesEqual(x.Type, y.Type))
}

func TestTypesEqualStructMembersOrderSensitive(t *testing.T) {
	a := &Type{Kind: TypeStruct, Members: []Member{
		{Ident: NewIdentifier("x"), Type: TI32},
		{Ident: NewIdentifier("y"), Type: TI32},
	}}
	b := &Type{Kind: TypeStruct, Members: []Member{
		{Ident: NewIdentifier("y"), Type: TI32},
		{Ident: NewIdentifier("x"), Type: TI32},
	}}
	assert.False(t, typesEqual(a, b))
}

func TestTypesEqualUnionVsStructDiffer(t *testing.T) {
	members := []Member{{Ident: NewIdentifier("v"), Type: TI32}}
	a := &Type{Kind: TypeStruct, Members: members}
	b := &Type{Kind: TypeStruct, Members: members, IsUnion: true}
	assert.False(t, typesEqual(a, b))
}

func TestSizedArrayOfComputesSize(t *testing.T) {
	arr := SizedArrayOf(TI32, 4)
	assert.Equal(t, TypeSizedArray, arr.Kind)
	assert.Equal(t, 8+4*4, arr.Size)
}

package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructType(t *testing.T) {
	program := parseSource(t, `type Point: struct { x: i32, y: i32 };`)
	obj := findObj(program, "Point")
	require.NotNil(t, obj)
	require.Equal(t, TypeStruct, obj.Type.Kind)
	assert.False(t, obj.Type.IsUnion)
	require.Len(t, obj.Type.Members, 2)
	assert.Equal(t, "x", obj.Type.Members[0].Ident.Name)
	assert.Equal(t, TI32, obj.Type.Members[0].Type)
	assert.Equal(t, "y", obj.Type.Members[1].Ident.Name)
}

func TestParseUnionType(t *testing.T) {
	program := parseSource(t, `type Word: union { asInt: i32, asFloat: f32 };`)
	obj := findObj(program, "Word")
	require.NotNil(t, obj)
	require.Equal(t, TypeStruct, obj.Type.Kind)
	assert.True(t, obj.Type.IsUnion)
	require.Len(t, obj.Type.Members, 2)
}

func TestParseEnumTypeWithAndWithoutInitializers(t *testing.T) {
	program := parseSource(t, `type Color: enum { RED, GREEN = 5, BLUE };`)
	obj := findObj(program, "Color")
	require.NotNil(t, obj)
	require.Equal(t, TypeEnum, obj.Type.Kind)
	require.Len(t, obj.Type.Members, 3)
	assert.Equal(t, "RED", obj.Type.Members[0].Ident.Name)
	assert.Nil(t, obj.Type.Members[0].ValueExpr)
	assert.Equal(t, "GREEN", obj.Type.Members[1].Ident.Name)
	require.NotNil(t, obj.Type.Members[1].ValueExpr)
	assert.Equal(t, "BLUE", obj.Type.Members[2].Ident.Name)
}

func TestParseEnumRegistersQualifiedMembers(t *testing.T) {
	program := parseSource(t, `type Color: enum { RED, GREEN = 5, BLUE };`)
	red := findObjByChain(program, "Color", "RED")
	require.NotNil(t, red)
	assert.Equal(t, ObjEnumMember, red.Kind)
}

func TestParseTupleTypeDedup(t *testing.T) {
	program := parseSource(t, `
let a: {i32, i32};
let b: {i32, i32};
`)
	av := findObj(program, "a")
	bv := findObj(program, "b")
	require.NotNil(t, av)
	require.NotNil(t, bv)
	assert.Same(t, av.Type.ReferencedObj, bv.Type.ReferencedObj)
}

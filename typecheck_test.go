package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enumMemberValue(t *testing.T, program *Program, enumName, member string) int64 {
	t.Helper()
	obj := findObjByChain(program, enumName, member)
	require.NotNil(t, obj)
	require.NotNil(t, obj.Value)
	require.Equal(t, NIntLit, obj.Value.Kind)
	return obj.Value.IntVal
}

func TestEnumMemberAutoIncrement(t *testing.T) {
	program := checkedProgram(t, `type Color: enum { RED, GREEN, BLUE };`)
	assert.EqualValues(t, 0, enumMemberValue(t, program, "Color", "RED"))
	assert.EqualValues(t, 1, enumMemberValue(t, program, "Color", "GREEN"))
	assert.EqualValues(t, 2, enumMemberValue(t, program, "Color", "BLUE"))
}

func TestEnumMemberExplicitValueResumesIncrementFromThere(t *testing.T) {
	program := checkedProgram(t, `type Color: enum { RED, GREEN = 5, BLUE };`)
	assert.EqualValues(t, 0, enumMemberValue(t, program, "Color", "RED"))
	assert.EqualValues(t, 5, enumMemberValue(t, program, "Color", "GREEN"))
	assert.EqualValues(t, 6, enumMemberValue(t, program, "Color", "BLUE"))
}

func TestEnumMemberReferencingAnotherMemberFailsToFold(t *testing.T) {
	program := parseSource(t, `type Flags: enum { READ = 1, WRITE = 2, BOTH = READ + WRITE };`)
	checker := NewTypeChecker(program, NewErrorSink(program.Global))
	// BOTH's initializer references other enum members rather than bare
	// integer literals/arithmetic, which the constant folder rejects.
	assert.Error(t, checker.Run())
}

func TestEnumMemberShiftConstantFolds(t *testing.T) {
	program := checkedProgram(t, `type Flags: enum { NONE = 0, READ = 1 << 0, WRITE = 1 << 1 };`)
	assert.EqualValues(t, 0, enumMemberValue(t, program, "Flags", "NONE"))
	assert.EqualValues(t, 1, enumMemberValue(t, program, "Flags", "READ"))
	assert.EqualValues(t, 2, enumMemberValue(t, program, "Flags", "WRITE"))
}

func TestStructLiteralResolvesNamedType(t *testing.T) {
	program := parseSource(t, `
type Point: struct { x: i32, y: i32 };
fn main(): i32 {
	let p: Point = Point::{1, 2};
	ret 0;
}
`)
	checker := NewTypeChecker(program, NewErrorSink(program.Global))
	require.NoError(t, checker.Run())
}

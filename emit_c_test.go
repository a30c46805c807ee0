package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitSource(t *testing.T, src string) string {
	t.Helper()
	program := checkedProgram(t, src)
	emitter := NewCEmitter(program, NewErrorSink(program.Global))
	out, err := emitter.Emit()
	require.NoError(t, err)
	return out
}

func TestEmitMainNoArgsIncludesStartStub(t *testing.T) {
	out := emitSource(t, `fn main(): i32 { ret 0; }`)
	assert.Contains(t, out, "__csp_main")
	assert.Contains(t, out, "_start")
	assert.Contains(t, out, "syscall")
}

func TestEmitStructTypedefInlinesMembers(t *testing.T) {
	out := emitSource(t, `
type Point: struct { x: i32, y: i32 };
fn main(): i32 { ret 0; }
`)
	assert.Contains(t, out, "typedef struct")
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
}

func TestEmitUnionTypedefUsesUnionKeyword(t *testing.T) {
	out := emitSource(t, `
type Word: union { asInt: i32, asFloat: f32 };
fn main(): i32 { ret 0; }
`)
	assert.Contains(t, out, "typedef union")
}

func TestEmitEnumMembersAsPlainIntGlobals(t *testing.T) {
	out := emitSource(t, `
type Color: enum { RED, GREEN, BLUE };
fn main(): i32 { ret 0; }
`)
	assert.Contains(t, out, "int __csp_Color_RED = 0;")
	assert.Contains(t, out, "int __csp_Color_GREEN = 1;")
	assert.Contains(t, out, "int __csp_Color_BLUE = 2;")
}

func TestEmitSizedArrayLiteral(t *testing.T) {
	out := emitSource(t, `
fn main(): i32 {
	let xs: i32[3] = [1, 2, 3];
	ret 0;
}
`)
	assert.Contains(t, out, "__s")
	assert.Contains(t, out, "__v")
}

func TestEmitTupleTypedefNameIsNotDoublePrefixed(t *testing.T) {
	out := emitSource(t, `
let a: {i32, i32};
fn main(): i32 { ret 0; }
`)
	assert.Contains(t, out, "__csp_tuple_0__")
	assert.NotContains(t, out, "__csp___csp_tuple_0__")
}

func TestEmitLambdaNameIsNotDoublePrefixed(t *testing.T) {
	out := emitSource(t, `
fn main(): i32 {
	let f = |x: i32|: i32 => ret x;
	ret 0;
}
`)
	assert.Contains(t, out, "__csp_lambda_lit_0__")
	assert.NotContains(t, out, "__csp___csp_lambda_lit_0__")
}

func TestEmitExternTypedefAndGlobalSkipBodies(t *testing.T) {
	out := emitSource(t, `
extern {
	type Foo: struct { x: i32 };
	let g: i32;
	fn bar(): i32;
}
fn main(): i32 { ret 0; }
`)
	assert.NotContains(t, out, "typedef struct")
	assert.Contains(t, out, "extern signed int __csp_g;")
	assert.Contains(t, out, "__csp_bar")
}

func TestEmitInlineAsmClobberList(t *testing.T) {
	out := emitSource(t, `
fn main(): i32 {
	asm "mov %rax, %rbx";
	ret 0;
}
`)
	assert.Contains(t, out, "__asm__ volatile")
	assert.Contains(t, out, "%rax")
	assert.Contains(t, out, "%rbx")
}

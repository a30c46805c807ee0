package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaredecimal/CSpydr/token"
)

func tokZero() token.Token {
	return token.Token{}
}

func TestTupleCacheDedupesStructurallyEqualMembers(t *testing.T) {
	cache := newTupleCache()
	program := &Program{Objects: NewObjList(), Tuples: cache}

	first := cache.Intern(program, []*Type{TI32, TI32}, tokZero())
	second := cache.Intern(program, []*Type{TI32, TI32}, tokZero())
	assert.Same(t, first, second)
}

func TestTupleCacheDistinguishesDifferentMemberTypes(t *testing.T) {
	cache := newTupleCache()
	program := &Program{Objects: NewObjList(), Tuples: cache}

	a := cache.Intern(program, []*Type{TI32, TI32}, tokZero())
	b := cache.Intern(program, []*Type{TI32, TF64}, tokZero())
	assert.NotSame(t, a, b)
}

func TestTupleCacheNamesMembersPositionally(t *testing.T) {
	cache := newTupleCache()
	program := &Program{Objects: NewObjList(), Tuples: cache}

	typedef := cache.Intern(program, []*Type{TI32, TBool, TChar}, tokZero())
	require.Len(t, typedef.Type.Members, 3)
	assert.Equal(t, "_0", typedef.Type.Members[0].Ident.Name)
	assert.Equal(t, "_1", typedef.Type.Members[1].Ident.Name)
	assert.Equal(t, "_2", typedef.Type.Members[2].Ident.Name)
}

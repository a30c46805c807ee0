package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaFreeAllReleasesRegisteredLists(t *testing.T) {
	arena := NewArena()
	list := NewObjList()
	list.Append(NewObject(ObjGlobal, NewIdentifier("x"), tokZero()))
	arena.RegisterList(list)

	assert.Equal(t, 1, list.Len())
	arena.FreeAll()
	assert.Equal(t, 0, list.Len())
}

func TestArenaFreeAllReleasesRegisteredMaps(t *testing.T) {
	arena := NewArena()
	cache := newTupleCache()
	arena.RegisterMap(cache)
	cache.entries = append(cache.entries, &tupleEntry{})

	assert.Len(t, cache.entries, 1)
	arena.FreeAll()
	assert.Nil(t, cache.entries)
}

package cspc

import (
	"strconv"

	"github.com/hexaredecimal/CSpydr/token"
)

// TupleCache implements spec.md §4.1.3's tuple deduplication: two
// syntactically distinct `{T1, T2, ...}` occurrences with
// structurally equal member lists share one synthesized typedef
// object named `__csp_tuple_<N>__` (spec.md §3 invariant, §8
// property 3). It is arena-registered (spec.md §3: "lists and hash
// maps used by AST nodes register themselves with the arena").
type TupleCache struct {
	entries []*tupleEntry
	counter int
}

type tupleEntry struct {
	members []*Type
	typedef *Object
}

func newTupleCache() *TupleCache {
	return &TupleCache{}
}

func (c *TupleCache) releaseAll() {
	c.entries = nil
}

// Lookup finds an existing typedef whose member types are
// element-wise structurally equal to members, per spec.md §4.1.3's
// walk over "any typedef whose callee starts with __csp_tuple_".
func (c *TupleCache) Lookup(members []*Type) *Object {
	for _, e := range c.entries {
		if tupleMembersEqual(e.members, members) {
			return e.typedef
		}
	}
	return nil
}

func tupleMembersEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Intern returns the deduplicated typedef Object for a tuple type
// with the given member types, constructing `_0, _1, ...`-named
// struct members and a new `__csp_tuple_<N>__` typedef on first sight
// (spec.md §4.1.3, Glossary).
func (c *TupleCache) Intern(p *Program, members []*Type, tok token.Token) *Object {
	if existing := c.Lookup(members); existing != nil {
		return existing
	}

	name := "__csp_tuple_" + strconv.Itoa(c.counter) + "__"
	c.counter++

	structMembers := make([]Member, len(members))
	for i, m := range members {
		structMembers[i] = Member{Ident: NewIdentifier("_" + strconv.Itoa(i)), Type: m}
	}
	structType := &Type{Kind: TypeStruct, Members: structMembers, Token: tok}

	id := NewIdentifier(name)
	typedef := NewObject(ObjTypedef, id, tok)
	typedef.Type = structType
	typedef.Generated = true

	c.entries = append(c.entries, &tupleEntry{members: members, typedef: typedef})

	p.AddObject(typedef)
	return typedef
}

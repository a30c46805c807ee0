package cspc

// Arena is a bump allocator whose entire contents are freed together
// at the end of compilation (spec.md §3, §5, §9). Go's garbage
// collector already reclaims individual Objects, Types and ast Nodes,
// so there is nothing for Arena to do at that granularity; its actual
// job is the one spec.md §3 calls out by name — "lists and hash maps
// used by AST nodes register themselves with the arena" — releasing
// the backing storage of the longer-lived container types (ObjList,
// TupleCache, ...) together at end of compilation instead of leaving
// them to trickle away individually. FreeAll is the one place that
// drops every live reference to those containers.
type Arena struct {
	lists []*ObjList
	maps  []releasable
}

type releasable interface {
	releaseAll()
}

func NewArena() *Arena {
	return &Arena{}
}

// RegisterList ties an ObjList's backing storage to this arena's
// lifetime so FreeAll releases it along with everything else.
func (a *Arena) RegisterList(l *ObjList) *ObjList {
	a.lists = append(a.lists, l)
	return l
}

// RegisterMap ties any arena-scoped map wrapper implementing
// releasable (currently just TupleCache) to this arena's lifetime.
func (a *Arena) RegisterMap(m releasable) {
	a.maps = append(a.maps, m)
}

// FreeAll releases every registered allocation. Safe to call once, at
// the end of a single compilation run.
func (a *Arena) FreeAll() {
	for _, l := range a.lists {
		l.items = nil
	}
	for _, m := range a.maps {
		m.releaseAll()
	}
	a.lists = nil
	a.maps = nil
}

// ObjList is a slice of *Object that can be registered with an Arena.
// Program.Objects and block-local declarations are ObjLists (struct
// and union members are a []Member on their Type), keeping ownership explicit (spec.md §3:
// "lists and hash maps used by AST nodes register themselves with the
// arena").
type ObjList struct {
	items []*Object
}

func NewObjList() *ObjList { return &ObjList{} }

func (l *ObjList) Append(o *Object) { l.items = append(l.items, o) }
func (l *ObjList) Items() []*Object { return l.items }
func (l *ObjList) Len() int         { return len(l.items) }

func (l *ObjList) Find(name string) *Object {
	for _, o := range l.items {
		if o.Ident != nil && o.Ident.Name == name {
			return o
		}
	}
	return nil
}

package cspc

import "strings"

// IdentKind distinguishes a regular name from a namespace name
// (spec.md §3).
type IdentKind int

const (
	IdentRegular IdentKind = iota
	IdentNamespace
)

// Identifier is a name with an optional outer chain (spec.md §3):
// `A::B::c` parses to Identifier{Name: "c", Outer: &Identifier{Name:
// "B", Outer: &Identifier{Name: "A"}}}. Two identifiers compare equal
// only if their full chains match, which is why Equal walks Outer
// recursively rather than comparing Name alone.
type Identifier struct {
	Name        string
	Outer       *Identifier
	GlobalScope bool // leading `::`
	Kind        IdentKind
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// Qualify returns a new Identifier for `name` nested under id, i.e.
// `id::name`.
func (id *Identifier) Qualify(name string) *Identifier {
	return &Identifier{Name: name, Outer: id}
}

// Chain returns the full dotted-to-outermost chain, outermost first,
// e.g. []string{"A", "B", "c"} for `A::B::c`.
func (id *Identifier) Chain() []string {
	if id == nil {
		return nil
	}
	chain := id.Outer.Chain()
	return append(chain, id.Name)
}

// Equal compares two identifiers by full chain equality (spec.md §3).
func (id *Identifier) Equal(other *Identifier) bool {
	if id == nil || other == nil {
		return id == other
	}
	if id.Name != other.Name || id.GlobalScope != other.GlobalScope || id.Kind != other.Kind {
		return false
	}
	return id.Outer.Equal(other.Outer)
}

// String renders the identifier the way Source text would: `::A::B::c`.
func (id *Identifier) String() string {
	if id == nil {
		return ""
	}
	var b strings.Builder
	if id.GlobalScope {
		b.WriteString("::")
	}
	b.WriteString(strings.Join(id.Chain(), "::"))
	return b.String()
}

// Mangled produces the flattened, `__csp_`-prefixed C identifier
// (spec.md §4.4.1, Glossary): the namespace chain joined with `_`.
func (id *Identifier) Mangled() string {
	return mangleChain(id.Chain())
}

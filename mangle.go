package cspc

import "strings"

const mangledPrefix = "__csp_"

// mangleChain flattens a namespace chain into the emitter's
// identifier scheme (spec.md §4.4.1, supplemented per SPEC_FULL.md's
// namespace-qualified-typedef note): `__csp_` followed by every
// segment of the chain joined with `_`.
func mangleChain(chain []string) string {
	return mangledPrefix + strings.Join(chain, "_")
}

// Mangle is the single entry point the emitter uses to turn any
// declared name into its C identifier. The program's entry point is
// always __csp_main regardless of its Source-level name, per
// spec.md §4.4.1. Compiler-synthesized names (tuple typedefs, hoisted
// lambdas) already carry the `__csp_` prefix at the point they're
// generated (tuple.go's Intern, object.go's nextLambdaName), so a
// bare, unqualified identifier that is already mangled is returned
// as-is rather than being prefixed a second time.
func Mangle(id *Identifier) string {
	if id == nil {
		return mangledPrefix
	}
	if len(id.Chain()) == 1 && id.Name == "main" {
		return "__csp_main"
	}
	if id.Outer == nil && isMangled(id.Name) {
		return id.Name
	}
	return id.Mangled()
}

// isMangled reports whether name already carries the emitter's
// prefix, used by invariant checks (spec.md §8's "every emitted
// identifier starts with __csp_").
func isMangled(name string) bool {
	return strings.HasPrefix(name, mangledPrefix)
}

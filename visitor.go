package cspc

// VisitFuncs is one dispatch-table entry: optional Enter/Leave
// callbacks for a single NodeKind (spec.md §4.2: "each with optional
// enter/leave callbacks"). Returning an error from Enter aborts the
// walk before visiting children; returning one from Leave aborts
// after.
type VisitFuncs struct {
	Enter func(n *Node, ctx any) error
	Leave func(n *Node, ctx any) error
}

// VisitTable is the generic visitor's dispatch table, keyed by node
// kind (spec.md §4.2). Visit and Inspect are not called by the type
// checker or the C emitter in this package: both walk the tree with
// their own switches over NodeKind.
type VisitTable map[NodeKind]VisitFuncs

// Visit walks n and its children depth-first, invoking table's
// Enter/Leave callbacks for each kind encountered. ctx is opaque,
// va-style state threaded through by the caller (spec.md §4.2).
func Visit(n *Node, table VisitTable, ctx any) error {
	if n == nil {
		return nil
	}
	if fns, ok := table[n.Kind]; ok && fns.Enter != nil {
		if err := fns.Enter(n, ctx); err != nil {
			return err
		}
	}

	for _, child := range nodeChildren(n) {
		if err := Visit(child, table, ctx); err != nil {
			return err
		}
	}

	if fns, ok := table[n.Kind]; ok && fns.Leave != nil {
		if err := fns.Leave(n, ctx); err != nil {
			return err
		}
	}
	return nil
}

// nodeChildren returns every direct child slot that can hold a
// sub-expression or sub-statement, in source order, regardless of
// kind. This is the one place that must stay exhaustive over
// NodeKind's structural slots (spec.md §9: "exhaustiveness over the
// node-kind enumeration is required"), but since Node is a single
// tagged struct rather than one Go type per kind, exhaustiveness here
// means "every populated slot", not a kind-by-kind switch.
func nodeChildren(n *Node) []*Node {
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(n.Left)
	add(n.Right)
	add(n.Condition)
	add(n.IfBranch)
	add(n.ElseBranch)
	add(n.ForInit)
	add(n.ForCond)
	add(n.ForStep)
	add(n.RangeLow)
	add(n.RangeHigh)
	add(n.Body)
	out = append(out, n.Args...)
	out = append(out, n.Stmts...)
	out = append(out, n.Cases...)
	out = append(out, n.AsmArgs...)
	return out
}

// Inspect is the single-pass ad hoc scan counterpart of Visit,
// grounded on the teacher's type-switch Inspect helper
// (grammar_ast_visitor.go): call f for every node, depth-first; f
// returning false skips that node's children. Useful for quick
// queries (e.g. "does this tree contain a NPlaceholder outside any
// pipe") that don't warrant a full VisitTable.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range nodeChildren(n) {
		Inspect(child, f)
	}
}

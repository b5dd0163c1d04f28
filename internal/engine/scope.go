package engine

import (
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// binding is one variable's (type, value) pair (§3 "Environment").
type binding struct {
	typ typ.Typ
	val value.Value
}

// scope is one lexical frame, linked to its enclosing frame exactly the
// way the teacher's Environment chains to an outer Environment
// (internal/evaluator/environment.go's NewEnclosedEnvironment) rather
// than as a flat array — entering/leaving a scope is then just swapping
// the Context's current pointer, which is what makes EnterScope/LeaveScope
// O(1) and trivially reversible.
type scope struct {
	vars  map[string]binding
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{vars: make(map[string]binding), outer: outer}
}

func (s *scope) get(name string) (binding, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if b, ok := cur.vars[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

func (s *scope) set(name string, b binding) {
	s.vars[name] = b
}

// depth counts frames from s up to (and including) the root, used only
// for Testable Property 4 (scope-depth symmetry) assertions in tests.
func (s *scope) depth() int {
	n := 0
	for cur := s; cur != nil; cur = cur.outer {
		n++
	}
	return n
}

package value

// Equal is structural, payload-only equality (§3, §4.A): it ignores vid
// and, per §9's resolved Open Question, ignores Region entirely — there
// is nothing here to ignore since Region never reaches this package, but
// the comment records the decision for anyone tempted to thread it in
// later (e.g. while extending Case/Struct with source-backed fields).
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Val == y.Val
	case NumV:
		y, ok := b.(NumV)
		return ok && x.Val.Equal(y.Val)
	case Text:
		y, ok := b.(Text)
		return ok && x.Val == y.Val
	case List:
		y, ok := b.(List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Opt:
		y, ok := b.(Opt)
		if !ok {
			return false
		}
		if x.Elem == nil || y.Elem == nil {
			return x.Elem == nil && y.Elem == nil
		}
		return Equal(x.Elem, y.Elem)
	case Case:
		y, ok := b.(Case)
		if !ok || !x.Op.Equal(y.Op) || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case Struct:
		y, ok := b.(Struct)
		if !ok || len(x.Order) != len(y.Order) {
			return false
		}
		for _, name := range x.Order {
			yv, ok := y.Fields[name]
			if !ok || !Equal(x.Fields[name], yv) {
				return false
			}
		}
		return true
	case Func:
		y, ok := b.(Func)
		return ok && x.Id == y.Id
	default:
		return false
	}
}

// Contains reports whether elem equals a member of list, for MemG (§4.E).
func Contains(list []Value, elem Value) bool {
	for _, v := range list {
		if Equal(v, elem) {
			return true
		}
	}
	return false
}

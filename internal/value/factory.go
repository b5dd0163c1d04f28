package value

// Factory is implemented by the owning evaluation context (internal/engine)
// and is the "single factory" of §4.A: every constructor in this package
// goes through it to stamp a vid and register the new value with that
// context's value graph. Keeping Factory as an interface (rather than
// importing engine here) avoids a value<->engine import cycle while
// still enforcing that no value is ever built without being registered.
type Factory interface {
	FreshVID() VID
	Register(Value)
}

// Package engine implements the environment & context of §4.B: the
// per-evaluation aggregate of scopes, the immutable global Spec, the
// value graph, the phantom log, and the recursion-depth/deadline
// resource guards of §5.
package engine

import (
	"context"
	"time"

	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/region"
	"github.com/p4lang/p4spectec-core/internal/trace"
	"github.com/p4lang/p4spectec-core/internal/typ"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// Limits bounds the resources of one evaluation (§5, §9). A zero
// MaxDepth is treated as Default (the caller forgot to set it, not "no
// bound") since an actually-unbounded interpreter would defeat §7's
// StackOverflow contract.
type Limits struct {
	MaxDepth int
	Deadline time.Time // zero means no deadline
}

const DefaultMaxDepth = 4096

// Context is a single, exclusively-owned evaluation (§5: "does not share
// the context; each owns its value graph and phantom log"). It
// implements value.Factory so every value constructed during this
// evaluation is stamped and registered through it.
type Context struct {
	Spec *ilast.Spec

	current *scope
	tracker *trace.Tracker
	values  map[value.VID]value.Value

	nextVID value.VID
	depth   int
	limits  Limits

	// contextPath is the stack of enclosing guards currently in scope,
	// used to snapshot the "context path" of a phantom at the moment it
	// is recorded (§4.F).
	contextPath []ilast.PathCond

	goCtx context.Context // optional caller-installed cancellation, §5
}

// New creates a fresh, independent evaluation context over an immutable
// Spec. Each call owns its own value graph and phantom log (§5).
func New(spec *ilast.Spec, limits Limits) *Context {
	if limits.MaxDepth == 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	return &Context{
		Spec:    spec,
		current: newScope(nil),
		tracker: trace.New(),
		values:  make(map[value.VID]value.Value),
		limits:  limits,
	}
}

// WithGoContext attaches a standard context.Context for cooperative
// cancellation (§5); CheckDeadline consults it in addition to
// limits.Deadline.
func (c *Context) WithGoContext(ctx context.Context) *Context {
	c.goCtx = ctx
	return c
}

// --- value.Factory ---

func (c *Context) FreshVID() value.VID {
	c.nextVID++
	c.tracker.RegisterValue(c.nextVID)
	return c.nextVID
}

func (c *Context) Register(v value.Value) {
	c.values[v.Note().VID] = v
}

// Lookup finds v's recorded value by vid, for tooling that walks the
// value graph after evaluation (e.g. the fuzzer slicing an input).
func (c *Context) Lookup(vid value.VID) (value.Value, bool) {
	v, ok := c.values[vid]
	return v, ok
}

// --- environment (§4.B) ---

func (c *Context) Bind(name string, t typ.Typ, v value.Value) {
	c.current.set(name, binding{typ: t, val: v})
}

func (c *Context) LookupVar(r region.Region, name string) (typ.Typ, value.Value, error) {
	b, ok := c.current.get(name)
	if !ok {
		return nil, nil, &errs.Unbound{Region: r, Name: name}
	}
	return b.typ, b.val, nil
}

// EnterScope pushes a fresh lexical frame. Pair with a deferred
// LeaveScope so release happens even if the inner computation returns
// an error (§4.B "guaranteed release even when the inner computation
// fails", Testable Property 4).
func (c *Context) EnterScope() {
	c.current = newScope(c.current)
}

func (c *Context) LeaveScope() {
	if c.current.outer == nil {
		// Leaving the root scope is a caller bug (unbalanced
		// Enter/Leave); there is nothing meaningful to pop to, so stay
		// put rather than corrupt the stack with a nil current.
		return
	}
	c.current = c.current.outer
}

// ScopeDepth exposes the current lexical nesting depth, used by
// Testable Property 4's tests.
func (c *Context) ScopeDepth() int {
	return c.current.depth()
}

// --- recursion depth & deadline (§5, §9) ---

// EnterCall increments the recursion-depth counter, returning
// StackOverflow if the configured bound is exceeded. Pair with a
// deferred LeaveCall.
func (c *Context) EnterCall(r region.Region) error {
	c.depth++
	if c.depth > c.limits.MaxDepth {
		c.depth--
		return &errs.StackOverflow{Region: r, Depth: c.limits.MaxDepth}
	}
	return nil
}

func (c *Context) LeaveCall() {
	if c.depth > 0 {
		c.depth--
	}
}

// CheckDeadline is consulted at the entry of every CaseI/IfI/RuleI (§5).
// Timeouts never roll back phantoms already logged (§5, §9).
func (c *Context) CheckDeadline(r region.Region) error {
	if !c.limits.Deadline.IsZero() && time.Now().After(c.limits.Deadline) {
		return &errs.Deadline{Region: r}
	}
	if c.goCtx != nil {
		select {
		case <-c.goCtx.Done():
			return &errs.Deadline{Region: r}
		default:
		}
	}
	return nil
}

// --- phantom / dependency tracking (§4.F) ---

// PushGuard extends the context path while a guard's body is evaluated.
func (c *Context) PushGuard(cond ilast.PathCond) {
	c.contextPath = append(c.contextPath, cond)
}

func (c *Context) PopGuard() {
	if len(c.contextPath) > 0 {
		c.contextPath = c.contextPath[:len(c.contextPath)-1]
	}
}

// RecordPhantom logs the phantom's pid against its path condition: the
// enclosing guards pushed onto the context path so far (PushGuard),
// followed by the conditions declared at the phantom site itself (§4.F,
// §3 Phantom.Conds) — the two halves of "the conjunction of enclosing
// guards" this phantom's branch depends on.
func (c *Context) RecordPhantom(pid ilast.Pid, conds []ilast.PathCond) {
	path := make([]ilast.PathCond, 0, len(c.contextPath)+len(conds))
	path = append(path, c.contextPath...)
	path = append(path, conds...)
	c.tracker.RecordPhantom(pid, path)
}

func (c *Context) Phantoms() []trace.PhantomEntry {
	return c.tracker.Phantoms()
}

// RecordDependency links a newly produced value to the vids read to
// derive it (§4.F "Value dependency").
func (c *Context) RecordDependency(produced value.VID, deps ...value.VID) {
	c.tracker.RecordDependency(produced, deps...)
}

func (c *Context) Tracker() *trace.Tracker {
	return c.tracker
}

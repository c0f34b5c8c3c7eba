package reactive

import "sort"

// Context holds the dependency graph for a single store instance.
type Context struct {
	stack        []*Computation
	computations map[*Computation]struct{}
	nextID       uint64
	batchDepth   int
	pending      map[*Computation]struct{}
}

// NewContext creates an empty tracking context.
func NewContext() *Context {
	return &Context{
		computations: make(map[*Computation]struct{}),
	}
}

// Observe registers fn as a computation, runs it once to collect its reads and
// re-runs it on every later write to any field it read.
func (c *Context) Observe(fn func()) *Computation {
	c.nextID++
	comp := &Computation{
		ctx:  c,
		id:   c.nextID,
		fn:   fn,
		deps: make(map[*field]struct{}),
	}
	c.computations[comp] = struct{}{}
	comp.run()
	return comp
}

// Untracked runs fn without recording reads against the current computation.
func (c *Context) Untracked(fn func()) {
	saved := c.stack
	c.stack = nil
	defer func() { c.stack = saved }()
	fn()
}

// Batch runs fn with re-runs deferred. Every computation triggered inside fn
// runs once, in registration order, when the outermost Batch returns.
func (c *Context) Batch(fn func()) {
	c.batchDepth++
	defer func() {
		c.batchDepth--
		if c.batchDepth == 0 {
			c.flush()
		}
	}()
	fn()
}

func (c *Context) flush() {
	for len(c.pending) > 0 {
		comps := sortedByID(c.pending)
		c.pending = nil
		for _, comp := range comps {
			comp.run()
		}
	}
}

// Len returns the number of live computations.
func (c *Context) Len() int {
	return len(c.computations)
}

// Dispose stops every computation registered on the context.
func (c *Context) Dispose() {
	comps := make([]*Computation, 0, len(c.computations))
	for comp := range c.computations {
		comps = append(comps, comp)
	}
	for _, comp := range comps {
		comp.Stop()
	}
}

func (c *Context) active() *Computation {
	if c == nil || len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Computation is a registered observer with its own read-set.
type Computation struct {
	ctx     *Context
	id      uint64
	fn      func()
	deps    map[*field]struct{}
	running bool
	stopped bool
	runs    int
}

// Stop detaches the computation from every field it depends on.
// Stopping twice is harmless.
func (c *Computation) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.clearDeps()
	delete(c.ctx.computations, c)
}

// Stopped reports whether Stop was called.
func (c *Computation) Stopped() bool {
	return c.stopped
}

// Runs returns how many times the computation has executed.
func (c *Computation) Runs() int {
	return c.runs
}

// Deps returns the number of fields in the current read-set.
func (c *Computation) Deps() int {
	return len(c.deps)
}

func (c *Computation) run() {
	if c.stopped || c.running {
		return
	}
	c.running = true
	c.clearDeps()
	c.ctx.stack = append(c.ctx.stack, c)
	defer func() {
		c.ctx.stack = c.ctx.stack[:len(c.ctx.stack)-1]
		c.running = false
	}()
	c.runs++
	c.fn()
}

func (c *Computation) clearDeps() {
	for f := range c.deps {
		delete(f.subscribers, c)
	}
	c.deps = make(map[*field]struct{})
}

// field is one tracked slot, shared by Record keys and Value.
type field struct {
	subscribers map[*Computation]struct{}
}

func newField() *field {
	return &field{subscribers: make(map[*Computation]struct{})}
}

func (f *field) track(ctx *Context) {
	comp := ctx.active()
	if comp == nil {
		return
	}
	f.subscribers[comp] = struct{}{}
	comp.deps[f] = struct{}{}
}

// trigger re-runs dependents in registration order. The subscriber set is
// snapshotted first since each run rewrites it.
// Inside a Batch they are queued instead.
func (f *field) trigger(ctx *Context) {
	if len(f.subscribers) == 0 {
		return
	}
	if ctx != nil && ctx.batchDepth > 0 {
		if ctx.pending == nil {
			ctx.pending = make(map[*Computation]struct{})
		}
		for comp := range f.subscribers {
			ctx.pending[comp] = struct{}{}
		}
		return
	}
	for _, comp := range sortedByID(f.subscribers) {
		comp.run()
	}
}

func sortedByID(set map[*Computation]struct{}) []*Computation {
	comps := make([]*Computation, 0, len(set))
	for comp := range set {
		comps = append(comps, comp)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].id < comps[j].id })
	return comps
}

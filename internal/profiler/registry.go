package profiler

import (
	"sort"
	"sync"
	"time"
	"weak"
)

// Registry is the pipeline-scoped collection of per-source profilers. A
// PipelineContext owns one Registry strongly for its whole lifetime;
// individual Source wrappers hold only a weak.Pointer back to it (via
// WeakRef), so a source that outlives its context (a caller still holding
// a reference after Commit) doesn't keep the registry, and everything it
// has accumulated, reachable.
type Registry struct {
	mu    sync.Mutex
	profs []*Profiler
	// stack tracks the chain of profiled sources currently inside a
	// CopyPixels traversal. Pulls nest strictly (a transform calls its
	// upstream and waits), so pausing the stack top on Enter and
	// resuming it on Exit charges each node only its own self time.
	stack []*Profiler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// NewProfiler creates and registers a profiler under name.
func (r *Registry) NewProfiler(name string) *Profiler {
	p := New(name)
	r.mu.Lock()
	r.profs = append(r.profs, p)
	r.mu.Unlock()
	return p
}

// WeakRef returns a weak pointer to r, suitable for a Source to hold so it
// can report timing without extending the registry's lifetime.
func (r *Registry) WeakRef() weak.Pointer[Registry] { return weak.Make(r) }

// Enter marks p as the currently-running profiled node: the previous
// top of the traversal stack (p's downstream consumer) is paused so the
// time p spends working isn't charged to it, and p's clock starts.
func (r *Registry) Enter(p *Profiler) {
	if r == nil || p == nil {
		return
	}
	r.mu.Lock()
	if n := len(r.stack); n > 0 {
		r.stack[n-1].Pause()
	}
	r.stack = append(r.stack, p)
	r.mu.Unlock()
	p.Begin()
}

// Exit closes out the current Enter, ending the top profiler's clock and
// resuming its downstream consumer's.
func (r *Registry) Exit() {
	if r == nil {
		return
	}
	r.mu.Lock()
	var cur, parent *Profiler
	if n := len(r.stack); n > 0 {
		cur = r.stack[n-1]
		r.stack = r.stack[:n-1]
		if n > 1 {
			parent = r.stack[n-2]
		}
	}
	r.mu.Unlock()
	cur.End()
	parent.Resume()
}

// Entry is one profiler's reportable state, snapshotted at Report time.
type Entry struct {
	Name  string
	Self  time.Duration
	Calls int
}

// Report snapshots every registered profiler's self time, ordered by
// descending self time (the slowest node first, the common thing an
// operator wants to see).
func (r *Registry) Report() []Entry {
	r.mu.Lock()
	profs := append([]*Profiler(nil), r.profs...)
	r.mu.Unlock()

	out := make([]Entry, len(profs))
	for i, p := range profs {
		out[i] = Entry{Name: p.Name(), Self: p.SelfTime(), Calls: p.Calls()}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Self > out[j].Self })
	return out
}

// ResolveWeak dereferences a weak.Pointer[Registry], returning (nil,
// false) if the registry has already been collected.
func ResolveWeak(w weak.Pointer[Registry]) (*Registry, bool) {
	r := w.Value()
	return r, r != nil
}

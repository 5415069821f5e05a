package pixel

import (
	"github.com/Nness/PhotoSauce/internal/profiler"
	"github.com/Nness/PhotoSauce/pixfmt"
)

// Profiled wraps any Source with self-time accounting: entering a
// wrapped node's CopyPixels registers it with the pipeline's profiler
// Registry, which pauses the clock of the downstream node that called it
// and resumes that clock when this node returns. Chain pulls nest
// strictly on one goroutine, so the Registry's traversal stack attributes
// each node's self time independent of how long its upstream took. The
// builder wraps every transform it appends with a Profiled node sharing
// the pipeline's Registry.
type Profiled struct {
	Inner Source
	Reg   *profiler.Registry
	Prof  *profiler.Profiler
}

// WrapProfiled builds a Profiled source over inner, registering a new
// profiler under name in reg. If reg is nil, profiling is a no-op (the
// Registry and Profiler methods all tolerate nil receivers).
func WrapProfiled(inner Source, reg *profiler.Registry, name string) *Profiled {
	var p *profiler.Profiler
	if reg != nil {
		p = reg.NewProfiler(name)
	}
	return &Profiled{Inner: inner, Reg: reg, Prof: p}
}

func (w *Profiled) Format() pixfmt.Format { return w.Inner.Format() }
func (w *Profiled) Width() int            { return w.Inner.Width() }
func (w *Profiled) Height() int           { return w.Inner.Height() }

func (w *Profiled) CopyPixels(area pixfmt.Area, stride int, buf []byte) error {
	if w.Reg == nil || w.Prof == nil {
		return w.Inner.CopyPixels(area, stride, buf)
	}
	w.Reg.Enter(w.Prof)
	defer w.Reg.Exit()
	return w.Inner.CopyPixels(area, stride, buf)
}

// Close disposes Inner if it owns closable resources.
func (w *Profiled) Close() error {
	if cl, ok := w.Inner.(Closer); ok {
		return cl.Close()
	}
	return nil
}

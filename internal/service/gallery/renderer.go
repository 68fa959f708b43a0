package gallery

import (
	"context"
	"errors"
	"sync"

	"apodgallery/internal/facts"
	"apodgallery/internal/logger"
	"apodgallery/internal/metrics"
	"apodgallery/internal/view"
)

// Texts shown in the loading region.
const (
	FactHeader   = "Did You Know?"
	ErrorMessage = "Error displaying images. Please try again later."
)

// State is the phase of one render invocation.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StatePopulated  State = "populated"
	StateFailed     State = "failed"
	StateSuperseded State = "superseded"
)

// Surface is what the renderer writes to: the gallery region and the loading region.
type Surface interface {
	ClearGallery()
	ShowLoading(header, text string)
	ClearLoading()
	ShowError(message string)
	AppendItems(items []view.Item)
}

// Outcome describes how a Render call ended.
type Outcome struct {
	State State
	Items int
	Err   error
}

// Renderer runs the orchestrator for a range and shows the result on a surface.
// A new run cancels the one in flight; a superseded run never writes.
type Renderer struct {
	orchestrator *Orchestrator
	surface      Surface
	facts        *facts.Provider
	progress     ProgressFunc
	logger       *logger.Logger
	metrics      *metrics.Collector

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
}

type RendererOptions struct {
	Orchestrator *Orchestrator
	Surface      Surface
	Facts        *facts.Provider
	// Progress, if set, is called after each date of the current run.
	// Calls from superseded runs are dropped.
	Progress ProgressFunc
	Logger   *logger.Logger
	Metrics  *metrics.Collector
}

func NewRenderer(opts RendererOptions) *Renderer {
	if opts.Facts == nil {
		opts.Facts = facts.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Renderer{
		orchestrator: opts.Orchestrator,
		surface:      opts.Surface,
		facts:        opts.Facts,
		progress:     opts.Progress,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		state:        StateIdle,
	}
}

// State returns the state of the most recent run.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run is a render that has taken over the surface but not fetched yet.
type Run struct {
	r          *Renderer
	gen        uint64
	parent     context.Context
	ctx        context.Context
	cancel     context.CancelFunc
	start, end string
}

// Begin supersedes the run in flight, clears the gallery and shows a fact.
// Callers that fetch in the background call Begin before starting the
// goroutine so that runs take over in the order they were requested.
func (r *Renderer) Begin(ctx context.Context, start, end string) *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.generation++
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.state = StateLoading
	r.surface.ClearGallery()
	r.surface.ShowLoading(FactHeader, r.facts.Random())
	return &Run{r: r, gen: r.generation, parent: ctx, ctx: runCtx, cancel: cancel, start: start, end: end}
}

// Render is Begin followed by Wait.
func (r *Renderer) Render(ctx context.Context, start, end string) Outcome {
	return r.Begin(ctx, start, end).Wait()
}

// Wait fetches the range and then either appends every item or shows the
// error message, unless a newer run has taken over in the meantime.
func (run *Run) Wait() Outcome {
	r := run.r
	orchestrator := r.orchestrator
	if r.progress != nil {
		orchestrator = orchestrator.WithProgress(func(index, total int, item view.Item) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if run.gen == r.generation {
				r.progress(index, total, item)
			}
		})
	}

	items, err := orchestrator.RunRange(run.ctx, run.start, run.end)

	r.mu.Lock()
	defer r.mu.Unlock()
	run.cancel()

	if run.gen != r.generation {
		r.metrics.ObserveRun(string(StateSuperseded), 0)
		return Outcome{State: StateSuperseded, Err: err}
	}
	r.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) && run.parent.Err() != nil {
			// The owner went away; nobody is left to look at the surface.
			r.state = StateIdle
			return Outcome{State: StateIdle, Err: err}
		}
		r.surface.ClearLoading()
		r.surface.ShowError(ErrorMessage)
		r.state = StateFailed
		r.logger.Error("Error displaying images for date range %s..%s: %v", run.start, run.end, err)
		r.metrics.ObserveRun(string(StateFailed), 0)
		return Outcome{State: StateFailed, Err: err}
	}

	r.surface.ClearLoading()
	r.surface.AppendItems(items)
	r.state = StatePopulated
	r.metrics.ObserveRun(string(StatePopulated), len(items))
	return Outcome{State: StatePopulated, Items: len(items)}
}

// Cancel stops the run in flight, if any, without touching the surface.
func (r *Renderer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
}

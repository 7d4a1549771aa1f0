package render

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
)

// DefaultBatchThreshold is the batch size at which dispatch fans out to
// workers instead of processing sequentially.
const DefaultBatchThreshold = 50

// Dispatcher turns "line N needs refresh" into render requests and
// reassembles the results by line index.
type Dispatcher struct {
	renderer  Renderer
	threshold int
	workers   int
	log       *slog.Logger
}

// Option is a functional option for configuring a Dispatcher.
type Option func(*Dispatcher)

// WithBatchThreshold sets the batch size at which rendering goes parallel.
func WithBatchThreshold(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.threshold = n
		}
	}
}

// WithWorkers sets the worker count for parallel batches.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger used to report per-line fallbacks.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher over the given render capability.
func NewDispatcher(renderer Renderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		renderer:  renderer,
		threshold: DefaultBatchThreshold,
		workers:   runtime.GOMAXPROCS(0),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RenderOne renders a single line. It never fails: a renderer error,
// panic, or empty output substitutes the escaped literal rendering.
func (d *Dispatcher) RenderOne(req Request) Result {
	return d.safeRender(req)
}

// RenderBatch renders a batch of independent requests. Below the threshold
// the batch is processed sequentially; at or above it, requests fan out to
// workers. Results are returned in request order regardless of completion
// order, so results[i] always answers reqs[i].
func (d *Dispatcher) RenderBatch(reqs []Request) []Result {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	if len(reqs) < d.threshold {
		for i := range reqs {
			results[i] = d.safeRender(reqs[i])
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := d.workers
	if workers > len(reqs) {
		workers = len(reqs)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each slot is written only by the worker that drew its
				// index; no further synchronization is needed.
				results[i] = d.safeRender(reqs[i])
			}
		}()
	}

	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// safeRender invokes the renderer and converts every failure mode into the
// escaped literal fallback for that one line.
func (d *Dispatcher) safeRender(req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("render panicked, substituting literal",
				"line", req.LineIndex, "panic", fmt.Sprint(r))
			res = Fallback(req)
		}
	}()

	res, err := d.renderer.RenderLine(req)
	if err != nil {
		d.log.Warn("render failed, substituting literal",
			"line", req.LineIndex, "error", err)
		return Fallback(req)
	}
	if res.HTML == "" {
		d.log.Warn("render returned empty output, substituting literal",
			"line", req.LineIndex)
		return Fallback(req)
	}

	res.LineIndex = req.LineIndex
	res.Generation = req.Generation
	return res
}

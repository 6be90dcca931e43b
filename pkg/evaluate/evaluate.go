// Package evaluate measures reconciliation quality and speed over
// grids of simulated evolutions.
//
// Every combination of grid parameters is sampled a configurable
// number of times: each sample simulates a reference history, strips it
// down to a reconciliation input, reconciles, and compares the result
// against the reference. Identical grids are memoized through the
// cache so that repeated runs are free.
package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/superrec/pkg/cache"
	"github.com/matzehuels/superrec/pkg/recon"
	"github.com/matzehuels/superrec/pkg/simulate"
)

// Reconciliation methods selectable in a grid.
const (
	MethodExact     = "exact"
	MethodHeuristic = "heuristic"
)

// ErrNonParsimonious is returned when a reconciled tree scores worse
// than the reference history it was derived from. Both engines are
// expected to do at least as well as the history they started from.
var ErrNonParsimonious = errors.New("reconciliation scored worse than the reference history")

// Grid describes a parameter sweep. Each slice axis is combined with
// every other, and every combination is sampled Samples times.
type Grid struct {
	// Method selects the reconciliation engine, MethodExact or
	// MethodHeuristic.
	Method string `toml:"method"`

	// Samples is the number of evolutions simulated per combination.
	Samples int `toml:"samples"`

	// Seed makes the whole sweep reproducible. Each sample derives its
	// own generator from it.
	Seed int64 `toml:"seed"`

	// Jobs bounds the number of concurrent workers. Zero means one
	// worker per CPU.
	Jobs int `toml:"jobs"`

	SyntenySize []int     `toml:"synteny_size"`
	Depth       []int     `toml:"depth"`
	PDup        []float64 `toml:"p_dup"`
	PDupLength  []float64 `toml:"p_dup_length"`
	PLoss       []float64 `toml:"p_loss"`
	PLossLength []float64 `toml:"p_loss_length"`
}

// ValidateAndSetDefaults fills unset axes with the standard simulation
// parameters and checks the grid is runnable.
func (g *Grid) ValidateAndSetDefaults() error {
	if g.Method == "" {
		g.Method = MethodExact
	}
	if g.Method != MethodExact && g.Method != MethodHeuristic {
		return fmt.Errorf("unknown method %q", g.Method)
	}
	if g.Samples <= 0 {
		g.Samples = 1
	}
	if g.Jobs < 0 {
		return fmt.Errorf("negative job count %d", g.Jobs)
	}
	if len(g.SyntenySize) == 0 {
		g.SyntenySize = []int{5}
	}
	for _, size := range g.SyntenySize {
		if size <= 0 {
			return fmt.Errorf("non-positive synteny size %d", size)
		}
	}
	if len(g.Depth) == 0 {
		g.Depth = []int{5}
	}
	if len(g.PDup) == 0 {
		g.PDup = []float64{0.5}
	}
	if len(g.PDupLength) == 0 {
		g.PDupLength = []float64{0.3}
	}
	if len(g.PLoss) == 0 {
		g.PLoss = []float64{0.2}
	}
	if len(g.PLossLength) == 0 {
		g.PLossLength = []float64{0.7}
	}
	return nil
}

// Params is one point of the sweep.
type Params struct {
	SyntenySize int     `json:"synteny_size"`
	Depth       int     `json:"depth"`
	PDup        float64 `json:"p_dup"`
	PDupLength  float64 `json:"p_dup_length"`
	PLoss       float64 `json:"p_loss"`
	PLossLength float64 `json:"p_loss_length"`
}

// Result aggregates the samples measured at one point of the sweep.
// Scoredif holds, per sample, how many duplications and losses the
// reference history spends beyond the reconciled tree; DurationMicros
// holds the reconciliation times.
type Result struct {
	Params         Params  `json:"params"`
	Scoredif       []uint  `json:"scoredif"`
	DurationMicros []int64 `json:"duration"`
}

// Report is the outcome of a full sweep. Failures counts the samples
// skipped because their reconciliation failed; the successful samples
// of the same point are kept.
type Report struct {
	RunID     string    `json:"run_id"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
	Failures  int       `json:"failures,omitempty"`
	Results   []Result  `json:"results"`
}

// Runner executes sweeps with caching. It is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables memoization and a
// nil logger falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Progress is invoked after every completed sample. Implementations
// must be safe for concurrent calls.
type Progress func(done, total int)

// Run executes the sweep and returns its report. When an identical
// grid has been evaluated before, the cached report is returned and
// progress jumps straight to completion.
func (r *Runner) Run(ctx context.Context, grid Grid, progress Progress) (*Report, error) {
	if err := grid.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	if progress == nil {
		progress = func(int, int) {}
	}

	points := grid.points()
	total := len(points) * grid.Samples

	key := cache.Key("evaluate", grid)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var report Report
		if err := json.Unmarshal(data, &report); err == nil {
			r.Logger.Info("reusing cached report", "run_id", report.RunID)
			progress(total, total)
			return &report, nil
		}
	}

	r.Logger.Info("starting sweep",
		"method", grid.Method,
		"points", len(points),
		"samples", grid.Samples)

	report, err := r.sweep(ctx, grid, points, total, progress)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		_ = r.Cache.Set(ctx, key, data, 0)
	}
	return report, nil
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// points expands the grid axes into the full cartesian product.
func (g Grid) points() []Params {
	var out []Params
	for _, size := range g.SyntenySize {
		for _, depth := range g.Depth {
			for _, pDup := range g.PDup {
				for _, pDupLen := range g.PDupLength {
					for _, pLoss := range g.PLoss {
						for _, pLossLen := range g.PLossLength {
							out = append(out, Params{
								SyntenySize: size,
								Depth:       depth,
								PDup:        pDup,
								PDupLength:  pDupLen,
								PLoss:       pLoss,
								PLossLength: pLossLen,
							})
						}
					}
				}
			}
		}
	}
	return out
}

// task is one sample to measure: a sweep point plus the index that
// seeds its private generator, so results do not depend on scheduling.
type task struct {
	point int
	seed  int64
}

func (r *Runner) sweep(ctx context.Context, grid Grid, points []Params, total int, progress Progress) (*Report, error) {
	jobs := grid.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}

	tasks := make(chan task)
	results := make([]Result, len(points))
	for i := range results {
		results[i].Params = points[i]
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		done     int
		failures int
	)

	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tk := range tasks {
				scoredif, duration, err := sample(grid.Method, points[tk.point], tk.seed)

				mu.Lock()
				if err != nil {
					// A failed tree is skipped, not fatal: the other
					// samples are independent reconciliations.
					failures++
					r.Logger.Warn("sample failed", "seed", tk.seed, "err", err)
				} else {
					results[tk.point].Scoredif = append(results[tk.point].Scoredif, scoredif)
					results[tk.point].DurationMicros = append(results[tk.point].DurationMicros, duration)
				}
				done++
				progress(done, total)
				mu.Unlock()
			}
		}()
	}

	feed := func() error {
		defer close(tasks)
		seq := int64(0)
		for i := range points {
			for s := 0; s < grid.Samples; s++ {
				select {
				case tasks <- task{point: i, seed: grid.Seed + seq}:
				case <-ctx.Done():
					return ctx.Err()
				}
				seq++
			}
		}
		return nil
	}
	feedErr := feed()
	wg.Wait()

	if feedErr != nil {
		return nil, feedErr
	}
	if failures > 0 {
		r.Logger.Warn("sweep finished with skipped samples", "failures", failures)
	}

	return &Report{
		RunID:     uuid.NewString(),
		Method:    grid.Method,
		CreatedAt: time.Now().UTC(),
		Failures:  failures,
		Results:   results,
	}, nil
}

// sample simulates one evolution at the given point, reconciles its
// erased copy, and measures the score difference and the time spent
// reconciling.
func sample(method string, p Params, seed int64) (uint, int64, error) {
	rng := rand.New(rand.NewSource(seed))
	params := simulate.Params{
		Base:        simulate.Dummy(p.SyntenySize),
		Depth:       p.Depth,
		PDup:        p.PDup,
		PDupLength:  p.PDupLength,
		PLoss:       p.PLoss,
		PLossLength: p.PLossLength,
	}

	reference := simulate.Evolution(rng, params)
	reconciled := reference.Clone()
	recon.Erase(reconciled)

	start := time.Now()
	var err error
	switch method {
	case MethodHeuristic:
		err = recon.Unordered(reconciled)
	default:
		_, err = recon.Ordered(reconciled)
	}
	duration := time.Since(start).Microseconds()
	if err != nil {
		return 0, 0, fmt.Errorf("reconcile sample: %w", err)
	}

	scoredif, err := scoreDifference(reference.DLScore(), reconciled.DLScore())
	if err != nil {
		return 0, 0, err
	}
	return scoredif, duration, nil
}

// scoreDifference computes how many events the reference history spends
// beyond the reconciled tree. A reconciliation scoring worse than the
// history it was derived from violates the non-regression property of
// both engines and returns ErrNonParsimonious.
func scoreDifference(reference, reconciled uint) (uint, error) {
	if reference < reconciled {
		return 0, fmt.Errorf("%w: reference %d, reconciled %d",
			ErrNonParsimonious, reference, reconciled)
	}
	return reference - reconciled, nil
}

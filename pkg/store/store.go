// Package store holds the per-session state of a dynamic tree
// visualization: the current graph, recalculation parameters, performance
// metrics and the alternative-paths cache. One Store belongs to exactly one
// session; callers in a concurrent host must serialize access.
package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/careermap/pathview/pkg/graph"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/paths"
)

// State names the session lifecycle phase.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateRecalculating State = "recalculating"
	StateError         State = "error"
)

// recalcResult is what one recalculation pass produces.
type recalcResult struct {
	graph model.FlowGraph
	paths []model.AlternativePath
}

// Store is the dynamic tree session. Construct with New, feed it a graph
// via InitializeTree, then drive it through the command methods. Commands
// run to completion before the next is accepted; there is no internal
// queueing or cancellation.
type Store struct {
	state State

	original model.FlowGraph
	current  model.FlowGraph
	params   model.Parameters
	maxDepth int
	profile  string

	pendingChanges bool
	autoRecalc     bool
	recalcErr      string
	metrics        model.PerformanceMetrics
	altPaths       []model.AlternativePath

	gen *paths.Generator

	// For testing: allow overriding the recalculation pass.
	recalc func() (recalcResult, error)
}

// New creates an empty session. The random source seeds the diversity
// strategy's shuffle; nil gets a fixed seed.
func New(rng *rand.Rand) *Store {
	s := &Store{
		state: StateUninitialized,
		gen:   paths.NewGenerator(nil, rng),
	}
	s.recalc = s.runPipeline
	return s
}

// NewWithGenerator creates a session using a caller-configured generator.
func NewWithGenerator(gen *paths.Generator) *Store {
	s := &Store{state: StateUninitialized, gen: gen}
	s.recalc = s.runPipeline
	return s
}

// InitializeTree transitions Uninitialized -> Ready with the supplied graph
// as both the original and the current view. Max depth is computed from the
// graph and is immutable for the session. All other fields reset to
// defaults: full depth, alternatives hidden, auto-recalculation on.
func (s *Store) InitializeTree(g model.FlowGraph, sourceProfile string) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("session already initialized (state %s)", s.state)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("initialize tree: %w", err)
	}

	s.original = g.Clone()
	s.current = g
	s.maxDepth = g.MaxDepth()
	s.profile = sourceProfile
	s.params = model.Parameters{Depth: s.maxDepth, ShowAlternativePaths: false}
	s.pendingChanges = false
	s.autoRecalc = true
	s.recalcErr = ""
	s.metrics = model.PerformanceMetrics{}
	s.altPaths = nil
	s.state = StateReady
	return nil
}

// UpdateDepth clamps depth to [1, maxDepth], records it, and marks the
// session as having pending changes. The parameter always updates
// immediately; with auto-recalculation enabled the derived graph follows
// synchronously, otherwise it defers until TriggerRecalculation.
func (s *Store) UpdateDepth(depth int) error {
	if err := s.requireReady("update depth"); err != nil {
		return err
	}

	if depth < 1 {
		depth = 1
	}
	if depth > s.maxDepth {
		depth = s.maxDepth
	}
	s.params.Depth = depth
	s.pendingChanges = true

	if s.autoRecalc {
		return s.TriggerRecalculation(false)
	}
	return nil
}

// TriggerRecalculation re-derives the current graph (and alternative paths
// when the explorer is enabled) from the original graph and the current
// parameters. A no-op unless there are pending changes or force is set.
// Pipeline failures are captured into session state rather than returned:
// the last good graph stays visible and the error is surfaced via
// RecalculationError.
func (s *Store) TriggerRecalculation(force bool) error {
	if s.state == StateRecalculating {
		return nil // single-threaded contract; never interleave
	}
	if err := s.requireReady("trigger recalculation"); err != nil {
		return err
	}
	if !s.pendingChanges && !force {
		return nil
	}

	s.state = StateRecalculating
	start := time.Now()
	result, err := s.safeRecalc()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		s.metrics.ErrorCount++
		s.recalcErr = err.Error()
		s.state = StateError
		return nil
	}

	s.current = result.graph
	if s.params.ShowAlternativePaths {
		s.altPaths = result.paths
	}
	s.pendingChanges = false
	s.metrics.LastRecalculationMs = elapsed
	s.metrics.TotalRecalculations++
	n := float64(s.metrics.TotalRecalculations)
	s.metrics.AverageRecalculationMs += (elapsed - s.metrics.AverageRecalculationMs) / n
	s.state = StateReady
	return nil
}

// safeRecalc runs the recalculation pass, converting panics into errors so
// a failing pass can never take down an interactive session.
func (s *Store) safeRecalc() (result recalcResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recalculation panic: %v", r)
		}
	}()
	return s.recalc()
}

// runPipeline is the real recalculation pass: depth filter, then the
// alternative path generator when the explorer is open.
func (s *Store) runPipeline() (recalcResult, error) {
	result := recalcResult{
		graph: graph.FilterByDepth(s.original, s.params.Depth),
	}
	if s.params.ShowAlternativePaths {
		result.paths = s.gen.Generate(s.original, s.params.Depth, s.profile)
	}
	return result, nil
}

// ToggleAlternativePathsExplorer flips the explorer parameter and marks the
// change pending. It does not itself recalculate.
func (s *Store) ToggleAlternativePathsExplorer() error {
	if err := s.requireReady("toggle alternative paths"); err != nil {
		return err
	}
	s.params.ShowAlternativePaths = !s.params.ShowAlternativePaths
	s.pendingChanges = true
	return nil
}

// SelectAlternativePath swaps the current view to the chosen path's nodes
// and edges. Depth parameters and max depth are untouched.
func (s *Store) SelectAlternativePath(p model.AlternativePath) error {
	if err := s.requireReady("select alternative path"); err != nil {
		return err
	}
	s.current = model.FlowGraph{Nodes: p.Nodes, Edges: p.Edges}
	return nil
}

// ResetToOriginal restores the graph captured at InitializeTree, at full
// depth, and drops pending changes, any captured error, and the
// alternative-paths cache.
func (s *Store) ResetToOriginal() error {
	if s.state == StateUninitialized {
		return fmt.Errorf("reset: %w", model.ErrNotInitialized)
	}
	s.current = s.original.Clone()
	s.params.Depth = s.maxDepth
	s.pendingChanges = false
	s.recalcErr = ""
	s.altPaths = nil
	if s.state == StateError {
		s.state = StateReady
	}
	return nil
}

// EnableAutoRecalculation sets whether UpdateDepth triggers recalculation
// synchronously. It does not itself trigger one.
func (s *Store) EnableAutoRecalculation(enabled bool) error {
	if err := s.requireReady("enable auto recalculation"); err != nil {
		return err
	}
	s.autoRecalc = enabled
	return nil
}

// ClearError dismisses a captured recalculation error, returning the
// session to Ready. The graph is unaffected; it was preserved when the
// error was captured.
func (s *Store) ClearError() error {
	if s.state != StateError {
		return fmt.Errorf("clear error: no error to clear (state %s)", s.state)
	}
	s.recalcErr = ""
	s.state = StateReady
	return nil
}

// Cleanup discards all session data and returns to Uninitialized. Valid in
// any state.
func (s *Store) Cleanup() {
	*s = Store{state: StateUninitialized, gen: s.gen}
	s.recalc = s.runPipeline
}

// requireReady rejects commands outside the Ready state. Before
// initialization this is ErrNotInitialized; in the error state the caller
// must dismiss the banner first.
func (s *Store) requireReady(op string) error {
	switch s.state {
	case StateUninitialized:
		return fmt.Errorf("%s: %w", op, model.ErrNotInitialized)
	case StateError:
		return fmt.Errorf("%s: recalculation error pending, clear it first", op)
	case StateRecalculating:
		return fmt.Errorf("%s: recalculation in progress", op)
	}
	return nil
}

// State returns the current lifecycle phase.
func (s *Store) State() State { return s.state }

// CurrentGraph returns the graph currently shown. The slices are replaced
// wholesale on recalculation, so callers may compare identities to detect
// change.
func (s *Store) CurrentGraph() model.FlowGraph { return s.current }

// OriginalGraph returns a copy of the graph captured at initialization.
func (s *Store) OriginalGraph() model.FlowGraph { return s.original.Clone() }

// Parameters returns the active parameter set.
func (s *Store) Parameters() model.Parameters { return s.params }

// MaxDepth returns the maximum depth of the source tree for this session.
func (s *Store) MaxDepth() int { return s.maxDepth }

// PendingChanges reports whether parameters changed since the last
// successful recalculation.
func (s *Store) PendingChanges() bool { return s.pendingChanges }

// RecalculationError returns the captured error message, empty when none.
func (s *Store) RecalculationError() string { return s.recalcErr }

// Metrics returns the session's recalculation metrics.
func (s *Store) Metrics() model.PerformanceMetrics { return s.metrics }

// AlternativePaths returns the cached paths, empty until the explorer has
// been enabled and a recalculation has run.
func (s *Store) AlternativePaths() []model.AlternativePath { return s.altPaths }

// AutoRecalculationEnabled reports whether depth updates recalculate
// synchronously.
func (s *Store) AutoRecalculationEnabled() bool { return s.autoRecalc }

// Profile returns the source profile the session was initialized with.
func (s *Store) Profile() string { return s.profile }

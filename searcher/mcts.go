package searcher

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/random"
)

type Option func(mcts *MCTS)

type SearchOption func(options *searchOptions)

type searchOptions struct {
	tau        float64
	iterations int
	duration   time.Duration
}

// MCTS runs leaf batched searches over trees owned by the caller. One search at a time.
type MCTS struct {
	iterations int
	duration   time.Duration
	batchSize  int
	noise      bool
	seed       uint64
	evaluator  Evaluator
	rng        *rand.Rand
	metrics    metrics.Collector

	running atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

type Result struct {
	Selected *Node
	Policy   map[int]float64 // action -> probability
	Metric   metrics.SearchMetric
}

// job is a leaf waiting for the evaluator with the path that reached it.
type job struct {
	state *game.State
	leaf  *Node
	path  []*Node
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithBatchSize(size int) Option {
	return func(m *MCTS) {
		m.batchSize = size
	}
}

// WithNoise mixes Dirichlet noise into the priors of every expansion.
func WithNoise() Option {
	return func(m *MCTS) {
		m.noise = true
	}
}

// WithSeed fixes the generator used for noise and move selection. Zero draws a random seed.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithEvaluator(evaluator Evaluator) Option {
	return func(m *MCTS) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func WithTau(tau float64) SearchOption {
	return func(o *searchOptions) {
		o.tau = tau
	}
}

// WithSearchIterations overrides the engine's iteration budget for one search.
func WithSearchIterations(iterations int) SearchOption {
	return func(o *searchOptions) {
		o.iterations = iterations
	}
}

// WithSearchDuration overrides the engine's time budget for one search.
func WithSearchDuration(duration time.Duration) SearchOption {
	return func(o *searchOptions) {
		o.duration = duration
	}
}

func NewMCTS(options ...Option) (*MCTS, error) {
	m := &MCTS{ // Default values
		batchSize: BatchSize,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.iterations <= 0 && m.duration <= 0 {
		return nil, fmt.Errorf("%w: must specify search iterations or duration", ErrConfiguration)
	}
	if m.batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size %d must be positive", ErrConfiguration, m.batchSize)
	}
	if m.seed == 0 {
		m.seed = random.Seed()
	}
	m.rng = random.New(m.seed)
	if m.evaluator == nil {
		m.evaluator = NewRolloutEvaluator(m.rng.Uint64() | 1)
	}
	return m, nil
}

// Search grows the tree below root, whose position is state, and picks a child by sampling
// the visit distribution sharpened by tau. The tree is modified in place; state is not.
//
// The search ends when its iteration budget is spent, its deadline passes, ctx is done or
// Stop is called. Cancellation is checked between iterations and a pending batch is always
// evaluated before returning.
func (m *MCTS) Search(ctx context.Context, root *Node, state *game.State, options ...SearchOption) (Result, error) {
	opts := searchOptions{tau: DefaultTau, iterations: m.iterations, duration: m.duration}
	for _, option := range options {
		option(&opts)
	}
	if opts.tau <= 0 || math.IsNaN(opts.tau) || math.IsInf(opts.tau, 0) {
		return Result{}, fmt.Errorf("%w: tau %v must be positive", ErrConfiguration, opts.tau)
	}
	if opts.iterations <= 0 && opts.duration <= 0 {
		return Result{}, fmt.Errorf("%w: must specify search iterations or duration", ErrConfiguration)
	}
	if root == nil || state == nil {
		return Result{}, fmt.Errorf("%w: nil root or state", ErrConfiguration)
	}
	if state.Terminal() || root.expansion == Terminal {
		return Result{}, fmt.Errorf("%w: root position is terminal", game.ErrIllegalMove)
	}

	if !m.running.CompareAndSwap(false, true) {
		return Result{}, ErrConcurrentSearch
	}
	defer m.running.Store(false)

	ctx, cancel := m.arm(ctx, opts.duration)
	defer m.disarm(cancel)

	m.metrics.Start(m.batchSize)
	m.metrics.SetTreeReused(root.Visits > 0)
	s := &search{
		MCTS:  m,
		root:  root,
		state: state,
		batch: make([]job, 0, m.batchSize),
	}

	stopped := false
	for i := 0; opts.iterations <= 0 || i < opts.iterations; i++ {
		// The first iteration always runs so the root has children to choose from
		if i > 0 && ctx.Err() != nil {
			stopped = opts.iterations > 0
			break
		}
		if err := s.step(ctx); err != nil {
			return Result{}, err
		}
	}
	if err := s.flush(ctx); err != nil {
		return Result{}, err
	}
	if stopped {
		m.metrics.SetCancelled()
	}
	metric := m.metrics.Complete()

	children := root.Children()
	probs := actionProbabilities(children, opts.tau)
	selected, err := random.WeightedPick(m.rng, children, probs)
	if err != nil {
		return Result{}, fmt.Errorf("failed to select a move: %w", err)
	}
	policy := make(map[int]float64, len(children))
	for i, child := range children {
		policy[child.Action] = probs[i]
	}

	log.Debug().Msgf("searched %d iterations in %s, selected %v", metric.Iterations, metric.Duration, selected)
	return Result{Selected: selected, Policy: policy, Metric: metric}, nil
}

// Stop asks the running search to return after its current iteration. No-op when idle.
func (m *MCTS) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *MCTS) arm(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	var cancel context.CancelFunc
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	return ctx, cancel
}

func (m *MCTS) disarm(cancel context.CancelFunc) {
	m.mu.Lock()
	m.cancel = nil
	m.mu.Unlock()
	cancel()
}

// search is the state of one Search call.
type search struct {
	*MCTS
	root  *Node
	state *game.State
	batch []job
}

// step runs one selection pass from the root and either scores a terminal leaf or queues
// the expanded leaf for evaluation.
func (s *search) step(ctx context.Context) error {
	node := s.root
	state := s.state.Clone()
	path := []*Node{node}
	for !node.isLeaf() {
		node = node.selectChild()
		if err := state.Play(node.Action); err != nil {
			return fmt.Errorf("failed to replay selected move: %w", err)
		}
		path = append(path, node)
	}
	s.metrics.AddIteration()

	if outcome, over := state.Outcome(); over {
		node.markTerminal()
		s.metrics.AddTerminal()
		backup(path, -outcome.Score(state.Player()))
		return nil
	}

	node.expand(state.LegalMoves())
	applyVirtualLoss(path)
	s.batch = append(s.batch, job{state: state, leaf: node, path: path})
	if len(s.batch) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

// flush evaluates every queued leaf, then assigns priors to its children and backs its value
// up the path whose visits were already counted. The batch fails as a whole.
func (s *search) flush(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	defer func() {
		clear(s.batch)
		s.batch = s.batch[:0]
	}()

	states := make([]*game.State, len(s.batch))
	for i, j := range s.batch {
		states[i] = j.state
	}
	results, err := s.evaluator.Evaluate(context.WithoutCancel(ctx), states)
	if err != nil {
		return fmt.Errorf("failed to evaluate batch: %w", err)
	}
	if len(results) != len(s.batch) {
		return fmt.Errorf("%w: %d results for %d states", ErrMalformedEvaluation, len(results), len(s.batch))
	}
	for _, result := range results {
		if err := validateEvaluation(result); err != nil {
			return err
		}
	}
	s.metrics.AddBatch(len(s.batch))

	for i, j := range s.batch {
		s.applyPriors(j.leaf, results[i].Priors)
		revert(j.path, -results[i].Value)
	}
	return nil
}

func (s *search) applyPriors(leaf *Node, priors map[int]float64) {
	children := leaf.Children()
	for _, child := range children {
		child.Prior = priors[child.Action]
	}
	if !s.noise || len(children) == 0 {
		return
	}

	noise, err := random.DirichletSymmetric(s.rng, len(children), NoiseAlpha)
	if err != nil {
		log.Warn().Msgf("skipping exploration noise: %v", err)
		return
	}
	for i, child := range children {
		child.Prior = (1-NoiseWeight)*child.Prior + NoiseWeight*noise[i]
	}
}

// applyVirtualLoss counts a visit on every node of path before the leaf's value is known.
func applyVirtualLoss(path []*Node) {
	for _, node := range path {
		node.addVisit()
	}
}

// backup records a visit worth value at the end of path, negating it at every ply up.
func backup(path []*Node, value float64) {
	for i := len(path) - 1; i >= 0; i-- {
		path[i].addVisit()
		path[i].addValue(value)
		value = -value
	}
}

// revert adds value to a path whose visits were counted by applyVirtualLoss.
func revert(path []*Node, value float64) {
	for i := len(path) - 1; i >= 0; i-- {
		path[i].addValue(value)
		value = -value
	}
}

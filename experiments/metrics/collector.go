package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	BatchSize    int
	Duration     time.Duration
	Iterations   int // Leaves visited, terminal or evaluated
	Terminals    int // Leaves scored from a finished game without calling the evaluator
	Batches      int // Evaluator calls
	Evaluations  int // Positions sent to the evaluator
	IsTreeReused bool
	Cancelled    bool // Search stopped before its iteration budget
}

type MoveMetric struct {
	Step   int
	Player int // 1 for black, -1 for white
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(batchSize int)
	SetTreeReused(value bool)
	AddIteration()
	AddTerminal()
	AddBatch(size int)
	SetCancelled()
	Complete() SearchMetric
}

type collector struct {
	batchSize    int
	startTime    time.Time
	iterations   atomic.Int32
	terminals    atomic.Int32
	batches      atomic.Int32
	evaluations  atomic.Int32
	isTreeReused atomic.Bool
	cancelled    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReused(value bool) {
	m.isTreeReused.Store(value)
}

// Start resets the counters for a new search.
func (m *collector) Start(batchSize int) {
	m.startTime = time.Now()
	m.batchSize = batchSize
	m.iterations.Store(0)
	m.terminals.Store(0)
	m.batches.Store(0)
	m.evaluations.Store(0)
	m.cancelled.Store(false)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) AddBatch(size int) {
	m.batches.Add(1)
	m.evaluations.Add(int32(size))
}

func (m *collector) SetCancelled() {
	m.cancelled.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		BatchSize:    m.batchSize,
		Duration:     time.Since(m.startTime),
		Iterations:   int(m.iterations.Load()),
		Terminals:    int(m.terminals.Load()),
		Batches:      int(m.batches.Load()),
		Evaluations:  int(m.evaluations.Load()),
		IsTreeReused: m.isTreeReused.Load(),
		Cancelled:    m.cancelled.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(batchSize int)      {}
func (m *dummyCollector) SetTreeReused(value bool) {}
func (m *dummyCollector) AddIteration()            {}
func (m *dummyCollector) AddTerminal()             {}
func (m *dummyCollector) AddBatch(size int)        {}
func (m *dummyCollector) SetCancelled()            {}
func (m *dummyCollector) Complete() SearchMetric   { return SearchMetric{} }

package metrics

import (
	"time"
)

type SearchMetric struct {
	Duration         time.Duration
	Rollouts         int
	TerminalRollouts int
	Depth            int // Rollout depth limit
	MaxDepth         int // Deepest rollout reached
	IsStatsReused    bool
}

type StepMetric struct {
	Step  int
	Agent int // Index of the planning agent
	SearchMetric
}

type EpisodeMetric struct {
	Captured  bool
	Steps     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(depth int)
	SetStatsReused(value bool)
	AddRollout(depth int, terminal bool)
	Complete() SearchMetric
}

type collector struct {
	depth            int
	startTime        time.Time
	rollouts         int
	terminalRollouts int
	maxDepth         int
	isStatsReused    bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetStatsReused(value bool) {
	m.isStatsReused = value
}

func (m *collector) Start(depth int) {
	m.startTime = time.Now()
	m.depth = depth
	m.rollouts = 0
	m.terminalRollouts = 0
	m.maxDepth = 0
}

func (m *collector) AddRollout(depth int, terminal bool) {
	m.rollouts++
	if terminal {
		m.terminalRollouts++
	}
	m.maxDepth = max(m.maxDepth, depth)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:         time.Since(m.startTime),
		Rollouts:         m.rollouts,
		TerminalRollouts: m.terminalRollouts,
		Depth:            m.depth,
		MaxDepth:         m.maxDepth,
		IsStatsReused:    m.isStatsReused,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int)                     {}
func (m *dummyCollector) SetStatsReused(value bool)           {}
func (m *dummyCollector) AddRollout(depth int, terminal bool) {}
func (m *dummyCollector) Complete() SearchMetric              { return SearchMetric{} }

package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Pipeline stages
const (
	StageLoad  = "load"
	StageWrite = "write"
)

// Collector collects statistics for a run of the pipeline.
type Collector struct {
	// Stage metrics
	stageRuns     sync.Map // map[string]*uint64 - stage -> count
	stageErrors   sync.Map // map[string]*uint64 - stage -> error count
	stageDuration sync.Map // map[string]*durationValue - stage -> total duration in seconds

	// Document metrics
	entities           uint64
	rows               uint64
	droppedPermissions uint64
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// Snapshot holds the collected values at one point in time.
type Snapshot struct {
	Entities             uint64
	Rows                 uint64
	DroppedPermissions   uint64
	StageRuns            map[string]uint64
	StageErrors          map[string]uint64
	StageDurationSeconds map[string]float64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordStage records one execution of a stage.
func (c *Collector) RecordStage(stage string) {
	counter := c.getOrCreateCounter(&c.stageRuns, stage)
	atomic.AddUint64(counter, 1)
}

// RecordError records a failed stage.
func (c *Collector) RecordError(stage string) {
	counter := c.getOrCreateCounter(&c.stageErrors, stage)
	atomic.AddUint64(counter, 1)
}

// RecordDuration records how long a stage took.
func (c *Collector) RecordDuration(stage string, d time.Duration) {
	val, _ := c.stageDuration.LoadOrStore(stage, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += d.Seconds()
	dv.mu.Unlock()
}

// AddEntities records entities read from the input.
func (c *Collector) AddEntities(n int) {
	atomic.AddUint64(&c.entities, uint64(n))
}

// AddRows records data rows written to the output.
func (c *Collector) AddRows(n int) {
	atomic.AddUint64(&c.rows, uint64(n))
}

// AddDroppedPermissions records permissions no schema column matched.
func (c *Collector) AddDroppedPermissions(n int) {
	atomic.AddUint64(&c.droppedPermissions, uint64(n))
}

// Snapshot returns the current values.
func (c *Collector) Snapshot() *Snapshot {
	result := &Snapshot{
		Entities:             atomic.LoadUint64(&c.entities),
		Rows:                 atomic.LoadUint64(&c.rows),
		DroppedPermissions:   atomic.LoadUint64(&c.droppedPermissions),
		StageRuns:            make(map[string]uint64),
		StageErrors:          make(map[string]uint64),
		StageDurationSeconds: make(map[string]float64),
	}

	c.stageRuns.Range(func(key, value interface{}) bool {
		result.StageRuns[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	c.stageErrors.Range(func(key, value interface{}) bool {
		result.StageErrors[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	c.stageDuration.Range(func(key, value interface{}) bool {
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.StageDurationSeconds[key.(string)] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

// Fields flattens the snapshot for structured logging.
func (s *Snapshot) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"entities":            s.Entities,
		"rows":                s.Rows,
		"dropped_permissions": s.DroppedPermissions,
	}
	for stage, secs := range s.StageDurationSeconds {
		fields[stage+"_seconds"] = secs
	}
	for stage, n := range s.StageErrors {
		fields[stage+"_errors"] = n
	}
	return fields
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}

package metrics

import "time"

// Track runs fn as the named stage, recording its execution, duration
// and failure. The error of fn is returned unchanged.
func Track(c *Collector, stage string, fn func() error) error {
	if c == nil {
		return fn()
	}

	start := time.Now()
	err := fn()
	c.RecordStage(stage)
	c.RecordDuration(stage, time.Since(start))
	if err != nil {
		c.RecordError(stage)
	}
	return err
}

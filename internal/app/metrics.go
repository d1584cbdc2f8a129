package app

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Metrics tracks frame and input timing of the UI loop. It is written by
// the loop and may be read from anywhere.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	emptyFrames  atomic.Uint64

	// Input handling
	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records the time to render and diff a frame and the number
// of commands it produced.
func (m *Metrics) RecordFrame(duration time.Duration, commands int) {
	ns := duration.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	if commands == 0 {
		m.emptyFrames.Add(1)
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records the time to handle one event.
func (m *Metrics) RecordInput(duration time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(duration.Nanoseconds())
}

// MetricsSnapshot is a point-in-time copy of the metrics.
type MetricsSnapshot struct {
	Frames      uint64
	EmptyFrames uint64
	FrameAvg    time.Duration
	FrameMax    time.Duration
	Inputs      uint64
	InputAvg    time.Duration
	Uptime      time.Duration
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Frames:      m.frameCount.Load(),
		EmptyFrames: m.emptyFrames.Load(),
		FrameMax:    time.Duration(m.frameMaxNs.Load()),
		Inputs:      m.inputCount.Load(),
		Uptime:      time.Since(m.startTime),
	}
	if s.Frames > 0 {
		s.FrameAvg = time.Duration(m.frameTotalNs.Load() / int64(s.Frames))
	}
	if s.Inputs > 0 {
		s.InputAvg = time.Duration(m.inputTotalNs.Load() / int64(s.Inputs))
	}
	return s
}

// Log writes the snapshot as one event.
func (s MetricsSnapshot) Log(ev *zerolog.Event) {
	ev.Uint64("frames", s.Frames).
		Uint64("empty_frames", s.EmptyFrames).
		Dur("frame_avg", s.FrameAvg).
		Dur("frame_max", s.FrameMax).
		Uint64("inputs", s.Inputs).
		Dur("input_avg", s.InputAvg).
		Dur("uptime", s.Uptime).
		Msg("session metrics")
}

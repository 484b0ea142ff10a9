// Package telemetry writes per-tick run data as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/brickdungeon/internal/dungeon"
)

// BallSample is one ball on one tick.
type BallSample struct {
	Tick      int     `csv:"tick"`
	Ball      int     `csv:"ball"`
	Kind      string  `csv:"kind"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	VX        float64 `csv:"vx"`
	VY        float64 `csv:"vy"`
	AngVel    float64 `csv:"angvel"`
	InContact bool    `csv:"in_contact"`
}

// EventRecord is one run event.
type EventRecord struct {
	Tick   int    `csv:"tick"`
	Depth  int    `csv:"depth"`
	Kind   string `csv:"kind"`
	Detail string `csv:"detail"`
}

// sink appends records to a writer, emitting the header once.
type sink[T any] struct {
	w             io.Writer
	headerWritten bool
}

func (s *sink[T]) write(records []T) error {
	if len(records) == 0 {
		return nil
	}
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.w); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.w)
}

// Trace records ball trajectories and, optionally, run events.
// A nil *Trace is valid and records nothing.
type Trace struct {
	balls  sink[BallSample]
	events *sink[EventRecord]
	files  []*os.File
	rows   int
}

// NewTrace writes trajectories to w. events may be nil.
func NewTrace(w io.Writer, events io.Writer) *Trace {
	t := &Trace{balls: sink[BallSample]{w: w}}
	if events != nil {
		t.events = &sink[EventRecord]{w: events}
	}
	return t
}

// Create opens trajectory and event files. Returns nil if path is empty.
// eventsPath may be empty.
func Create(path, eventsPath string) (*Trace, error) {
	if path == "" {
		return nil, nil
	}
	f, err := create(path)
	if err != nil {
		return nil, err
	}
	t := NewTrace(f, nil)
	t.files = append(t.files, f)

	if eventsPath != "" {
		ef, err := create(eventsPath)
		if err != nil {
			f.Close()
			return nil, err
		}
		t.events = &sink[EventRecord]{w: ef}
		t.files = append(t.files, ef)
	}
	return t, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

// Record writes the state of one tick.
func (t *Trace) Record(r *dungeon.Run, res dungeon.StepResult) error {
	if t == nil {
		return nil
	}

	balls := r.Balls()
	samples := make([]BallSample, 0, len(balls))
	for _, b := range balls {
		samples = append(samples, BallSample{
			Tick:      res.Tick,
			Ball:      b.ID,
			Kind:      b.Kind.String(),
			X:         b.Pos.X,
			Y:         b.Pos.Y,
			VX:        b.Vel.X,
			VY:        b.Vel.Y,
			AngVel:    b.Angular,
			InContact: b.InContact,
		})
	}
	if err := t.balls.write(samples); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}
	t.rows += len(samples)

	if t.events == nil {
		return nil
	}
	events := make([]EventRecord, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, EventRecord{
			Tick:   e.Tick,
			Depth:  res.Depth,
			Kind:   e.Kind.String(),
			Detail: e.Detail,
		})
	}
	if err := t.events.write(events); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// Rows returns the number of trajectory rows written.
func (t *Trace) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Close closes files opened by Create.
func (t *Trace) Close() error {
	if t == nil {
		return nil
	}
	var first error
	for _, f := range t.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	t.files = nil
	return first
}

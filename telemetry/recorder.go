package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/weather"
)

// Sample is one fixed tick of controller status flattened for CSV.
type Sample struct {
	Tick           int     `csv:"tick"`
	TimeSec        float64 `csv:"time"`
	State          string  `csv:"state"`
	Grounded       bool    `csv:"grounded"`
	WallClinging   bool    `csv:"wall_clinging"`
	WallSide       int     `csv:"wall_side"`
	OnLadder       bool    `csv:"on_ladder"`
	Dashing        bool    `csv:"dashing"`
	AirJumps       int     `csv:"air_jumps"`
	Facing         int     `csv:"facing"`
	DashCooldownMs int64   `csv:"dash_cooldown_ms"`
	DropThrough    bool    `csv:"drop_through"`
	JumpThrough    bool    `csv:"jump_through"`
	X              float64 `csv:"x"`
	Y              float64 `csv:"y"`
	VX             float64 `csv:"vx"`
	VY             float64 `csv:"vy"`
	Weather        string  `csv:"weather"`
}

func FromStatus(tick int, now time.Duration, s locomotion.Status, w weather.Type) Sample {
	return Sample{
		Tick:           tick,
		TimeSec:        now.Seconds(),
		State:          string(s.State),
		Grounded:       s.Grounded,
		WallClinging:   s.WallClinging,
		WallSide:       s.WallSide,
		OnLadder:       s.OnLadder,
		Dashing:        s.Dashing,
		AirJumps:       s.AirJumps,
		Facing:         s.Facing,
		DashCooldownMs: s.DashCooldownRemaining.Milliseconds(),
		DropThrough:    s.DropThroughActive,
		JumpThrough:    s.JumpThroughActive,
		X:              s.Position.X,
		Y:              s.Position.Y,
		VX:             s.Velocity.X,
		VY:             s.Velocity.Y,
		Weather:        w.String(),
	}
}

// Recorder appends samples to a CSV stream. A nil Recorder discards
// everything, so callers need not check whether tracing is enabled.
type Recorder struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
	count         int
}

func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

// Create opens path for writing, creating parent directories. An empty path
// returns a nil Recorder.
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create %s: %w", path, err)
	}
	return &Recorder{out: f, closer: f}, nil
}

func (r *Recorder) Record(s Sample) error {
	if r == nil {
		return nil
	}
	records := []Sample{s}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("telemetry: write sample: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("telemetry: write sample: %w", err)
		}
	}
	r.count++
	return nil
}

// Count returns how many samples were written.
func (r *Recorder) Count() int {
	if r == nil {
		return 0
	}
	return r.count
}

func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

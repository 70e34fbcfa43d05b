package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/weather"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestFromStatus(t *testing.T) {
	s := locomotion.Status{
		State:                 locomotion.StateJump,
		WallSide:              -1,
		AirJumps:              1,
		Facing:                1,
		DashCooldownRemaining: 750 * time.Millisecond,
		JumpThroughActive:     true,
		Position:              r2.Vec{X: 1, Y: 2},
		Velocity:              r2.Vec{X: -3, Y: 15},
	}
	got := FromStatus(7, 140*time.Millisecond, s, weather.Storm)
	want := Sample{
		Tick: 7, TimeSec: 0.14, State: "jump", WallSide: -1, AirJumps: 1, Facing: 1,
		DashCooldownMs: 750, JumpThrough: true, X: 1, Y: 2, VX: -3, VY: 15, Weather: "storm",
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestRecorderWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	for i := 0; i < 3; i++ {
		if err := r.Record(Sample{Tick: i, State: "idle", Weather: "clear"}); err != nil {
			t.Fatal(err)
		}
	}
	if r.Count() != 3 {
		t.Fatalf("count = %d", r.Count())
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "tick,time,state,") {
		t.Fatalf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "tick,") != 1 {
		t.Fatal("header repeated")
	}

	var back []Sample
	if err := gocsv.UnmarshalString(buf.String(), &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 3 || back[2].Tick != 2 || back[2].State != "idle" {
		t.Fatalf("read back %+v", back)
	}
}

func TestNilRecorderDiscards(t *testing.T) {
	var r *Recorder
	if err := r.Record(Sample{}); err != nil || r.Count() != 0 || r.Close() != nil {
		t.Fatal("nil recorder should be a no-op")
	}

	r, err := Create("")
	if err != nil || r != nil {
		t.Fatalf("empty path: %v %v", r, err)
	}
}

func TestCreateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "trace.csv")
	r, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Record(Sample{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal("second close should be a no-op")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "tick,") {
		t.Fatalf("file = %q", data)
	}
}

package robot

import (
	"context"
	"fmt"
	"sync"
)

// MockSample is one scripted tick of sensor data.
type MockSample struct {
	Color        Color
	Reflection   int
	ReflectionOK bool
	DistanceMM   int
	DistanceOK   bool
}

// MockSensors replays a scripted sample sequence. The script advances on
// each ReadColor call (the navigator reads color first every tick); the
// reflection and distance reads return values from the same scripted tick.
// Once the script is exhausted the last sample repeats.
type MockSensors struct {
	mu     sync.Mutex
	script []MockSample
	idx    int
}

var _ Sensors = (*MockSensors)(nil)

func NewMockSensors(script ...MockSample) *MockSensors {
	return &MockSensors{script: script, idx: -1}
}

// Append extends the script. Safe to call while a run is in progress.
func (m *MockSensors) Append(samples ...MockSample) {
	m.mu.Lock()
	m.script = append(m.script, samples...)
	m.mu.Unlock()
}

func (m *MockSensors) current() MockSample {
	if len(m.script) == 0 {
		return MockSample{}
	}
	i := m.idx
	if i < 0 {
		i = 0
	}
	if i >= len(m.script) {
		i = len(m.script) - 1
	}
	return m.script[i]
}

func (m *MockSensors) ReadColor(ctx context.Context) (Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idx++
	s := m.current()
	if s.Color == ColorNone {
		return ColorNone, ErrNoReading
	}
	return s.Color, nil
}

func (m *MockSensors) ReadReflection(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.current()
	if !s.ReflectionOK {
		return 0, ErrNoReading
	}
	return s.Reflection, nil
}

func (m *MockSensors) ReadDistance(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.current()
	if !s.DistanceOK {
		return 0, ErrNoReading
	}
	return s.DistanceMM, nil
}

// RecordingDrive records every drive command as a formatted string so
// tests can assert exact actuation sequences.
type RecordingDrive struct {
	mu    sync.Mutex
	calls []string
}

var _ Drive = (*RecordingDrive)(nil)

func (d *RecordingDrive) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

// Calls returns a copy of the recorded command log.
func (d *RecordingDrive) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

func (d *RecordingDrive) Run(ctx context.Context, leftSpeed, rightSpeed int) error {
	d.record(fmt.Sprintf("run %d %d", leftSpeed, rightSpeed))
	return nil
}

func (d *RecordingDrive) RunAngle(ctx context.Context, side Side, speed, degrees int, brake, wait bool) error {
	d.record(fmt.Sprintf("angle %s %d %d brake=%t wait=%t", side, speed, degrees, brake, wait))
	return nil
}

func (d *RecordingDrive) Stop(ctx context.Context) error {
	d.record("stop")
	return nil
}

// RecordingSignals records hub output calls.
type RecordingSignals struct {
	mu    sync.Mutex
	calls []string
}

var _ Signals = (*RecordingSignals)(nil)

func (s *RecordingSignals) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *RecordingSignals) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *RecordingSignals) Beep(ctx context.Context, freqHz, durationMs int) error {
	s.record(fmt.Sprintf("beep %d %d", freqHz, durationMs))
	return nil
}

func (s *RecordingSignals) Display(ctx context.Context, text string) error {
	s.record("display " + text)
	return nil
}

func (s *RecordingSignals) ShowIcon(ctx context.Context, icon Icon) error {
	s.record("icon " + icon.String())
	return nil
}

func (s *RecordingSignals) SetVolume(ctx context.Context, percent int) error {
	s.record(fmt.Sprintf("volume %d", percent))
	return nil
}

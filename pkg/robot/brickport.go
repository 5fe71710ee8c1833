package robot

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// BrickPort talks to the rover's controller board over a serial line. The
// board exposes a small line protocol:
//
//	>> SENS                     << C=GREEN R=13 D=452   (D=- when no echo)
//	>> RUN <left> <right>       << OK
//	>> ANG <L|R> <speed> <deg> <B|C> <W|N>
//	                            << OK                   (after completion if W)
//	>> STOP                     << OK
//	>> BEEP <freq> <ms>         << OK
//	>> TXT <text>               << OK
//	>> ICO <SQUARE|CROSS>       << OK
//	>> VOL <percent>            << OK
//
// One request is in flight at a time; responses are single lines.
type BrickPort struct {
	mu   sync.Mutex
	port serial.Port
	rd   *bufio.Reader
}

// Compile-time interface checks.
var (
	_ Sensors = (*BrickPort)(nil)
	_ Drive   = (*BrickPort)(nil)
	_ Signals = (*BrickPort)(nil)
)

// OpenBrickPort opens the controller board on the given serial port.
func OpenBrickPort(portName string) (*BrickPort, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(2 * time.Second); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	return &BrickPort{port: port, rd: bufio.NewReader(port)}, nil
}

// Close closes the serial port.
func (b *BrickPort) Close() error {
	return b.port.Close()
}

// transact writes one command line and reads one response line.
func (b *BrickPort) transact(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.port.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}
	line, err := b.rd.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read response to %q: %w", cmd, err)
	}
	return strings.TrimSpace(line), nil
}

// transactOK runs a command that only acknowledges.
func (b *BrickPort) transactOK(ctx context.Context, cmd string) error {
	resp, err := b.transact(ctx, cmd)
	if err != nil {
		return err
	}
	if resp != "OK" {
		return fmt.Errorf("%q: unexpected response %q", cmd, resp)
	}
	return nil
}

// sense runs one SENS transaction and parses the field list.
func (b *BrickPort) sense(ctx context.Context) (color Color, refl, dist int, distOK bool, err error) {
	resp, err := b.transact(ctx, "SENS")
	if err != nil {
		return ColorNone, 0, 0, false, err
	}
	color, refl, dist, distOK = parseSense(resp)
	return color, refl, dist, distOK, nil
}

// parseSense decodes a SENS response line. A missing or "-" field leaves
// its zero value: ColorNone, refl -1, dist with distOK false.
func parseSense(resp string) (color Color, refl, dist int, distOK bool) {
	refl = -1
	dist = -1
	for _, field := range strings.Fields(resp) {
		key, val, found := strings.Cut(field, "=")
		if !found || val == "-" {
			continue
		}
		switch key {
		case "C":
			color = ParseColor(val)
		case "R":
			if n, convErr := strconv.Atoi(val); convErr == nil {
				refl = n
			}
		case "D":
			if n, convErr := strconv.Atoi(val); convErr == nil {
				dist = n
				distOK = true
			}
		}
	}
	return color, refl, dist, distOK
}

func (b *BrickPort) ReadColor(ctx context.Context) (Color, error) {
	color, _, _, _, err := b.sense(ctx)
	if err != nil {
		return ColorNone, err
	}
	if color == ColorNone {
		return ColorNone, ErrNoReading
	}
	return color, nil
}

func (b *BrickPort) ReadReflection(ctx context.Context) (int, error) {
	_, refl, _, _, err := b.sense(ctx)
	if err != nil {
		return 0, err
	}
	if refl < 0 {
		return 0, ErrNoReading
	}
	return refl, nil
}

func (b *BrickPort) ReadDistance(ctx context.Context) (int, error) {
	_, _, dist, ok, err := b.sense(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNoReading
	}
	return dist, nil
}

func (b *BrickPort) Run(ctx context.Context, leftSpeed, rightSpeed int) error {
	return b.transactOK(ctx, fmt.Sprintf("RUN %d %d", leftSpeed, rightSpeed))
}

func (b *BrickPort) RunAngle(ctx context.Context, side Side, speed, degrees int, brake, wait bool) error {
	s := "R"
	if side == Left {
		s = "L"
	}
	stop := "C"
	if brake {
		stop = "B"
	}
	w := "N"
	if wait {
		w = "W"
	}
	return b.transactOK(ctx, fmt.Sprintf("ANG %s %d %d %s %s", s, speed, degrees, stop, w))
}

func (b *BrickPort) Stop(ctx context.Context) error {
	return b.transactOK(ctx, "STOP")
}

func (b *BrickPort) Beep(ctx context.Context, freqHz, durationMs int) error {
	return b.transactOK(ctx, fmt.Sprintf("BEEP %d %d", freqHz, durationMs))
}

func (b *BrickPort) Display(ctx context.Context, text string) error {
	return b.transactOK(ctx, "TXT "+text)
}

func (b *BrickPort) ShowIcon(ctx context.Context, icon Icon) error {
	return b.transactOK(ctx, "ICO "+icon.String())
}

func (b *BrickPort) SetVolume(ctx context.Context, percent int) error {
	return b.transactOK(ctx, fmt.Sprintf("VOL %d", percent))
}

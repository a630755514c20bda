package detector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	scriptName = "mediapipe_service.py"
	// idleShutdown stops the service after this long without a frame.
	idleShutdown = 30 * time.Second
)

// ErrScriptNotFound is returned when no MediaPipe service script exists.
var ErrScriptNotFound = errors.New(scriptName + " not found")

// MediaPipeDetector runs hand tracking in a Python MediaPipe service.
//
// Each frame is sent on the service's stdin as a 4-byte big-endian length
// followed by a JPEG; the service answers with one JSON line in the wire
// format read by DecodeHands. The service starts on the first frame and
// stops after idleShutdown without one.
type MediaPipeDetector struct {
	cfg    Config
	script string

	mu   sync.Mutex
	svc  *service
	idle *time.Timer
}

// NewMediaPipeDetector locates the service script. No process is started.
func NewMediaPipeDetector(cfg Config) (*MediaPipeDetector, error) {
	script := cfg.ScriptPath
	if script == "" {
		script = findMediaPipeScript()
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("mediapipe script: %w", err)
	}
	return &MediaPipeDetector{cfg: cfg, script: script}, nil
}

func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.svc == nil {
		svc, err := startService(pythonPath(), d.args())
		if err != nil {
			return nil, err
		}
		d.svc = svc
	}

	line, err := d.svc.roundTrip(buf.GetBytes())
	if err != nil {
		// A broken pipe leaves the service unusable; restart on the next frame.
		d.stopLocked()
		return nil, err
	}
	d.armIdle(d.svc)
	return DecodeHands(line)
}

func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *MediaPipeDetector) args() []string {
	return []string{
		d.script,
		"--max-hands", strconv.Itoa(d.cfg.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.cfg.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.cfg.MinTrackingConf, 'f', 2, 64),
	}
}

func (d *MediaPipeDetector) stopLocked() error {
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}
	if d.svc == nil {
		return nil
	}
	err := d.svc.stop()
	d.svc = nil
	return err
}

// armIdle schedules svc to stop. A timer that fires after svc was already
// replaced does nothing.
func (d *MediaPipeDetector) armIdle(svc *service) {
	if d.idle != nil {
		d.idle.Stop()
	}
	d.idle = time.AfterFunc(idleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.svc == svc {
			d.stopLocked()
		}
	})
}

// service is one running MediaPipe process.
type service struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

func startService(python string, args []string) (*service, error) {
	cmd := exec.Command(python, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mediapipe stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("mediapipe stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mediapipe service: %w", err)
	}
	return &service{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

func (s *service) roundTrip(jpeg []byte) ([]byte, error) {
	if err := writeFrame(s.stdin, jpeg); err != nil {
		return nil, err
	}
	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read mediapipe response: %w", err)
	}
	return line, nil
}

// stop closes stdin, which the service treats as end of input.
func (s *service) stop() error {
	s.stdin.Close()
	return s.cmd.Wait()
}

// writeFrame writes one length-prefixed frame.
func writeFrame(w io.Writer, data []byte) error {
	msg := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(msg, uint32(len(data)))
	copy(msg[4:], data)
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func findMediaPipeScript() string {
	rel := filepath.Join("scripts", scriptName)
	return firstExisting(searchPaths(rel)...)
}

// pythonPath prefers a virtual environment interpreter over python3.
func pythonPath() string {
	rel := filepath.Join("venv", "bin", "python")
	if p := firstExisting(searchPaths(rel)...); p != "" {
		return p
	}
	return "python3"
}

// searchPaths lists where rel may live: the working directory and its
// parents, next to the executable and under ~/.saturn.
func searchPaths(rel string) []string {
	paths := []string{rel, filepath.Join("..", rel), filepath.Join("..", "..", rel)}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), rel))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".saturn", rel))
	}
	return paths
}

func firstExisting(candidates ...string) string {
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

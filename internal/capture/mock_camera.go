package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera replays frames without a device. With no frames it produces
// blank frames of its size forever.
type MockCamera struct {
	mu sync.Mutex

	frames []*gocv.Mat
	loop   bool
	next   int

	width, height int
	fps           int
	open          bool
	reads         int
}

// NewMockCamera replays frames once, or forever when loop is set.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
		width:  DefaultWidth,
		height: DefaultHeight,
		fps:    DefaultFPS,
	}
}

// NewBlankCamera yields black width x height frames.
func NewBlankCamera(width, height int) *MockCamera {
	c := NewMockCamera(nil, true)
	c.width, c.height = width, height
	return c
}

// Open rewinds the replay.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	c.open, c.next = true, 0
	c.mu.Unlock()
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	return nil
}

// ReadFrame returns a copy the caller must Close. Every call on an open
// camera counts as a read, including ones past the end of the replay.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}
	c.reads++

	var m gocv.Mat
	switch {
	case len(c.frames) == 0:
		m = gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)
	case c.next < len(c.frames) || c.loop:
		m = c.frames[c.next%len(c.frames)].Clone()
		c.next = (c.next + 1) % len(c.frames)
		if !c.loop && c.next == 0 {
			c.next = len(c.frames)
		}
	default:
		return nil, fmt.Errorf("replay exhausted after %d frames: %w", len(c.frames), ErrNoFrame)
	}
	return &m, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	c.fps = fps
	c.mu.Unlock()
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Reads counts ReadFrame calls made while open.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

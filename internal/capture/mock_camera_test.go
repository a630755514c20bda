package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMockCamera_Replay(t *testing.T) {
	a := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer b.Close()

	cam := NewMockCamera([]*gocv.Mat{&a, &b}, false)
	require.NoError(t, cam.Open())
	defer cam.Close()

	for range 2 {
		f, err := cam.ReadFrame()
		require.NoError(t, err)
		f.Close()
	}

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrNoFrame)
	assert.Equal(t, 3, cam.Reads())
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	require.NoError(t, cam.Open())
	defer cam.Close()

	for i := range 5 {
		f, err := cam.ReadFrame()
		require.NoError(t, err, "read %d", i)
		f.Close()
	}
}

func TestMockCamera_ReopenRewinds(t *testing.T) {
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, false)
	require.NoError(t, cam.Open())
	f, err := cam.ReadFrame()
	require.NoError(t, err)
	f.Close()
	require.NoError(t, cam.Close())

	require.NoError(t, cam.Open())
	f, err = cam.ReadFrame()
	require.NoError(t, err)
	f.Close()
}

func TestBlankCamera(t *testing.T) {
	cam := NewBlankCamera(320, 240)

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)

	require.NoError(t, cam.Open())
	defer cam.Close()

	f, err := cam.ReadFrame()
	require.NoError(t, err)
	defer f.Close()

	w, h := cam.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	assert.Equal(t, 320, f.Cols())
	assert.Equal(t, 240, f.Rows())
}

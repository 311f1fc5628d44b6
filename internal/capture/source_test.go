package capture

import (
	"errors"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", got, DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open initially")
	}
}

func TestSource_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 15", fps: 15, wantFPS: 15},
		{name: "set to 1", fps: 1, wantFPS: 1},
		{name: "zero keeps previous", fps: 0, wantFPS: 1},
		{name: "negative keeps previous", fps: -3, wantFPS: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestSource_NotOpened(t *testing.T) {
	src := NewFile("clip.mp4")

	if _, err := src.Read(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Read() error = %v, want ErrNotOpen", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() on unopened source = %v, want nil", err)
	}
}

func TestFile_ImageSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV video I/O")
	}

	m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer m.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "still.png")
	if !gocv.IMWrite(path, m) {
		t.Fatal("IMWrite failed")
	}

	src := NewFile(path)
	if err := src.Open(); err != nil {
		t.Skipf("image capture backend not available: %v", err)
	}
	defer src.Close()

	f, err := src.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if f.Cols() != 64 || f.Rows() != 48 {
		t.Errorf("frame size = %dx%d, want 64x48", f.Cols(), f.Rows())
	}
	f.Close()

	if _, err := src.Read(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("second Read() error = %v, want ErrEndOfStream", err)
	}
}

func TestCamera_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	defer cam.Close()

	mat, err := cam.Read()
	if err != nil {
		t.Skipf("skipping test - camera returned no frame: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		t.Error("Read() returned empty mat")
	}
}

func writeClip(t *testing.T, fps float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.avi")
	vw, err := gocv.VideoWriterFile(path, "MJPG", fps, 64, 48, true)
	if err != nil || !vw.IsOpened() {
		t.Skipf("video writer not available: %v", err)
	}
	m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer m.Close()
	for i := 0; i < 3; i++ {
		if err := vw.Write(m); err != nil {
			vw.Close()
			t.Fatalf("Write() error = %v", err)
		}
	}
	vw.Close()
	return path
}

func TestFile_FPS(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV video I/O")
	}
	path := writeClip(t, 25)

	tests := []struct {
		name    string
		set     int
		wantFPS int
	}{
		{name: "rate from file", set: 0, wantFPS: 25},
		{name: "explicit rate wins", set: 3, wantFPS: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFile(path)
			src.SetFPS(tt.set)
			if err := src.Open(); err != nil {
				t.Skipf("video capture backend not available: %v", err)
			}
			defer src.Close()

			if got := src.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

// Package capture reads frames from cameras and video files using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings.
const (
	DefaultFPS    = 10
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrNotOpen is returned when reading from a source that is not open.
	ErrNotOpen = errors.New("source is not open")
	// ErrEndOfStream is returned when a finite source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
)

// Source produces video frames.
type Source interface {
	Open() error
	Close() error
	// Read returns the next frame. The caller must close it.
	Read() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

type videoSource struct {
	target  any
	live    bool
	mu      sync.Mutex
	capture *gocv.VideoCapture
	fps     int
	fpsSet  bool
}

// NewCamera returns a Source reading from camera deviceID at 640x480.
func NewCamera(deviceID int) Source {
	return &videoSource{target: deviceID, live: true, fps: DefaultFPS}
}

// NewFile returns a Source reading the video or image sequence at path.
// Read returns ErrEndOfStream once the file is exhausted.
func NewFile(path string) Source {
	return &videoSource{target: path, fps: DefaultFPS}
}

func (s *videoSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(s.target)
	if err != nil {
		return fmt.Errorf("open %v: %w", s.target, err)
	}

	if s.live {
		vc.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
		vc.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
		vc.Set(gocv.VideoCaptureFPS, float64(s.fps))
	} else if fps := int(vc.Get(gocv.VideoCaptureFPS)); fps > 0 && !s.fpsSet {
		s.fps = fps
	}

	s.capture = vc
	return nil
}

func (s *videoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil
	}
	err := s.capture.Close()
	s.capture = nil
	return err
}

func (s *videoSource) Read() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil, ErrNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		if !s.live {
			return nil, ErrEndOfStream
		}
		return nil, errors.New("failed to read frame from camera")
	}
	return &mat, nil
}

// SetFPS ignores values <= 0. A rate set before Open takes precedence over
// the rate recorded in a file.
func (s *videoSource) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fps = fps
	s.fpsSet = true
	if s.capture != nil && s.live {
		s.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (s *videoSource) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

func (s *videoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture != nil
}

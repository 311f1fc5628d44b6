package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame differencing parameters.
const (
	blurKernel    = 21
	diffThreshold = 25
)

// ChangeDetector reports whether a frame differs enough from the last
// frame it accepted. The first frame always counts as changed.
type ChangeDetector struct {
	mu        sync.Mutex
	minChange float64
	last      gocv.Mat
	primed    bool
}

// NewChangeDetector creates a detector that accepts frames in which more than
// minChange percent of pixels moved.
func NewChangeDetector(minChange float64) *ChangeDetector {
	return &ChangeDetector{minChange: minChange, last: gocv.NewMat()}
}

// Changed compares frame with the last accepted frame and returns whether it
// changed along with the percentage of changed pixels. Accepted frames become
// the new reference; rejected ones do not, so slow drift still adds up.
func (d *ChangeDetector) Changed(frame *gocv.Mat) (bool, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)

	if !d.primed || blurred.Rows() != d.last.Rows() || blurred.Cols() != d.last.Cols() {
		blurred.CopyTo(&d.last)
		d.primed = true
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, d.last, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, diffThreshold, 255, gocv.ThresholdBinary)

	percent := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	if percent <= d.minChange {
		return false, percent
	}
	blurred.CopyTo(&d.last)
	return true, percent
}

// Reset forgets the reference frame.
func (d *ChangeDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primed = false
}

// Close releases the reference frame.
func (d *ChangeDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last.Close()
	d.last = gocv.NewMat()
	d.primed = false
}

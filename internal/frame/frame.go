// Package frame turns OpenCV images into pose engine input.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Encoding is the compressed format an Image carries.
type Encoding string

// Supported encodings.
const (
	PNG  Encoding = "png"
	JPEG Encoding = "jpeg"
)

// ErrEmptyFrame is returned for a Mat with no pixels.
var ErrEmptyFrame = errors.New("frame is empty")

// Image is an encoded frame ready to send to the engine. It marshals as
// {"$image":{...}} so a bridge can rebuild a pixel source from it.
type Image struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Encoding Encoding `json:"encoding"`
	Data     []byte   `json:"data"`
}

func (e Encoding) ext() (gocv.FileExt, error) {
	switch e {
	case PNG, "":
		return gocv.PNGFileExt, nil
	case JPEG:
		return gocv.JPEGFileExt, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", e)
}

// FromMat encodes m. An empty encoding means PNG.
func FromMat(m gocv.Mat, enc Encoding) (*Image, error) {
	if m.Empty() {
		return nil, ErrEmptyFrame
	}
	ext, err := enc.ext()
	if err != nil {
		return nil, err
	}
	if enc == "" {
		enc = PNG
	}

	buf, err := gocv.IMEncode(ext, m)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	return &Image{
		Width:    m.Cols(),
		Height:   m.Rows(),
		Encoding: enc,
		Data:     data,
	}, nil
}

// Read loads the image file at path and encodes it.
func Read(path string, enc Encoding) (*Image, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	defer m.Close()
	if m.Empty() {
		return nil, fmt.Errorf("read %s: %w", path, ErrEmptyFrame)
	}
	return FromMat(m, enc)
}

// MarshalJSON wraps the image in its {"$image":...} envelope.
func (i *Image) MarshalJSON() ([]byte, error) {
	type plain Image
	return json.Marshal(map[string]*plain{"$image": (*plain)(i)})
}

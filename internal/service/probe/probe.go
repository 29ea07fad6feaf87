package probe

import (
	"fmt"

	"gocv.io/x/gocv"
)

// FrameProbe reads basic properties of an encoded camera frame.
type FrameProbe struct{}

func NewFrameProbe() *FrameProbe {
	return &FrameProbe{}
}

// Dimensions decodes the frame and returns its width and height in pixels.
func (p *FrameProbe) Dimensions(imageBytes []byte) (int, int, error) {
	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadUnchanged)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return 0, 0, fmt.Errorf("decoded image is empty")
	}

	return mat.Cols(), mat.Rows(), nil
}

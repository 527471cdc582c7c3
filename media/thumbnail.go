package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ThumbnailGenerator produces a fixed-size encoded preview from an image
// file. Failures are non-fatal to callers; a photo without a thumbnail is
// still a valid catalog entry.
type ThumbnailGenerator interface {
	Generate(filePath string, maxSize int) ([]byte, error)
}

// ImagingGenerator resizes with the imaging package and encodes JPEG bytes.
type ImagingGenerator struct{}

func NewImagingGenerator() *ImagingGenerator {
	return &ImagingGenerator{}
}

func (g *ImagingGenerator) Generate(filePath string, maxSize int) ([]byte, error) {
	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("thumbnail: failed to open image %s: %w", filePath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("thumbnail: failed to encode thumbnail for %s: %w", filePath, err)
	}
	return buf.Bytes(), nil
}

package media

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata holds the fields the importer can derive from an image file.
// Every field is optional; files without EXIF blocks simply produce fewer
// fields.
type Metadata struct {
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	TakenAt *int64 `json:"taken_at,omitempty"` // Unix timestamp
	Raw     []byte `json:"-"`                  // raw EXIF fields, JSON-encoded
}

// Extractor derives capture metadata from an image file. An error means the
// file itself could not be read; a readable file that merely lacks EXIF data
// returns a Metadata with empty fields and no error.
type Extractor interface {
	Extract(filePath string) (*Metadata, error)
}

// ExifExtractor reads dimensions via image.DecodeConfig and capture
// timestamps via goexif.
type ExifExtractor struct{}

func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

func (e *ExifExtractor) Extract(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	var width, height *int
	config, _, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		width = &w
		height = &h
	} else {
		log.Printf("metadata: could not decode dimensions of %s: %v", filePath, err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	meta := &Metadata{Width: width, Height: height}

	exifData, err := exif.Decode(file)
	if err != nil {
		// not fatal, the file might just lack EXIF data
		log.Printf("metadata: no EXIF data found for %s: %v", filePath, err)
		return meta, nil
	}

	if raw, err := exifData.MarshalJSON(); err == nil {
		meta.Raw = raw
	}

	if dt, err := exifData.DateTime(); err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	} else {
		log.Printf("metadata: could not read DateTimeOriginal for %s: %v", filePath, err)
	}

	return meta, nil
}

package media

import (
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// supported catalog formats: JPEG, PNG, HEIC and TIFF
var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".heif": true, ".tif": true, ".tiff": true,
}

// IsSupportedImage checks if the filename has a catalogable image extension
func IsSupportedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

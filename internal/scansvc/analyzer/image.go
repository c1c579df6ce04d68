package analyzer

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Image is one photo handed to the model.
type Image struct {
	Filename string
	MimeType string
	Data     []byte
}

// NewImage validates an upload by extension and sniffed content and returns
// it with a detected MIME type.
func NewImage(filename string, data []byte, maxBytes int64) (Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return Image{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedImage)
	}

	if len(data) == 0 {
		return Image{}, fmt.Errorf("%s is empty: %w", filename, ErrUnsupportedImage)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, fmt.Errorf("%s (%d bytes): %w", filename, len(data), ErrImageTooLarge)
	}

	mime := http.DetectContentType(data)
	switch mime {
	case "image/jpeg", "image/png":
	default:
		return Image{}, fmt.Errorf("%s detected as %s: %w", filename, mime, ErrUnsupportedImage)
	}

	return Image{Filename: filename, MimeType: mime, Data: data}, nil
}

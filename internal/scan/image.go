package scan

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxPayloadBytes caps the base64 image sent to the scanning service.
const MaxPayloadBytes = 8 << 20

const (
	defaultMediaType = "image/jpeg"
	jpegQuality      = 80
	maxResizeSteps   = 6
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is a base64-encoded picture of a receipt.
type Image struct {
	Data      string `json:"image"`
	MediaType string `json:"mediaType"`
}

// NormalizeMediaType returns mediaType if the service accepts it, image/jpeg otherwise.
func NormalizeMediaType(mediaType string) string {
	if allowedMediaTypes[mediaType] {
		return mediaType
	}
	return defaultMediaType
}

// PrepareImage encodes raw for the scanning service. Images whose base64 form
// exceeds limit are downscaled and re-encoded as JPEG until they fit.
func PrepareImage(raw []byte, mediaType string, limit int) (Image, error) {
	if len(raw) == 0 {
		return Image{}, ErrInvalidImage
	}
	if base64.StdEncoding.EncodedLen(len(raw)) <= limit {
		return Image{
			Data:      base64.StdEncoding.EncodeToString(raw),
			MediaType: NormalizeMediaType(mediaType),
		}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	width := img.Bounds().Dx()
	for step := 0; step < maxResizeSteps && width > 1; step++ {
		width = width * 3 / 4
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return Image{}, fmt.Errorf("failed to encode resized image: %w", err)
		}
		if base64.StdEncoding.EncodedLen(buf.Len()) <= limit {
			return Image{
				Data:      base64.StdEncoding.EncodeToString(buf.Bytes()),
				MediaType: defaultMediaType,
			}, nil
		}
	}
	return Image{}, ErrPayloadTooLarge
}

// DecodeImage decodes a base64 image received from a client and prepares it
// for the scanning service. A "data:...;base64," prefix is accepted.
func DecodeImage(data, mediaType string, limit int) (Image, error) {
	if strings.HasPrefix(data, "data:") {
		if i := strings.IndexByte(data, ','); i >= 0 {
			data = data[i+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return PrepareImage(raw, mediaType, limit)
}

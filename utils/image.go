package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidImage = errors.New("image must be a base64 encoded data URI")

var allowedImageTypes = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// DecodeImageDataURI decodes "data:image/<type>;base64,<payload>".
// It returns the bytes, the file extension and the content type.
func DecodeImageDataURI(uri string) ([]byte, string, string, error) {
	header, payload, ok := strings.Cut(uri, ";base64,")
	if !ok {
		return nil, "", "", ErrInvalidImage
	}
	format, ok := strings.CutPrefix(header, "data:image/")
	if !ok {
		return nil, "", "", ErrInvalidImage
	}
	ext, ok := allowedImageTypes[strings.ToLower(format)]
	if !ok {
		return nil, "", "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, "", "", ErrInvalidImage
	}
	return data, ext, "image/" + strings.ToLower(format), nil
}

package core

import "strings"

// MIME types recognized by SniffMIMEType.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEWebP = "image/webp"
)

// StripDataURL removes a data-URL prefix ("data:image/png;base64,...") from
// an encoded image, returning the bare base64 payload. Input without a
// prefix is returned unchanged.
func StripDataURL(image string) string {
	if i := strings.IndexByte(image, ','); i >= 0 && strings.HasPrefix(image, "data:") {
		return image[i+1:]
	}
	return image
}

// SniffMIMEType infers the image content type from the leading characters
// of the base64 payload, which encode the file's magic bytes. Unrecognized
// payloads default to JPEG.
func SniffMIMEType(base64Data string) string {
	switch {
	case strings.HasPrefix(base64Data, "/9j/"):
		return MIMEJPEG
	case strings.HasPrefix(base64Data, "iVBOR"):
		return MIMEPNG
	case strings.HasPrefix(base64Data, "R0lGOD"):
		return MIMEGIF
	case strings.HasPrefix(base64Data, "UklGR"):
		return MIMEWebP
	default:
		return MIMEJPEG
	}
}

// EstimateDecodedSize returns the approximate decoded byte size of a base64
// payload (encoded length × 3/4). Good enough for enforcing upload limits
// without decoding.
func EstimateDecodedSize(base64Data string) int {
	return len(base64Data) * 3 / 4
}

package handler

import "bytes"

// MaxPhotoSize is the upload limit for photos. Files exactly at the boundary
// are accepted.
const MaxPhotoSize = 5 * 1024 * 1024

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// detectImageExt identifies the true image format from the leading bytes,
// ignoring whatever content type the client declared. It returns the file
// extension to store the upload under, or ok=false for anything that is not
// a JPEG or PNG.
func detectImageExt(data []byte) (ext string, ok bool) {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return ".jpg", true
	case bytes.HasPrefix(data, pngMagic):
		return ".png", true
	default:
		return "", false
	}
}

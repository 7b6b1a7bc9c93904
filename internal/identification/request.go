package identification

import "strings"

// MaxImageBytes is the largest accepted image payload.
const MaxImageBytes = 10 << 20

// ImageSource names where the photograph comes from. Exactly one field is used,
// checked in the order Bytes, Path, URL.
type ImageSource struct {
	Bytes []byte
	// Path is a caller-owned local file; it is never deleted.
	Path string
	// URL is fetched into a transient file that is removed before Identify returns.
	URL string
}

// FromBytes wraps raw image bytes.
func FromBytes(data []byte) ImageSource { return ImageSource{Bytes: data} }

// FromPath wraps a caller-owned local file.
func FromPath(path string) ImageSource { return ImageSource{Path: path} }

// FromURL wraps a remote image.
func FromURL(url string) ImageSource { return ImageSource{URL: url} }

func (s ImageSource) kind() string {
	switch {
	case len(s.Bytes) > 0:
		return "bytes"
	case strings.TrimSpace(s.Path) != "":
		return "path"
	case strings.TrimSpace(s.URL) != "":
		return "url"
	default:
		return ""
	}
}

// Request is one identification call.
type Request struct {
	Image   ImageSource
	Organ   Organ
	Project string
}

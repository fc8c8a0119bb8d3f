package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned when an inline image cannot be decoded.
var ErrInvalidDataURI = errors.New("imagegen: invalid image data URI")

// Artifact is a processed campaign image ready for embedding.
//
// When the image was persisted to storage, URL holds its public address and
// templates reference that. Otherwise the image travels inline as a base64
// data URI.
type Artifact struct {
	Data []byte
	MIME string
	URL  string
}

// DataURI returns the image as an inline base64 data URI.
func (a *Artifact) DataURI() string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Ref returns the reference to embed in HTML: the public URL when the image
// was persisted, or the inline data URI otherwise.
func (a *Artifact) Ref() string {
	if a.URL != "" {
		return a.URL
	}
	return a.DataURI()
}

// Ext returns the file extension for the artifact's MIME type.
func (a *Artifact) Ext() string {
	switch a.MIME {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// ParseDataURI decodes an inline base64 image data URI into an Artifact.
// Only image/* media types are accepted.
func ParseDataURI(uri string) (*Artifact, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	mime, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" || !strings.HasPrefix(mime, "image/") {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return &Artifact{Data: data, MIME: mime}, nil
}

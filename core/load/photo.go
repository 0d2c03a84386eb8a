package load

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gaurav-prasanna/rostercard/core"
)

// MaxPhotoSize bounds the pictures embedded in a card.
const MaxPhotoSize = 1 << 20

// photoTypes maps sniffed media types to vCard TYPE values.
var photoTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

// PhotoDir reads photos referenced relative to a directory, the way a
// browser resolves img sources in a saved page.
type PhotoDir string

// Photo reads the picture at ref. The type is taken from the file's
// content, not its name, since saved pages often keep the portal's
// extensionless image URLs.
func (d PhotoDir) Photo(ref string) (core.Photo, error) {
	path, err := resolve(string(d), ref)
	if err != nil {
		return core.Photo{}, fmt.Errorf("photo %q: %w", ref, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return core.Photo{}, fmt.Errorf("photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return core.Photo{}, fmt.Errorf("photo %s: %w", path, err)
	}
	if len(data) == 0 {
		return core.Photo{}, fmt.Errorf("photo %s: empty file", path)
	}
	if len(data) > MaxPhotoSize {
		return core.Photo{}, fmt.Errorf("photo %s: larger than %d bytes", path, MaxPhotoSize)
	}

	media, _, _ := strings.Cut(http.DetectContentType(data), ";")
	typ, ok := photoTypes[media]
	if !ok {
		return core.Photo{}, fmt.Errorf("photo %s: unsupported content type %s", path, media)
	}
	return core.Photo{Ref: ref, Type: typ, Data: data}, nil
}

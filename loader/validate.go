// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

var audioMediaType = regexp.MustCompile(`^audio/[a-z0-9.+-]+$`)

// Validate checks the metadata of a source before any payload is decoded.
// Media type parameters such as codecs or charset are ignored.
func Validate(mimeType string, size int64) error {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return fmt.Errorf("%w: media type %q: %w", ErrInvalidSource, mimeType, err)
	}

	if !audioMediaType.MatchString(mt) {
		return fmt.Errorf("%w: media type %q is not audio", ErrInvalidSource, mt)
	}

	if size <= 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidSource)
	}

	return nil
}

// extensionTypes covers the containers the decoders understand. The system
// mime tables disagree on several of them (audio/x-wav, application/ogg).
var extensionTypes = map[string]string{
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
	".aifc": "audio/aiff",
}

// DetectType guesses a media type from a file name and, failing that, from
// the first bytes of content.
func DetectType(name string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}

	if mt := mime.TypeByExtension(ext); ext != "" && mt != "" {
		return mt
	}

	if len(head) == 0 {
		return ""
	}

	mt := http.DetectContentType(head)
	if strings.HasPrefix(mt, "application/ogg") {
		return "audio/ogg"
	}

	return mt
}

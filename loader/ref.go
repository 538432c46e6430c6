// SPDX-License-Identifier: EPL-2.0

package loader

import "strings"

// Ref identifies where audio comes from. It is implemented by File, Blob
// and URL only.
type Ref interface {
	// Name is the identifier exposed as the player's source: a path, a
	// blob name or a URL.
	Name() string
	isRef()
}

// File is a local file. MIMEType overrides detection when set.
type File struct {
	Path     string
	MIMEType string
}

// Blob is an in-memory file handle, the equivalent of a picked file.
type Blob struct {
	Filename string
	MIMEType string
	Data     []byte
}

// URL is an http or https location.
type URL string

func (f File) Name() string { return f.Path }
func (b Blob) Name() string { return b.Filename }
func (u URL) Name() string  { return string(u) }

func (File) isRef() {}
func (Blob) isRef() {}
func (URL) isRef()  {}

// Parse maps http and https strings to URL and everything else to File.
func Parse(s string) Ref {
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return URL(strings.TrimSpace(s))
	}

	return File{Path: s}
}

// Kind tells local sources apart from remote ones.
type Kind int

const (
	Offline Kind = iota
	Online
)

func (k Kind) String() string {
	if k == Online {
		return "online"
	}
	return "offline"
}

// KindOf reports whether ref is fetched over the network.
func KindOf(ref Ref) Kind {
	if _, ok := ref.(URL); ok {
		return Online
	}
	return Offline
}

package source

import (
	"net/url"
	"path/filepath"
	"strings"
)

// RefKind says how a Ref is fetched.
type RefKind int

const (
	RefLocal RefKind = iota // A plain filesystem path.
	RefFile                 // A file:// URI.
	RefHTTP                 // An http:// or https:// URI.
)

// Ref is a resolved reference to a text source.
type Ref struct {
	Kind RefKind
	Raw  string // The reference as given by the user.
	Path string // Filesystem path for RefLocal and RefFile.
	URL  string // Absolute URL for RefHTTP.
}

// String returns the path for local references and the URL for remote ones.
func (r Ref) String() string {
	if r.Kind == RefHTTP {
		return r.URL
	}
	return r.Path
}

// ParseRef resolves raw into a Ref. Relative paths are joined to baseDir. A file:// URI resolves to its authority followed by its path (file://host/x -> host/x;
// file:///x -> /x). Schemes other than file, http, and https yield an *UnsupportedReferenceError.
func ParseRef(raw, baseDir string) (Ref, error) {
	if strings.TrimSpace(raw) == "" {
		return Ref{}, &UnsupportedReferenceError{Raw: raw, Reason: "empty reference"}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || isDriveLetter(u.Scheme) {
		return Ref{Kind: RefLocal, Raw: raw, Path: resolvePath(raw, baseDir)}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		p := u.Host + u.Path
		if p == "" {
			// file:relative/path is opaque.
			p = u.Opaque
		}
		if p == "" {
			return Ref{}, &UnsupportedReferenceError{Raw: raw, Reason: "no path"}
		}
		return Ref{Kind: RefFile, Raw: raw, Path: resolvePath(filepath.FromSlash(p), baseDir)}, nil
	case "http", "https":
		if u.Host == "" {
			return Ref{}, &UnsupportedReferenceError{Raw: raw, Reason: "no host"}
		}
		return Ref{Kind: RefHTTP, Raw: raw, URL: u.String()}, nil
	default:
		return Ref{}, &UnsupportedReferenceError{Raw: raw}
	}
}

func resolvePath(p, baseDir string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// isDriveLetter reports whether scheme is really a Windows drive letter ("C:\x" parses with scheme "c").
func isDriveLetter(scheme string) bool {
	return len(scheme) == 1
}

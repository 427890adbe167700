// Package media copies picked audio files into the app-private clip directory
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultExt is used when a picked file has no extension
const DefaultExt = "m4a"

// Sentinel errors
var (
	ErrNoFile     = errors.New("no file selected")
	ErrNotInVault = errors.New("uri is outside the clip directory")
)

// FileRef is a picked or copied file: original display name plus durable location
type FileRef struct {
	Name string
	URI  string
}

// Vault owns the clip directory
type Vault struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewVault creates dir if needed
func NewVault(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve clip directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create clip directory: %w", err)
	}
	return &Vault{dir: abs, now: time.Now}, nil
}

// Dir returns the absolute clip directory
func (v *Vault) Dir() string { return v.dir }

// Copy duplicates src into the vault as audio-<unix-millis>.<ext>
// The returned ref keeps the original base name for display
func (v *Vault) Copy(src string) (FileRef, error) {
	if strings.TrimSpace(src) == "" {
		return FileRef{}, ErrNoFile
	}

	in, err := os.Open(src)
	if err != nil {
		return FileRef{}, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return FileRef{}, fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("%s is a directory", src)
	}

	dst := filepath.Join(v.dir, v.destName(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return FileRef{}, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return FileRef{}, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return FileRef{}, fmt.Errorf("copy %s: %w", src, err)
	}

	return FileRef{Name: filepath.Base(src), URI: PathToURI(dst)}, nil
}

// destName derives a unique audio-<millis>.<ext> name; millis is bumped on collision
func (v *Vault) destName(src string) string {
	ext := strings.TrimPrefix(filepath.Ext(src), ".")
	if ext == "" {
		ext = DefaultExt
	}

	v.mu.Lock()
	ms := v.now().UnixMilli()
	if ms <= v.last {
		ms = v.last + 1
	}
	v.last = ms
	v.mu.Unlock()

	return fmt.Sprintf("audio-%d.%s", ms, strings.ToLower(ext))
}

// Exists reports whether the file behind uri is present
func (v *Vault) Exists(uri string) (bool, error) {
	path, err := URIToPath(uri)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Remove deletes the file behind uri; missing files are not an error
// Only files inside the vault are removed
func (v *Vault) Remove(uri string) error {
	path, err := URIToPath(uri)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(v.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: %s", ErrNotInVault, uri)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// PathToURI converts an absolute path to a file:// URI
func PathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIToPath accepts file:// URIs and bare paths
func URIToPath(uri string) (string, error) {
	if !strings.Contains(uri, "://") {
		if uri == "" {
			return "", ErrNoFile
		}
		return filepath.Clean(uri), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// DisplayName strips directory and extension from a picked file name
func DisplayName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

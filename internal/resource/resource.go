// Package resource locates read-only assets (fonts, images, properties files)
// by name. Fonts and images live under the fixed "res/" prefix; properties
// files are looked up by their bare name.
package resource

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
)

// Prefix is the directory every font and image resource lives in.
const Prefix = "res"

// DefaultFont is the bundled TrueType font name.
const DefaultFont = "GoBold.ttf"

// ErrNotFound is returned when no loader has the requested resource.
var ErrNotFound = errors.New("resource not found")

// Loader opens a named resource for reading.
type Loader interface {
	Open(name string) (io.ReadCloser, error)
}

// Entry describes a resource known to a Lister.
type Entry struct {
	Name   string
	Source string
}

// Lister is implemented by loaders that can enumerate their resources.
type Lister interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// Path returns the resource name for an asset under the fixed prefix.
func Path(name string) string {
	return path.Join(Prefix, name)
}

// ReadAll opens name through l and returns its full contents.
func ReadAll(l Loader, name string) ([]byte, error) {
	rc, err := l.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Dir serves resources from a directory on disk.
type Dir struct {
	Root string
}

// Open implements Loader.
func (d Dir) Open(name string) (io.ReadCloser, error) {
	f, err := os.DirFS(d.Root).Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, notFound(name)
		}
		return nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return f, nil
}

// Entries walks the asset directory below the root and lists every regular
// file in it.
func (d Dir) Entries(ctx context.Context) ([]Entry, error) {
	root := filepath.Join(d.Root, Prefix)
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return nil, nil
	}
	var (
		mu      sync.Mutex
		entries []Entry
	)
	conf := fastwalk.DefaultConfig
	err := fastwalk.Walk(&conf, root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if de.IsDir() {
			if strings.HasPrefix(de.Name(), ".") && p != root {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(d.Root, p)
		if err != nil {
			return nil
		}
		mu.Lock()
		entries = append(entries, Entry{Name: filepath.ToSlash(rel), Source: d.Root})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Files opens names as operating system paths, absolute or relative to the
// working directory.
type Files struct{}

// Open implements Loader.
func (Files) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.FromSlash(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return f, nil
}

//go:embed res typingthrower.config
var bundled embed.FS

type builtin struct{}

// Builtin returns the loader for assets compiled into the binary.
func Builtin() Loader { //nolint:ireturn
	return builtin{}
}

func (builtin) Open(name string) (io.ReadCloser, error) {
	if name == Path(DefaultFont) {
		return io.NopCloser(bytes.NewReader(gobold.TTF)), nil
	}
	f, err := bundled.Open(name)
	if err != nil {
		return nil, notFound(name)
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return f, nil
}

func (builtin) Entries(_ context.Context) ([]Entry, error) {
	entries := []Entry{{Name: Path(DefaultFont), Source: "builtin"}}
	err := fs.WalkDir(bundled, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			entries = append(entries, Entry{Name: p, Source: "builtin"})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// Chain tries each loader in order and returns the first hit.
type Chain []Loader

// Open implements Loader. A missing resource moves on to the next loader;
// any other failure stops the search.
func (c Chain) Open(name string) (io.ReadCloser, error) {
	for _, l := range c {
		rc, err := l.Open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	logrus.Debugf("resource %s not found in %d loaders", name, len(c))
	return nil, notFound(name)
}

// Entries merges the listings of every loader that supports it. When a name
// is served by several loaders, the one that Open would use wins.
func (c Chain) Entries(ctx context.Context) ([]Entry, error) {
	seen := make(map[string]struct{})
	var out []Entry
	for _, l := range c {
		lister, ok := l.(Lister)
		if !ok {
			continue
		}
		entries, err := lister.Entries(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if _, dup := seen[e.Name]; dup {
				continue
			}
			seen[e.Name] = struct{}{}
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// Default builds the standard lookup order: the given directories, then the
// working directory, then the built-in bundle.
func Default(dirs ...string) Chain {
	chain := make(Chain, 0, len(dirs)+2)
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		chain = append(chain, Dir{Root: d})
	}
	return append(chain, Dir{Root: "."}, Builtin())
}

// Counting wraps a Loader and counts Open calls.
type Counting struct {
	Loader Loader
	opens  atomic.Int64
}

// Open implements Loader.
func (c *Counting) Open(name string) (io.ReadCloser, error) {
	c.opens.Add(1)
	return c.Loader.Open(name)
}

// Opens reports how many times Open was called.
func (c *Counting) Opens() int {
	return int(c.opens.Load())
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}

// Package config holds the typingthrower settings loaded from a Java-style
// properties resource.
//
// A Store is created once at process start and handed to whatever needs
// settings. The backing resource is read at most once per Store, either by an
// explicit Load or lazily by the first accessor. In-memory overrides made
// with Set are never written back unless SaveAll is called.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/magiconair/properties"
	"github.com/sirupsen/logrus"

	"github.com/typingthrower/overlay/internal/resource"
)

// savedTimeLayout is the timestamp written in the SaveAll comment line.
const savedTimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// Store is a mutex-guarded key/value settings cache.
type Store struct {
	loader resource.Loader
	name   string
	now    func() time.Time

	mu     sync.Mutex
	props  *properties.Properties
	loaded bool
	err    error
}

// New returns a Store reading the properties resource name through l.
// Nothing is read until Load or the first accessor.
func New(l resource.Loader, name string) *Store {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return &Store{loader: l, name: name, now: time.Now}
}

// ResolveName picks the properties resource name: an explicit override
// (e.g. a command-line flag) first, then the OverrideEnv environment
// variable, then DefaultName.
func ResolveName(override string) string {
	return resolveName(override, os.Getenv)
}

func resolveName(override string, getenv func(string) string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	for _, env := range []string{OverrideEnv, strings.ToUpper(OverrideEnv)} {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			return v
		}
	}
	return DefaultName
}

// Name returns the properties resource name.
func (s *Store) Name() string { return s.name }

// Load reads the properties resource. Only the first call performs I/O;
// later calls return the first call's result. When the resource cannot be
// read or parsed the store stays usable and empty, and the error is logged
// and returned.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Err returns the load error, if any. It does not trigger a load.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loaded reports whether the backing resource has been read.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return s.err
	}
	s.loaded = true
	s.props = emptyProperties()

	log := logrus.WithField("properties", s.name)
	log.Debug("loading properties")

	data, err := resource.ReadAll(s.loader, s.name)
	if err != nil {
		log.WithError(err).Error("couldn't load properties")
		s.err = fmt.Errorf("load properties %s: %w", s.name, err)
		return s.err
	}

	// Files are ISO-8859-1; surrogate pair escapes are joined before parsing
	// because the parser decodes each \uXXXX on its own.
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(decodeLatin1(data))
	if err != nil {
		log.WithError(err).Error("couldn't parse properties")
		s.err = fmt.Errorf("parse properties %s: %w", s.name, err)
		return s.err
	}
	s.props = p
	log.Debugf("loaded %d properties", p.Len())
	return nil
}

func emptyProperties() *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	return p
}

// Get returns the value stored for key, or "" when it is unknown.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.loadLocked()
	v, _ := s.props.Get(key)
	return v
}

// Property returns the value of a recognised key, or "".
func (s *Store) Property(k Key) string {
	return s.Get(string(k))
}

// Set overrides key in memory for the lifetime of the store. The empty key
// is not stored: Set logs a warning and Get("") stays "".
func (s *Store) Set(key, value string) {
	if key == "" {
		logrus.Warn("ignoring property with an empty key")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.loadLocked()
	// Expansion is disabled, so Set cannot fail on a reference cycle.
	if _, _, err := s.props.Set(key, value); err != nil {
		logrus.WithError(err).Warnf("couldn't set property %s", key)
	}
}

// Put overrides a recognised key in memory.
func (s *Store) Put(k Key, value string) {
	s.Set(string(k), value)
}

// Keys returns every key currently held, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.loadLocked()
	keys := append([]string(nil), s.props.Keys()...)
	sort.Strings(keys)
	return keys
}

// All returns a copy of every key/value pair.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.loadLocked()
	return s.props.Map()
}

// WriteTo writes every pair, overrides included, as "key=value" lines
// sorted by key, preceded by one comment line carrying the current time.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	_ = s.loadLocked()
	keys := append([]string(nil), s.props.Keys()...)
	values := s.props.Map()
	s.mu.Unlock()
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "#properties saved on %s\n", s.now().Format(savedTimeLayout))
	for _, k := range keys {
		b.WriteString(escape(k, true))
		b.WriteByte('=')
		b.WriteString(escape(values[k], false))
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// SaveAll writes the store to filename in the WriteTo format. Failures are
// logged and returned.
func (s *Store) SaveAll(filename string) error {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return fmt.Errorf("save properties: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o600); err != nil {
		logrus.WithError(err).Errorf("error saving properties to %s", filename)
		return fmt.Errorf("save properties: %w", err)
	}
	logrus.Debugf("saved %d properties to %s", bytes.Count(buf.Bytes(), []byte("\n"))-1, filename)
	return nil
}

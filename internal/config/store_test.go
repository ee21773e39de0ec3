//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typingthrower/overlay/internal/resource"
	"github.com/typingthrower/overlay/internal/validate"
)

func writeProps(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveName(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, DefaultName, resolveName("", getenv))

	env["PROPERTIES"] = "upper.config"
	assert.Equal(t, "upper.config", resolveName("", getenv))

	env["properties"] = "testing.properties"
	assert.Equal(t, "testing.properties", resolveName("  ", getenv))

	assert.Equal(t, "flag.config", resolveName("flag.config", getenv))
}

func TestResolveName_Environment(t *testing.T) {
	t.Setenv("properties", "from-env.config")
	assert.Equal(t, "from-env.config", ResolveName(""))
	assert.Equal(t, "explicit.config", ResolveName("explicit.config"))
}

func TestNew_DefaultsName(t *testing.T) {
	assert.Equal(t, DefaultName, New(resource.Builtin(), "").Name())
}

func TestStore_BundledDefaults(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)
	require.NoError(t, s.Load())

	assert.Equal(t, "54333", s.Property(ServerPort))
	assert.Equal(t, "127.0.0.1", s.Property(ServerAddress))
	assert.Equal(t, "jdbc:mysql://localhost:3306/typingthrower", s.Property(DatabaseURL))
	assert.Empty(t, s.Property(DatabasePassword))

	st := s.Settings()
	require.NoError(t, st.Validate())
	assert.Equal(t, "127.0.0.1:54333", st.ServerEndpoint())

	for _, k := range KnownKeys() {
		assert.Contains(t, s.Keys(), k.String())
	}
}

func TestStore_ParsesPropertiesSyntax(t *testing.T) {
	path := writeProps(t, strings.Join([]string{
		"# comment",
		"! also a comment",
		"server.addr : game.example.com",
		"server.port 4444",
		"jdbc.url=jdbc:mysql://db/game?useSSL=false",
		"multi=one \\",
		"    two",
		"unicode=caf\\u00e9",
		"expansion=${server.port}",
		"",
	}, "\n"))

	s := New(resource.Files{}, path)
	require.NoError(t, s.Load())

	assert.Equal(t, "game.example.com", s.Get("server.addr"))
	assert.Equal(t, "4444", s.Get("server.port"))
	assert.Equal(t, "jdbc:mysql://db/game?useSSL=false", s.Property(DatabaseURL))
	assert.Equal(t, "one two", s.Get("multi"))
	assert.Equal(t, "café", s.Get("unicode"))
	assert.Equal(t, "${server.port}", s.Get("expansion"), "no ${} expansion")
}

func TestStore_GetUnknownIsEmpty(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)
	assert.Empty(t, s.Get("no.such.key"))
	assert.Empty(t, s.Get(""))
}

func TestStore_SetThenGet(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)

	s.Set("brand.new", "value")
	assert.Equal(t, "value", s.Get("brand.new"))

	s.Put(ServerPort, "9000")
	assert.Equal(t, "9000", s.Property(ServerPort))

	// The bundled resource is untouched by overrides.
	fresh := New(resource.Builtin(), DefaultName)
	assert.Equal(t, "54333", fresh.Property(ServerPort))
	assert.Empty(t, fresh.Get("brand.new"))
}

func TestStore_LoadsOnce(t *testing.T) {
	counter := &resource.Counting{Loader: resource.Builtin()}
	s := New(counter, DefaultName)
	assert.False(t, s.Loaded())

	_ = s.Get(string(ServerAddress))
	s.Set("k", "v")
	_ = s.Keys()
	_ = s.All()
	require.NoError(t, s.Load())
	require.NoError(t, s.Load())

	assert.True(t, s.Loaded())
	assert.Equal(t, 1, counter.Opens())
}

func TestStore_MissingResourceIsEmpty(t *testing.T) {
	counter := &resource.Counting{Loader: resource.Builtin()}
	s := New(counter, "absent.config")

	err := s.Load()
	require.ErrorIs(t, err, resource.ErrNotFound)
	require.ErrorIs(t, s.Load(), resource.ErrNotFound, "the first result is remembered")
	require.ErrorIs(t, s.Err(), resource.ErrNotFound)

	assert.Empty(t, s.Get(string(ServerPort)))
	assert.Empty(t, s.Keys())

	s.Set("k", "v")
	assert.Equal(t, "v", s.Get("k"))
	assert.Equal(t, 1, counter.Opens())
}

func TestStore_MalformedResource(t *testing.T) {
	path := writeProps(t, "broken=\\u12\n")
	s := New(resource.Files{}, path)
	require.Error(t, s.Load())
	assert.Empty(t, s.Keys())
}

func TestStore_SaveAllRoundTrip(t *testing.T) {
	path := writeProps(t, strings.Join([]string{
		"server.addr=10.0.0.7",
		"server.port=4444",
		"jdbc.password=p@ss=word:#1!",
		"",
	}, "\n"))

	s := New(resource.Files{}, path)
	fixed := time.Date(2026, time.October, 17, 20, 21, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.Set("odd key", " leading space")
	s.Set("multiline", "first\nsecond\tand a tab")
	s.Set("windows.path", `C:\games\typingthrower`)
	s.Set("latin", "naïve façade")
	s.Set("emoji", "go 🚀")
	s.Set("astral key 😀", "𝄞 clef")
	s.Set("empty", "")
	s.Put(ServerPort, "5555")

	out := filepath.Join(t.TempDir(), "saved.config")
	require.NoError(t, s.SaveAll(out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Equal(t, "#properties saved on "+fixed.Format(savedTimeLayout), lines[0])
	for _, line := range lines[1:] {
		assert.False(t, strings.HasPrefix(line, "#"), "only one comment line: %q", line)
		assert.Contains(t, line, "=")
	}
	assert.Contains(t, lines, "server.port=5555")
	assert.Contains(t, lines, `emoji=go \uD83D\uDE80`)

	reloaded := New(resource.Files{}, out)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, s.All(), reloaded.All())
	assert.Equal(t, s.Keys(), reloaded.Keys())
	assert.Equal(t, "go 🚀", reloaded.Get("emoji"))
	assert.Equal(t, "𝄞 clef", reloaded.Get("astral key 😀"))
}

func TestStore_ReadsJavaSurrogatePairs(t *testing.T) {
	path := writeProps(t, strings.Join([]string{
		"#Sat Oct 17 20:21:00 UTC 2026",
		`player.name=Ada \uD83D\uDE80`,
		`literal=\\uD83D\uDE80`,
		`latin=caf\u00E9`,
		"",
	}, "\n"))

	s := New(resource.Files{}, path)
	require.NoError(t, s.Load())
	assert.Equal(t, "Ada 🚀", s.Get("player.name"))
	assert.True(t, strings.HasPrefix(s.Get("literal"), `\uD83D`), "escaped backslash keeps the text literal")
	assert.Equal(t, "café", s.Get("latin"))
}

func TestStore_SetEmptyKeyIsIgnored(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	s := New(resource.Builtin(), DefaultName)
	before := s.Keys()
	s.Set("", "v")

	assert.Empty(t, s.Get(""))
	assert.Equal(t, before, s.Keys())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "empty key")
}

func TestStore_SaveAllFailure(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)
	err := s.SaveAll(filepath.Join(t.TempDir(), "missing", "dir", "out.config"))
	require.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)
	s.Put(ServerPort, "not-a-port")
	s.Put(DatabaseURL, "mysql://nope")

	err := s.Settings().Validate()
	require.Error(t, err)
	problems := strings.Join(validate.Problems(err), "\n")
	assert.Contains(t, problems, "server.port")
	assert.Contains(t, problems, "jdbc.url")

	assert.Empty(t, Settings{ServerAddress: "host"}.ServerEndpoint())
	assert.Equal(t, "[::1]:80", Settings{ServerAddress: "::1", ServerPort: "80"}.ServerEndpoint())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	counter := &resource.Counting{Loader: resource.Builtin()}
	s := New(counter, DefaultName)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "k" + strings.Repeat("x", i)
			s.Set(key, "v")
			_ = s.Get(key)
			_ = s.Keys()
			_ = s.All()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, counter.Opens())
	assert.Len(t, s.Keys(), len(KnownKeys())+16)
}

func TestStore_WriteTo(t *testing.T) {
	s := New(resource.Builtin(), DefaultName)
	fixed := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	var b strings.Builder
	n, err := s.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.Equal(t, "#properties saved on Fri Jan 02 03:04:05 UTC 2026", lines[0])
	assert.Equal(t, []string{
		"characterEncoding=UTF-8",
		"jdbc.drivers=com.mysql.jdbc.Driver",
		"jdbc.password=",
		`jdbc.url=jdbc\:mysql\://localhost\:3306/typingthrower`,
		"jdbc.user=typingthrower",
		"server.addr=127.0.0.1",
		"server.port=54333",
	}, lines[1:])
}

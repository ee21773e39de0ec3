//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  bool
		want string
	}{
		{"plain", "server.addr", true, "server.addr"},
		{"key spaces", "odd key", true, `odd\ key`},
		{"value inner spaces", "a b", false, "a b"},
		{"value leading space", " a", false, `\ a`},
		{"separators", "a=b:c", false, `a\=b\:c`},
		{"comment markers", "#!", false, `\#\!`},
		{"backslash", `C:\x`, false, `C\:\\x`},
		{"controls", "a\tb\nc\rd\fe", false, `a\tb\nc\rd\fe`},
		{"latin1", "é", false, `\u00E9`},
		{"astral", "😀", false, `\uD83D\uDE00`},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escape(tt.in, tt.key))
		})
	}
}

func TestDecodeLatin1(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("a=b"), "a=b"},
		{"latin1 bytes", []byte{'k', '=', 0xe9}, "k=é"},
		{"surrogate pair", []byte(`k=go \uD83D\uDE80`), "k=go 🚀"},
		{"lower-case hex", []byte(`k=\ud83d\ude00!`), "k=😀!"},
		{"escaped backslash", []byte(`k=\\uD83D\uDE80`), `k=\\uD83D\uDE80`},
		{"lone high surrogate", []byte(`k=\uD83Dx`), `k=\uD83Dx`},
		{"reversed pair", []byte(`k=\uDE80\uD83D`), `k=\uDE80\uD83D`},
		{"bmp escape untouched", []byte(`k=\u00E9`), `k=\u00E9`},
		{"trailing backslash", []byte(`k=\`), `k=\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(decodeLatin1(tt.in)))
		})
	}
}

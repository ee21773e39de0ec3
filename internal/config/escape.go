package config

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// escape encodes s for a properties file the way java.util.Properties
// stores it: separators and comment markers are backslash-escaped and
// anything outside printable ASCII becomes \uXXXX. Keys escape every space,
// values only a leading one.
func escape(s string, key bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch r {
		case ' ':
			if key || i == 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(' ')
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if r < 0x20 || r > 0x7e {
				writeUnicode(&b, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeUnicode(b *strings.Builder, r rune) {
	if r > 0xffff {
		hi, lo := utf16.EncodeRune(r)
		fmt.Fprintf(b, `\u%04X\u%04X`, hi, lo)
		return
	}
	fmt.Fprintf(b, `\u%04X`, r)
}

// decodeLatin1 turns ISO-8859-1 properties data into UTF-8 and replaces
// each \uXXXX\uXXXX surrogate pair escape with the character it encodes.
// Escaped backslashes are skipped, so \\uD83D stays literal text.
func decodeLatin1(data []byte) []byte {
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 == len(data) {
			b.WriteRune(rune(data[i]))
			continue
		}
		if r, ok := surrogateEscape(data[i:]); ok {
			b.WriteRune(r)
			i += surrogateEscapeLen - 1
			continue
		}
		b.WriteRune('\\')
		b.WriteRune(rune(data[i+1]))
		i++
	}
	return []byte(b.String())
}

// surrogateEscapeLen is the length of \uHHHH\uLLLL.
const surrogateEscapeLen = 12

// surrogateEscape decodes a leading \uHHHH\uLLLL high/low surrogate pair.
func surrogateEscape(p []byte) (rune, bool) {
	if len(p) < surrogateEscapeLen || p[0] != '\\' || p[1] != 'u' || p[6] != '\\' || p[7] != 'u' {
		return 0, false
	}
	hi, err := strconv.ParseUint(string(p[2:6]), 16, 16)
	if err != nil || !utf16.IsSurrogate(rune(hi)) || hi >= 0xdc00 {
		return 0, false
	}
	lo, err := strconv.ParseUint(string(p[8:12]), 16, 16)
	if err != nil || lo < 0xdc00 || lo > 0xdfff {
		return 0, false
	}
	return utf16.DecodeRune(rune(hi), rune(lo)), true
}

// Package textutil turns raw console bytes into text and text into fields.
package textutil

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Windows code page numbers as reported by GetACP/GetOEMCP
var codePages = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	20866: charmap.KOI8R,
	28591: charmap.ISO8859_1,
	54936: simplifiedchinese.GB18030,
	65001: unicode.UTF8,
}

// Encoding decodes console output of one tool
type Encoding struct {
	name string
	enc  encoding.Encoding
}

// UTF8 is the encoding used when nothing else is configured on non-Windows hosts
var UTF8 = Encoding{name: "utf-8", enc: unicode.UTF8}

// LookupEncoding resolves an encoding name. It accepts WHATWG labels
// (utf-8, windows-1252, shift_jis), IANA names (IBM437) and Windows code
// pages written as cp437 or a bare number. An empty name is the host
// default.
func LookupEncoding(name string) (Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LookupEncoding(DefaultEncodingName())
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(name, "cp")); err == nil {
		if enc, ok := codePages[n]; ok {
			return Encoding{name: "cp" + strconv.Itoa(n), enc: enc}, nil
		}
		return Encoding{}, fmt.Errorf("unsupported code page %d", n)
	}

	if enc, err := htmlindex.Get(name); err == nil {
		return Encoding{name: name, enc: enc}, nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return Encoding{name: name, enc: enc}, nil
	}

	return Encoding{}, fmt.Errorf("unknown encoding %q", name)
}

// MustLookupEncoding is LookupEncoding for names known to be valid
func MustLookupEncoding(name string) Encoding {
	e, err := LookupEncoding(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the name the encoding was looked up by
func (e Encoding) Name() string {
	if e.enc == nil {
		return UTF8.name
	}
	return e.name
}

// Decode converts raw console bytes to text. A UTF-8 byte order mark is
// dropped and line endings are normalized to \n.
func (e Encoding) Decode(b []byte) (string, error) {
	enc := e.enc
	if enc == nil {
		enc = unicode.UTF8
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	s := strings.TrimPrefix(string(out), "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n"), nil
}

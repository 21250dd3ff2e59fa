package textutil

import (
	"errors"
	"regexp"
	"strings"
)

// Lines splits text into lines without their terminators. A trailing
// empty line is dropped.
func Lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// NonEmptyLines returns the trimmed lines of s that are not blank
func NonEmptyLines(s string) []string {
	var out []string
	for _, l := range Lines(s) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Field returns the first capture group of re in text
func Field(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// Unquote removes surrounding double quotes and undoes \" and \\ escapes
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Pair is one key=value line
type Pair struct {
	Key   string
	Value string
}

// ErrUnterminated is returned when a quoted value never closes
var ErrUnterminated = errors.New("unterminated quoted value")

// ParsePairs reads key=value lines in order. Keys and values may be
// double quoted, and a quoted value may continue over several lines.
// Lines without '=' are skipped.
func ParsePairs(text string) ([]Pair, error) {
	var (
		pairs []Pair
		lines = Lines(text)
	)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		eq := keyEnd(line)
		if eq < 0 {
			continue
		}
		key := Unquote(strings.TrimSpace(line[:eq]))
		value := strings.TrimSpace(line[eq+1:])

		if strings.HasPrefix(value, `"`) {
			for !closedQuote(value) {
				i++
				if i >= len(lines) {
					return pairs, ErrUnterminated
				}
				value += "\n" + lines[i]
			}
			value = Unquote(value)
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}

// PairMap is ParsePairs collected into a map; later keys win
func PairMap(text string) (map[string]string, error) {
	pairs, err := ParsePairs(text)
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m, err
}

// keyEnd finds the '=' that ends the key, skipping a quoted key
func keyEnd(line string) int {
	if strings.HasPrefix(line, `"`) {
		end := strings.Index(line[1:], `"`)
		if end < 0 {
			return -1
		}
		rest := strings.Index(line[end+2:], "=")
		if rest < 0 {
			return -1
		}
		return end + 2 + rest
	}
	return strings.Index(line, "=")
}

func closedQuote(v string) bool {
	if len(v) < 2 || !strings.HasSuffix(v, `"`) {
		return false
	}
	backslashes := 0
	for i := len(v) - 2; i >= 0 && v[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

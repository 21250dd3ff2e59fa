package textutil_test

import (
	"os"
	"regexp"
	"testing"

	"github.com/nanovms/hvctl/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"cp1252", []byte{'C', 'a', 'f', 0xe9}, "Café"},
		{"windows-1252", []byte{'C', 'a', 'f', 0xe9}, "Café"},
		{"cp437", []byte{'C', 'a', 'f', 0x82}, "Café"},
		{"850", []byte{'C', 'a', 'f', 0x82}, "Café"},
		{"cp932", []byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67}, "テスト"},
		{"shift_jis", []byte{0x83, 0x65, 0x83, 0x58, 0x83, 0x67}, "テスト"},
		{"utf-8", []byte("Café\r\n"), "Café\n"},
		{"cp65001", []byte("\xef\xbb\xbfvm"), "vm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := textutil.LookupEncoding(tt.name)
			require.NoError(t, err)

			got, err := enc.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupEncodingUnknown(t *testing.T) {
	_, err := textutil.LookupEncoding("cp1")
	assert.Error(t, err)

	_, err = textutil.LookupEncoding("klingon")
	assert.Error(t, err)
}

func TestDecodeCodePage(t *testing.T) {
	enc := textutil.MustLookupEncoding("cp1251")

	b, err := charmap.Windows1251.NewEncoder().Bytes([]byte("Привет"))
	require.NoError(t, err)
	assert.Len(t, b, 6)

	s, err := enc.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "Привет", s)
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, textutil.Lines("a\r\n\r\nb\r\n"))
	assert.Empty(t, textutil.Lines(""))
	assert.Equal(t, []string{"a", "b"}, textutil.NonEmptyLines("  a \n\n\tb\n  \n"))
}

func TestField(t *testing.T) {
	re := regexp.MustCompile(`(?m)^Value: (\S+)$`)

	v, ok := textutil.Field(re, "Name: x\nValue: 10.0.2.15\n")
	assert.True(t, ok)
	assert.Equal(t, "10.0.2.15", v)

	_, ok = textutil.Field(re, "No value set!")
	assert.False(t, ok)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "VM1", textutil.Unquote(`"VM1"`))
	assert.Equal(t, `C:\VMs\a "b"`, textutil.Unquote(`"C:\\VMs\\a \"b\""`))
	assert.Equal(t, "bare", textutil.Unquote("bare"))
}

func TestParsePairs(t *testing.T) {
	text := "name=\"Ubuntu\"\n" +
		"VMState=\"running\"\n" +
		"memory=2048\n" +
		"\"SATA-0-0\"=\"C:\\\\disk.vdi\"\n" +
		"description=\"line one\n" +
		"line \\\"two\\\"\"\n" +
		"garbage line\n"

	pairs, err := textutil.ParsePairs(text)
	require.NoError(t, err)
	assert.Equal(t, []textutil.Pair{
		{"name", "Ubuntu"},
		{"VMState", "running"},
		{"memory", "2048"},
		{"SATA-0-0", `C:\disk.vdi`},
		{"description", "line one\nline \"two\""},
	}, pairs)
}

func TestParsePairsUnterminated(t *testing.T) {
	_, err := textutil.ParsePairs("a=\"open\nstill open\n")
	assert.Equal(t, textutil.ErrUnterminated, err)
}

func TestParseTable(t *testing.T) {
	t.Run("variable widths and spaces in cells", func(t *testing.T) {
		data, err := os.ReadFile("testdata/table_ascii.txt")
		require.NoError(t, err)

		table, err := textutil.ParseTable(string(data))
		require.NoError(t, err)

		assert.Equal(t, []string{"VMId", "Name", "State"}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Ubuntu 22.04", table.Value(table.Rows[0], "name"))
		assert.Equal(t, "Running", table.Value(table.Rows[0], "State"))
		assert.Equal(t, "0b7c1e5a-4f3e-4a2b-8c9d-1e2f3a4b5c6d", table.Value(table.Rows[1], "VMId"))
		assert.Equal(t, "", table.Value(table.Rows[1], "Missing"))
	})

	t.Run("east asian wide names", func(t *testing.T) {
		data, err := os.ReadFile("testdata/table_wide.txt")
		require.NoError(t, err)

		table, err := textutil.ParseTable(string(data))
		require.NoError(t, err)

		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"1", "テスト機", "Running"}, table.Rows[0])
		assert.Equal(t, []string{"2", "vm", "Off"}, table.Rows[1])
	})

	t.Run("empty output is an empty table", func(t *testing.T) {
		table, err := textutil.ParseTable("\r\n\r\n")
		assert.NoError(t, err)
		assert.Empty(t, table.Rows)
	})

	t.Run("text without header", func(t *testing.T) {
		_, err := textutil.ParseTable("Running\n")
		assert.Equal(t, textutil.ErrNoTable, err)
	})
}

package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "midnight", input: 0, expected: NightValue},
		{name: "just before morning", input: 5.99, expected: NightValue},
		{name: "exactly morning", input: 6, expected: MorningValue},
		{name: "half past nine", input: 9.5, expected: MorningValue},
		{name: "noon", input: 12, expected: AfternoonValue},
		{name: "exactly evening", input: 18, expected: EveningValue},
		{name: "quarter to midnight", input: 23.75, expected: EveningValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, EveningValue, GetColorLabel(23.75))
	assert.Equal(t, NightValue, GetColorLabel(1))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetCacheDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".commitscope_cache.db"))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.js", TruncatePath("short.js", 20))
	assert.Equal(t, "...ents/Button.jsx", TruncatePath("src/components/Button.jsx", 18))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("1,2,3,4")
	require.NoError(t, err)
	assert.Equal(t, 4.0, r.Y1)

	_, err = ParseRect("1,2,x,4")
	assert.Error(t, err)
}

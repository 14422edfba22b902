package sources_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"ukrlit/internal/sources"
)

func TestDecodeHTMLFallsBackToWindows1251(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String("<p>Кобзар</p>")
	require.NoError(t, err)

	got, err := sources.DecodeHTML([]byte(raw), "text/html")
	require.NoError(t, err)
	require.Equal(t, "<p>Кобзар</p>", got)
}

func TestDecodeHTMLHonoursDeclaredCharset(t *testing.T) {
	got, err := sources.DecodeHTML([]byte("<p>Кобзар</p>"), "text/html; charset=utf-8")
	require.NoError(t, err)
	require.Equal(t, "<p>Кобзар</p>", got)

	got, err = sources.DecodeHTML([]byte("<p>Енеїда</p>"), "")
	require.NoError(t, err)
	require.Equal(t, "<p>Енеїда</p>", got)
}

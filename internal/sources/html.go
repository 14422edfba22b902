package sources

import (
	"fmt"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// DecodeHTML converts a fetched page to UTF-8. The charset comes from a BOM,
// the Content-Type header or a <meta> tag; when none is declared and the body
// is not valid UTF-8 it is read as Windows-1251, the IRBIS default.
func DecodeHTML(body []byte, contentType string) (string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name != "utf-8" {
		enc = charmap.Windows1251
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode %s page: %w", name, err)
	}
	return string(out), nil
}

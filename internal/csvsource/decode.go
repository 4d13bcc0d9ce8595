package csvsource

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Encoding names reported by Decode.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

// Decode converts raw export bytes to a UTF-8 string and reports the detected
// encoding. A BOM selects UTF-8 or UTF-16; BOM-less bytes that are not valid
// UTF-8 are read as Windows-1252, which is what spreadsheet tools write.
func Decode(data []byte) (string, string, error) {
	name := detectEncoding(data)

	var fallback transform.Transformer = encoding.Nop.NewDecoder()
	if name == EncodingWindows1252 {
		fallback = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(xunicode.BOMOverride(fallback), data)
	if err != nil {
		return "", name, fmt.Errorf("decoding %s input: %w", name, err)
	}

	return string(out), name, nil
}

func detectEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// mimeToExtension maps the content types the API commonly receives to a file
// extension. Unknown types get none.
var mimeToExtension = map[string]string{
	"image/jpeg":         ".jpg",
	"image/jpg":          ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"image/bmp":          ".bmp",
	"image/tiff":         ".tiff",
	"application/pdf":    ".pdf",
	"text/plain":         ".txt",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// ExtensionFromContentType returns the extension for a content type, ignoring
// any parameters such as charset
func ExtensionFromContentType(contentType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return mimeToExtension[strings.ToLower(mediaType)]
}

// HasExtension reports whether a filename ends in an extension. Dotfiles
// such as ".env" have none.
func HasExtension(filename string) bool {
	ext := path.Ext(filename)
	return ext != "" && ext != filename
}

// FilenameFromContentDisposition extracts the filename= parameter of a
// Content-Disposition header with surrounding quotes stripped
func FilenameFromContentDisposition(header string) string {
	_, after, found := strings.Cut(header, "filename=")
	if !found {
		return ""
	}
	value, _, _ := strings.Cut(after, ";")
	return strings.Trim(strings.TrimSpace(value), "\"'")
}

// FilenameFromURL returns the last path segment of a URL without its query
func FilenameFromURL(rawURL string) string {
	withoutQuery, _, _ := strings.Cut(rawURL, "?")
	withoutQuery, _, _ = strings.Cut(withoutQuery, "#")
	return withoutQuery[strings.LastIndex(withoutQuery, "/")+1:]
}

// ParseJSONObject decodes a JSON object, keeping numbers as json.Number
func ParseJSONObject(data []byte) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var object map[string]interface{}
	if err := decoder.Decode(&object); err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("JSON value is not an object")
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return object, nil
}

// ParseJSON decodes any JSON value, keeping numbers as json.Number
func ParseJSON(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return value, nil
}

// StructToMap converts a JSON-serializable value into a map keyed by its
// JSON field names
func StructToMap(input interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	return ParseJSONObject(data)
}

// CompactJSON serializes v without insignificant whitespace or HTML escaping.
// Non-ASCII characters are written as \uXXXX escapes, using surrogate pairs
// above U+FFFF.
func CompactJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// escapeNonASCII rewrites every non-ASCII rune of encoded JSON. Such runes
// only occur inside strings, where the escape is equivalent.
func escapeNonASCII(data []byte) []byte {
	if !hasNonASCII(data) {
		return data
	}
	out := make([]byte, 0, len(data)+16)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = append(out, fmt.Sprintf("\\u%04x\\u%04x", r1, r2)...)
			continue
		}
		out = append(out, fmt.Sprintf("\\u%04x", r)...)
	}
	return out
}

func hasNonASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

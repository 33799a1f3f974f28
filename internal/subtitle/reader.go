package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const charsetUTF8 = "UTF-8"

// DefaultReader reads a subtitle file fully into memory as lines.
type DefaultReader struct{}

func NewReader() Reader {
	return &DefaultReader{}
}

// Read loads path, decodes it to UTF-8 and splits it on newlines. A file
// using CRLF endings has the carriage returns stripped and remembered in
// File.LineEnding.
func (r *DefaultReader) Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	file, err := ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode subtitle file %s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// ReadBytes decodes raw subtitle content.
func ReadBytes(data []byte) (*File, error) {
	text, charset, err := decode(data)
	if err != nil {
		return nil, err
	}

	ending := "\n"
	if strings.Contains(text, "\r\n") {
		ending = "\r\n"
	}

	lines := strings.Split(text, "\n")
	if ending == "\r\n" {
		for i, line := range lines {
			lines[i] = strings.TrimSuffix(line, "\r")
		}
	}

	return &File{
		Lines:      lines,
		LineEnding: ending,
		Charset:    charset,
	}, nil
}

// decode strips a byte order mark and converts the content to UTF-8. Without
// a BOM, content that is not valid UTF-8 goes through charset detection.
func decode(data []byte) (string, string, error) {
	body, bom := utfbom.Skip(bytes.NewReader(data))

	var enc encoding.Encoding
	charset := charsetUTF8
	switch bom {
	case utfbom.UTF16BigEndian:
		enc, charset = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "UTF-16BE"
	case utfbom.UTF16LittleEndian:
		enc, charset = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "UTF-16LE"
	case utfbom.UTF32BigEndian:
		enc, charset = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "UTF-32BE"
	case utfbom.UTF32LittleEndian:
		enc, charset = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "UTF-32LE"
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", "", err
	}

	if enc == nil && bom == utfbom.Unknown && !utf8.Valid(raw) {
		enc, charset, err = detectEncoding(raw)
		if err != nil {
			return "", "", err
		}
	}

	if enc == nil {
		return string(raw), charset, nil
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(decoded), charset, nil
}

func detectEncoding(raw []byte) (encoding.Encoding, string, error) {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return nil, "", fmt.Errorf("detect charset: %w", err)
	}

	name := result.Charset
	// chardet spells a few names differently from the WHATWG index
	switch name {
	case "GB-18030":
		return simplifiedchinese.GB18030, name, nil
	case "ISO-8859-8-I":
		name = "ISO-8859-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported charset %q: %w", result.Charset, err)
	}
	return enc, result.Charset, nil
}

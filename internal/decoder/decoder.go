// Package decoder recovers transcript text from files written by an
// external speech engine. Decoding is lossy: undecodable bytes are dropped
// and no error is ever raised for them.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is used when detection gives no usable answer
const DefaultCharset = "UTF-8"

// ErrNoTranscript is returned when no output file matches in the scratch dir
var ErrNoTranscript = errors.New("no transcript file found")

// Decoded is a transcript together with the charset it was read as
type Decoded struct {
	Text    string
	Charset string
}

// Newest returns the most recently modified regular file in dir whose
// extension equals ext (for example ".txt").
func Newest(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scratch dir: %w", err)
	}

	var (
		newest  string
		newestT int64
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mt := info.ModTime().UnixNano(); newest == "" || mt > newestT {
			newest, newestT = filepath.Join(dir, e.Name()), mt
		}
	}

	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoTranscript, dir)
	}
	return newest, nil
}

// DecodeFile reads path and decodes it with Decode
func DecodeFile(path string) (*Decoded, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	d := Decode(raw)
	return &d, nil
}

// Decode detects the byte encoding of raw and converts it to UTF-8.
// Valid UTF-8 is taken as is; anything else goes through charset detection.
func Decode(raw []byte) Decoded {
	if len(raw) == 0 {
		return Decoded{Charset: DefaultCharset}
	}
	if utf8.Valid(raw) {
		return Decoded{Text: strings.TrimPrefix(string(raw), "\uFEFF"), Charset: DefaultCharset}
	}

	name := Detect(raw)
	enc := lookup(name)
	if enc == nil {
		return Decoded{Text: strings.ToValidUTF8(string(raw), ""), Charset: DefaultCharset}
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		// x/text decoders substitute rather than fail; keep the raw fallback anyway
		return Decoded{Text: strings.ToValidUTF8(string(raw), ""), Charset: DefaultCharset}
	}
	return Decoded{Text: clean(out), Charset: name}
}

// Detect returns the best guess charset name for raw, or DefaultCharset
func Detect(raw []byte) string {
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || res == nil || res.Charset == "" {
		return DefaultCharset
	}
	return res.Charset
}

func lookup(name string) encoding.Encoding {
	if strings.EqualFold(name, DefaultCharset) {
		return nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc
	}
	return nil
}

// clean drops replacement characters produced for undecodable input and a
// leading byte order mark.
func clean(b []byte) string {
	b = bytes.TrimPrefix(b, []byte("\uFEFF"))
	return strings.ToValidUTF8(strings.ReplaceAll(string(b), "\uFFFD", ""), "")
}

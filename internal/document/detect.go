// Package document turns uploaded files into plain text: text layers of
// PDFs, visible text of HTML, and OCR for scans and photos.
package document

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Kind is the detected document type.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindImage   Kind = "image"
	KindHTML    Kind = "html"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

var imageMagic = []struct {
	prefix []byte
	mime   string
}{
	{[]byte("\x89PNG\r\n\x1a\n"), "image/png"},
	{[]byte("\xff\xd8\xff"), "image/jpeg"},
	{[]byte("GIF87a"), "image/gif"},
	{[]byte("GIF89a"), "image/gif"},
	{[]byte("II*\x00"), "image/tiff"},
	{[]byte("MM\x00*"), "image/tiff"},
	{[]byte("BM"), "image/bmp"},
}

var extKinds = map[string]Kind{
	".pdf":  KindPDF,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".tif":  KindImage,
	".tiff": KindImage,
	".bmp":  KindImage,
	".webp": KindImage,
	".html": KindHTML,
	".htm":  KindHTML,
	".txt":  KindText,
	".text": KindText,
	".md":   KindText,
	".csv":  KindText,
}

// Detect classifies data by magic bytes, then HTML sniffing, then the file
// extension. Anything else that is valid UTF-8 without NUL bytes is text.
func Detect(data []byte, filename string) Kind {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return KindPDF
	}
	if imageMIME(data) != "" {
		return KindImage
	}
	if looksLikeHTML(data) {
		return KindHTML
	}
	if k, ok := extKinds[strings.ToLower(filepath.Ext(filename))]; ok {
		return k
	}
	if len(data) > 0 && utf8.Valid(data) && bytes.IndexByte(data, 0) < 0 {
		return KindText
	}
	return KindUnknown
}

// imageMIME returns the mime type for recognised image magic, or "".
func imageMIME(data []byte) string {
	for _, m := range imageMagic {
		if bytes.HasPrefix(data, m.prefix) {
			return m.mime
		}
	}
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return ""
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.Contains(head, []byte("<html"))
}

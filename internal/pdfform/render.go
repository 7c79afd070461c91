package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/jackzampolin/formassist/internal/forms"
)

// US Letter in points.
const (
	pageWidth  = 612
	pageHeight = 792

	marginX    = 50
	topY       = pageHeight - 60
	breakBelow = 100

	titleSize = 16
	labelSize = 11
	valueSize = 10

	// Helvetica at 10pt averages about 5pt per glyph.
	wrapColumns = (pageWidth - 2*marginX) / 5
)

// DefaultTitle is used when a response is rendered without a form title.
const DefaultTitle = "Form Response"

// RenderResponse lays out a response as label/value pairs on Letter pages.
// Fields come from schema; when it is empty the data keys are used in sorted
// order.
func RenderResponse(title string, schema forms.Schema, data map[string]any, now time.Time) []byte {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	fields := schema.Fields
	if len(fields) == 0 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fields = append(fields, forms.FormField{Name: k, Label: k})
		}
	}

	l := &layout{y: topY}
	l.newPage()
	l.text("F2", titleSize, title)
	l.y -= 24
	l.text("F1", valueSize, "Generated: "+now.UTC().Format("2006-01-02T15:04:05")+"Z")
	l.y -= 28

	for _, f := range fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		if label == "" {
			label = "Field"
		}
		if l.y < breakBelow {
			l.newPage()
		}
		l.text("F2", labelSize, label)
		l.y -= 16
		lines := wrap(renderValue(data[f.Name]), wrapColumns)
		for i, line := range lines {
			if i > 0 {
				l.y -= 14
				if l.y < breakBelow {
					l.newPage()
				}
			}
			l.text("F1", valueSize, line)
		}
		l.y -= 22
	}
	return l.finish()
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// wrap splits s on word boundaries into lines of at most width runes. A
// single longer word is split hard.
func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var cur []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > width {
				if len(cur) > 0 {
					lines = append(lines, string(cur))
					cur = nil
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(cur) == 0:
				cur = w
			case len(cur)+1+len(w) <= width:
				cur = append(append(cur, ' '), w...)
			default:
				lines = append(lines, string(cur))
				cur = w
			}
		}
		lines = append(lines, string(cur))
	}
	return lines
}

// layout accumulates page content streams.
type layout struct {
	pages []*bytes.Buffer
	cur   *bytes.Buffer
	y     int
}

func (l *layout) newPage() {
	l.cur = &bytes.Buffer{}
	l.pages = append(l.pages, l.cur)
	l.y = topY
}

func (l *layout) text(font string, size int, s string) {
	fmt.Fprintf(l.cur, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", font, size, marginX, l.y, winAnsi(s))
}

// winAnsi encodes s for the standard fonts' WinAnsiEncoding and escapes it
// for a literal string. Characters outside the code page become '?'.
func winAnsi(s string) string {
	var b strings.Builder
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok || c < 0x20 {
			c = '?'
		}
		switch c {
		case '\\', '(', ')':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// finish serializes the document: catalog, page tree, two fonts, then one
// page and content stream per page.
func (l *layout) finish() []byte {
	const (
		catalogID = 1
		pagesID   = 2
		font1ID   = 3
		font2ID   = 4
		firstPage = 5
	)
	n := len(l.pages)
	objects := make([]string, firstPage-1+2*n)

	kids := make([]string, n)
	for i := range l.pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}
	objects[catalogID-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID)
	objects[pagesID-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)
	objects[font1ID-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	objects[font2ID-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>"
	for i, content := range l.pages {
		pageID := firstPage + 2*i
		objects[pageID-1] = fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %d %d] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R /F2 %d 0 R >> >> >>",
			pagesID, pageWidth, pageHeight, pageID+1, font1ID, font2ID)
		objects[pageID] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String())
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f\r\n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalogID, xref)
	return buf.Bytes()
}

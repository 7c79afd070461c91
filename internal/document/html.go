package document

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"label": true, "section": true, "article": true, "header": true, "footer": true,
	"table": true, "ul": true, "ol": true, "form": true, "fieldset": true, "legend": true,
	"dt": true, "dd": true, "pre": true, "blockquote": true, "hr": true, "option": true,
}

// htmlText returns the visible text of an HTML document, one block per line.
func htmlText(data []byte) string {
	z := html.NewTokenizer(bytes.NewReader(data))
	var (
		lines []string
		cur   []string
		skip  int
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return strings.Join(lines, "\n")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipElements[tag] && tt == html.StartTagToken {
				skip++
				continue
			}
			if blockElements[tag] {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipElements[tag] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if blockElements[tag] {
				flush()
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.Join(strings.Fields(string(z.Text())), " "); text != "" {
				cur = append(cur, text)
			}
		}
	}
}

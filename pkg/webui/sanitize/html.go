// Package sanitize restricts untrusted message HTML to a safe subset.
package sanitize

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// MaxDepth limits element nesting; deeper start tags are rendered as inert text.
const MaxDepth = 256

var (
	cssSafe   = regexp.MustCompile(".*")
	sizeSafe  = regexp.MustCompile(`^[0-9]+(%|px)?$`)
	tagNameRE = regexp.MustCompile(`^[a-z][a-z0-9:_-]*$`)

	// urlPolicy is the final pass, it only restricts the URL schemes permitted in href and src.
	// Everything else it sees has already been filtered by the tag walk.
	urlPolicy = bluemonday.NewPolicy().
			AllowNoAttrs().OnElementsMatching(tagNameRE).
			AllowAttrs("style").Matching(cssSafe).Globally().
			AllowAttrs("href").OnElements("a").
			AllowAttrs("src").OnElements("img").
			AllowAttrs("width", "height").Matching(sizeSafe).OnElements("img").
			AllowURLSchemes("http", "https", "mailto", "cid").
			AllowRelativeURLs(true)
)

// HTML sanitizes the provided html. It never fails; markup it cannot make sense of is rendered
// as escaped text.
func HTML(input string) string {
	b := &bytes.Buffer{}
	walk(b, strings.NewReader(input))
	if b.Len() == 0 {
		return ""
	}
	return urlPolicy.Sanitize(b.String())
}

// walk tokenizes r and writes the tags and text permitted by the rules table to b.
func walk(b *bytes.Buffer, r io.Reader) {
	z := html.NewTokenizer(r)
	depth := 0
	// While skip > 0 we are inside a DropWithContents element named skipTag.
	skip := 0
	skipTag := ""
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer failure, either way we are done.
			return

		case html.TextToken:
			if skip > 0 {
				continue
			}
			b.WriteString(html.EscapeString(string(z.Text())))

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			name, hasAttr := z.TagName()
			tag := string(name)
			if skip > 0 {
				if tag == skipTag {
					skip++
				}
				continue
			}
			if !tagNameRE.MatchString(tag) || depth >= MaxDepth {
				b.WriteString(html.EscapeString(raw))
				continue
			}
			rule := RuleFor(tag)
			switch rule.Action {
			case Unwrap:
				continue
			case DropWithContents:
				// A self-closing flag is ignored for these elements, content still follows.
				skip = 1
				skipTag = tag
				continue
			}
			writeStartTag(b, z, tag, hasAttr, rule, tt == html.SelfClosingTagToken)
			if _, void := voidElements[tag]; !void && tt == html.StartTagToken {
				depth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skip > 0 {
				if tag == skipTag {
					skip--
				}
				continue
			}
			if !tagNameRE.MatchString(tag) {
				b.WriteString(html.EscapeString(string(z.Raw())))
				continue
			}
			if RuleFor(tag).Action != AllowAttrs {
				continue
			}
			if _, void := voidElements[tag]; !void && depth > 0 {
				depth--
			}
			b.WriteString("</")
			b.WriteString(tag)
			b.WriteByte('>')

		default:
			// Comments, doctypes.
		}
	}
}

// writeStartTag renders a start tag keeping only the attributes allowed by rule.
func writeStartTag(
	b *bytes.Buffer,
	z *html.Tokenizer,
	tag string,
	hasAttr bool,
	rule Rule,
	selfClosing bool,
) {
	b.WriteByte('<')
	b.WriteString(tag)
	seen := make(map[string]struct{})
	for more := hasAttr; more; {
		var key, val []byte
		key, val, more = z.TagAttr()
		k := string(key)
		if !rule.Allows(k) {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		v := string(val)
		if k == "style" {
			v = sanitizeStyle(v)
			if v == "" {
				continue
			}
		}
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(v))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteByte('/')
	}
	b.WriteByte('>')
}

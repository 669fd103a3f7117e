package blocks

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Overridable for deterministic tests.
var (
	now   = time.Now
	newID = uuid.NewString
)

// Convert transforms an HTML string into an ordered block document.
// It never fails: unrecognized or malformed fragments degrade to a
// paragraph block carrying the extracted visible text, so no content is
// silently dropped. Inline formatting is flattened to plain text.
func Convert(input string) Document {
	doc := Document{
		Version:     FormatVersion,
		GeneratedAt: now().UTC().UnixMilli(),
		Blocks:      []Block{},
	}
	if strings.TrimSpace(input) == "" {
		return doc
	}

	root, err := html.Parse(strings.NewReader(input))
	if err != nil {
		// The parser is tolerant of malformed markup; an error here means
		// the byte stream itself was unreadable. Keep the raw text.
		if txt := squish(input); txt != "" {
			doc.Blocks = append(doc.Blocks, newBlock(TypeParagraph, ParagraphData{Text: txt}))
		}
		return doc
	}

	body := findBody(root)
	if body == nil {
		return doc
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if b, ok := convertNode(c); ok {
			doc.Blocks = append(doc.Blocks, b)
		}
	}
	return doc
}

// convertNode dispatches one top-level node to a block. The recognized
// element set is deliberately closed; everything else falls through to the
// paragraph arm. ok is false when the node carries no visible text.
func convertNode(n *html.Node) (Block, bool) {
	switch n.Type {
	case html.TextNode:
		if txt := squish(n.Data); txt != "" {
			return newBlock(TypeParagraph, ParagraphData{Text: txt}), true
		}
		return Block{}, false
	case html.ElementNode:
		// handled below
	default:
		return Block{}, false
	}

	switch tag := n.Data; {
	case isHeaderTag(tag):
		txt := visibleText(n)
		if txt == "" {
			return Block{}, false
		}
		return newBlock(TypeHeader, HeaderData{Text: txt, Level: int(tag[1] - '0')}), true

	case tag == "p":
		txt := visibleText(n)
		if txt == "" {
			return Block{}, false
		}
		return newBlock(TypeParagraph, ParagraphData{Text: txt}), true

	case tag == "blockquote":
		txt := visibleText(n)
		if txt == "" {
			return Block{}, false
		}
		return newBlock(TypeQuote, QuoteData{Text: txt, Caption: ""}), true

	case tag == "ul" || tag == "ol":
		items := listItems(n)
		if len(items) == 0 {
			return Block{}, false
		}
		style := StyleUnordered
		if tag == "ol" {
			style = StyleOrdered
		}
		return newBlock(TypeList, ListData{Style: style, Items: items}), true

	default:
		txt := visibleText(n)
		if txt == "" {
			return Block{}, false
		}
		return newBlock(TypeParagraph, ParagraphData{Text: txt}), true
	}
}

func newBlock(kind string, data any) Block {
	return Block{ID: newID(), Type: kind, Data: data}
}

func isHeaderTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// visibleText returns the subtree's text with all tags stripped and
// whitespace runs collapsed to single spaces.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return squish(b.String())
}

// listItems collects the text of every descendant li, at any depth, into
// one flat slice. Nesting depth is intentionally discarded; each item's
// text excludes its own nested lists so nothing is counted twice.
func listItems(n *html.Node) []string {
	var items []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				if txt := squish(ownText(c)); txt != "" {
					items = append(items, txt)
				}
			}
			walk(c)
		}
	}
	walk(n)
	return items
}

// ownText is the visible text of a node excluding nested ul/ol subtrees.
func ownText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				continue
			}
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// squish collapses whitespace/newline runs to a single space and trims.
func squish(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package blocks

import (
	"fmt"
	"html"
	"strings"
)

// Render produces the HTML for a document, one snippet per block in order.
// All interpolated text is escaped. Blocks of an unknown kind, and blocks
// whose payload does not match their kind, render to nothing so documents
// written by a newer editor still display.
func Render(doc Document) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		b.WriteString(renderBlock(blk))
	}
	return b.String()
}

func renderBlock(b Block) string {
	switch b.Type {
	case TypeParagraph:
		d, ok := b.Data.(ParagraphData)
		if !ok {
			return ""
		}
		return fmt.Sprintf(`<p class="mb-4">%s</p>`, html.EscapeString(d.Text))

	case TypeHeader:
		d, ok := b.Data.(HeaderData)
		if !ok {
			return ""
		}
		if d.Level == 3 {
			return fmt.Sprintf(`<h3 class="text-xl font-semibold mt-6 mb-3">%s</h3>`, html.EscapeString(d.Text))
		}
		return fmt.Sprintf(`<h2 class="text-2xl font-bold mt-8 mb-4">%s</h2>`, html.EscapeString(d.Text))

	case TypeList:
		d, ok := b.Data.(ListData)
		if !ok {
			return ""
		}
		tag, cls := "ul", "list-disc pl-6 mb-4"
		if d.Style == StyleOrdered {
			tag, cls = "ol", "list-decimal pl-6 mb-4"
		}
		var items strings.Builder
		for _, it := range d.Items {
			items.WriteString("<li>")
			items.WriteString(html.EscapeString(it))
			items.WriteString("</li>")
		}
		return fmt.Sprintf(`<%s class="%s">%s</%s>`, tag, cls, items.String(), tag)

	case TypeQuote:
		d, ok := b.Data.(QuoteData)
		if !ok {
			return ""
		}
		return fmt.Sprintf(
			`<blockquote class="border-l-4 pl-4 italic my-6">%s<div class="text-sm mt-2 opacity-70">%s</div></blockquote>`,
			html.EscapeString(d.Text), html.EscapeString(d.Caption))

	case TypeImage:
		d, ok := b.Data.(ImageData)
		if !ok || d.URL == "" {
			return ""
		}
		return fmt.Sprintf(
			`<figure class="my-6"><img src="%s" alt="%s" loading="lazy" class="rounded-xl shadow"/><figcaption class="text-sm text-gray-500 mt-2">%s</figcaption></figure>`,
			html.EscapeString(d.URL), html.EscapeString(d.Alt), html.EscapeString(d.Caption))

	case TypeTable:
		d, ok := b.Data.(TableData)
		if !ok || len(d.Content) == 0 {
			return ""
		}
		var head, body strings.Builder
		head.WriteString("<thead><tr>")
		for _, c := range d.Content[0] {
			head.WriteString(`<th class="px-3 py-2 text-left">`)
			head.WriteString(html.EscapeString(c))
			head.WriteString("</th>")
		}
		head.WriteString("</tr></thead>")
		body.WriteString("<tbody>")
		for _, row := range d.Content[1:] {
			body.WriteString("<tr>")
			for _, c := range row {
				body.WriteString(`<td class="px-3 py-2">`)
				body.WriteString(html.EscapeString(c))
				body.WriteString("</td>")
			}
			body.WriteString("</tr>")
		}
		body.WriteString("</tbody>")
		return fmt.Sprintf(
			`<div class="overflow-x-auto my-4"><table class="min-w-full border divide-y">%s%s</table></div>`,
			head.String(), body.String())

	case TypeCode:
		d, ok := b.Data.(CodeData)
		if !ok {
			return ""
		}
		return fmt.Sprintf(
			`<pre class="bg-gray-900 text-gray-100 rounded-lg p-4 overflow-auto my-4"><code>%s</code></pre>`,
			html.EscapeString(d.Code))

	case TypeDelimiter:
		return `<hr class="my-8"/>`

	default:
		return ""
	}
}

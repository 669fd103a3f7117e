package blocks

import "encoding/json"

// Package blocks holds the structured representation of rich-text bodies:
// an ordered sequence of typed content blocks plus format metadata.
// Documents are produced either by the HTML converter (legacy import) or
// arrive pre-structured from the dashboard editor.

// FormatVersion tags every document produced by this converter release.
const FormatVersion = "1.0"

// Block type names. The converter only emits paragraph, header, list and
// quote; the remaining kinds originate from the dashboard editor and are
// handled by the renderer.
const (
	TypeParagraph = "paragraph"
	TypeHeader    = "header"
	TypeList      = "list"
	TypeQuote     = "quote"
	TypeImage     = "image"
	TypeTable     = "table"
	TypeDelimiter = "delimiter"
	TypeCode      = "code"
)

// List styles.
const (
	StyleUnordered = "unordered"
	StyleOrdered   = "ordered"
)

// Block is one typed unit of rendered content.
type Block struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Document is the persisted form of a rich-text body. Blocks is never nil;
// an empty document is valid and renders to nothing.
type Document struct {
	Version     string  `json:"version"`
	GeneratedAt int64   `json:"generated_at"`
	Blocks      []Block `json:"blocks"`
}

// Kind-specific payloads.
type ParagraphData struct {
	Text string `json:"text"`
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ListData struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

type QuoteData struct {
	Text    string `json:"text"`
	Caption string `json:"caption"`
}

type ImageData struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Alt     string `json:"alt"`
}

// TableData rows live under the "content" key; the first row is the header.
type TableData struct {
	Content [][]string `json:"content"`
}

type CodeData struct {
	Code string `json:"code"`
}

type DelimiterData struct{}

// UnmarshalJSON decodes the kind-specific payload into its concrete type.
// Unknown kinds keep a generic map so documents written by a newer editor
// survive a round trip; the renderer skips them.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   string          `json:"id"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.Data = nil
	if len(raw.Data) == 0 {
		return nil
	}

	switch raw.Type {
	case TypeParagraph:
		var d ParagraphData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeHeader:
		var d HeaderData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeList:
		var d ListData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeQuote:
		var d QuoteData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeImage:
		var d ImageData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeTable:
		var d TableData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeCode:
		var d CodeData
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	case TypeDelimiter:
		b.Data = DelimiterData{}
	default:
		var d map[string]any
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return err
		}
		b.Data = d
	}
	return nil
}

// UnmarshalJSON keeps the Blocks invariant: never nil after decoding.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Blocks == nil {
		a.Blocks = []Block{}
	}
	*d = Document(a)
	return nil
}

package blocks

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubIDs replaces the block ID generator with a deterministic counter and
// restores it when the test finishes.
func stubIDs(t *testing.T) {
	t.Helper()
	origID, origNow := newID, now
	t.Cleanup(func() { newID, now = origID, origNow })

	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("blk-%d", n)
	}
	now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }
}

func TestConvert_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		doc := Convert(input)
		assert.Equal(t, FormatVersion, doc.Version)
		assert.NotZero(t, doc.GeneratedAt)
		assert.NotNil(t, doc.Blocks)
		assert.Empty(t, doc.Blocks)
	}
}

func TestConvert_TagMapping(t *testing.T) {
	stubIDs(t)

	tests := []struct {
		name     string
		input    string
		wantType string
		wantData any
	}{
		{
			name:     "header keeps level from tag name",
			input:    "<h2>Why Preventive Beats Reactive</h2>",
			wantType: TypeHeader,
			wantData: HeaderData{Text: "Why Preventive Beats Reactive", Level: 2},
		},
		{
			name:     "paragraph",
			input:    "<p>Hello world</p>",
			wantType: TypeParagraph,
			wantData: ParagraphData{Text: "Hello world"},
		},
		{
			name:     "blockquote maps to quote with empty caption",
			input:    "<blockquote>Pro tip: test it.</blockquote>",
			wantType: TypeQuote,
			wantData: QuoteData{Text: "Pro tip: test it.", Caption: ""},
		},
		{
			name:     "unordered list folds items into one block",
			input:    "<ul><li>A</li><li>B</li></ul>",
			wantType: TypeList,
			wantData: ListData{Style: StyleUnordered, Items: []string{"A", "B"}},
		},
		{
			name:     "ordered list",
			input:    "<ol><li>First</li><li>Second</li></ol>",
			wantType: TypeList,
			wantData: ListData{Style: StyleOrdered, Items: []string{"First", "Second"}},
		},
		{
			name:     "h6 boundary",
			input:    "<h6>Footnote</h6>",
			wantType: TypeHeader,
			wantData: HeaderData{Text: "Footnote", Level: 6},
		},
		{
			name:     "inline formatting flattened to plain text",
			input:    "<p>Hello <strong>brave</strong> <em>new</em> world</p>",
			wantType: TypeParagraph,
			wantData: ParagraphData{Text: "Hello brave new world"},
		},
		{
			name:     "unrecognized element degrades to paragraph",
			input:    "<section>Kept as text</section>",
			wantType: TypeParagraph,
			wantData: ParagraphData{Text: "Kept as text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Convert(tt.input)
			if !assert.Len(t, doc.Blocks, 1) {
				return
			}
			b := doc.Blocks[0]
			assert.NotEmpty(t, b.ID)
			assert.Equal(t, tt.wantType, b.Type)
			assert.Equal(t, tt.wantData, b.Data)
		})
	}
}

func TestConvert_BareTextFallback(t *testing.T) {
	doc := Convert("Just bare text with no tags")

	if assert.Len(t, doc.Blocks, 1) {
		assert.Equal(t, TypeParagraph, doc.Blocks[0].Type)
		assert.Equal(t, ParagraphData{Text: "Just bare text with no tags"}, doc.Blocks[0].Data)
	}
}

func TestConvert_SkipsEmptyElements(t *testing.T) {
	doc := Convert("<p>   </p><h2></h2><blockquote> \n </blockquote><ul><li>  </li></ul>")
	assert.Empty(t, doc.Blocks)
}

func TestConvert_FlattensNestedLists(t *testing.T) {
	doc := Convert("<ul><li>A<ul><li>B</li><li>C</li></ul></li><li>D</li></ul>")

	if assert.Len(t, doc.Blocks, 1) {
		assert.Equal(t, ListData{
			Style: StyleUnordered,
			Items: []string{"A", "B", "C", "D"},
		}, doc.Blocks[0].Data)
	}
}

func TestConvert_NoContentLoss(t *testing.T) {
	// One non-empty block per non-empty source element; list items fold
	// into a single list block.
	input := "<h1>Title</h1><p>Intro</p><ul><li>one</li><li>two</li></ul><blockquote>Quote</blockquote><p>Outro</p>"
	doc := Convert(input)
	assert.Len(t, doc.Blocks, 5)
}

func TestConvert_Determinism(t *testing.T) {
	input := "<h2>Heading</h2><p>Body copy</p><ol><li>x</li></ol>"

	a := Convert(input)
	b := Convert(input)

	if !assert.Equal(t, len(a.Blocks), len(b.Blocks)) {
		return
	}
	for i := range a.Blocks {
		assert.Equal(t, a.Blocks[i].Type, b.Blocks[i].Type)
		assert.Equal(t, a.Blocks[i].Data, b.Blocks[i].Data)
		assert.NotEqual(t, a.Blocks[i].ID, b.Blocks[i].ID, "ids must come from disjoint namespaces")
	}
}

func TestDocument_WireShape(t *testing.T) {
	stubIDs(t)

	raw, err := json.Marshal(Convert("<p>Hello world</p>"))
	assert.NoError(t, err)

	var got map[string]any
	assert.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, FormatVersion, got["version"])
	assert.Equal(t, float64(1700000000000), got["generated_at"])

	blocksVal, ok := got["blocks"].([]any)
	if !assert.True(t, ok) || !assert.Len(t, blocksVal, 1) {
		return
	}
	blk := blocksVal[0].(map[string]any)
	assert.Equal(t, "blk-1", blk["id"])
	assert.Equal(t, "paragraph", blk["type"])
	assert.Equal(t, map[string]any{"text": "Hello world"}, blk["data"])
}

func TestDocument_UnmarshalTypedPayloads(t *testing.T) {
	raw := `{
		"version": "1.0",
		"generated_at": 1700000000000,
		"blocks": [
			{"id": "1", "type": "paragraph", "data": {"text": "hi"}},
			{"id": "2", "type": "header", "data": {"text": "H", "level": 3}},
			{"id": "3", "type": "table", "data": {"content": [["a","b"],["1","2"]]}},
			{"id": "4", "type": "delimiter", "data": {}},
			{"id": "5", "type": "hologram", "data": {"x": 1}}
		]
	}`

	var doc Document
	assert.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, ParagraphData{Text: "hi"}, doc.Blocks[0].Data)
	assert.Equal(t, HeaderData{Text: "H", Level: 3}, doc.Blocks[1].Data)
	assert.Equal(t, TableData{Content: [][]string{{"a", "b"}, {"1", "2"}}}, doc.Blocks[2].Data)
	assert.Equal(t, DelimiterData{}, doc.Blocks[3].Data)
	assert.Equal(t, map[string]any{"x": float64(1)}, doc.Blocks[4].Data)
}

func TestDocument_UnmarshalNilBlocks(t *testing.T) {
	var doc Document
	assert.NoError(t, json.Unmarshal([]byte(`{"version":"1.0","generated_at":0}`), &doc))
	assert.NotNil(t, doc.Blocks)
	assert.Empty(t, doc.Blocks)
}

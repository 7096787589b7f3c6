package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentPlainText(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Number: 1, Texts: []Text{
			{Runs: []Run{newRun("Hello"), newRun("world")}},
			{Runs: []Run{{T: ""}, newRun("100% sure")}},
		}},
		{Number: 2},
		{Number: 3, Texts: []Text{{Runs: []Run{{T: "caf%C3%A9"}, {T: "50%off"}}}}},
	}}

	assert.Equal(t, "Hello world 100% sure café 50%off", doc.PlainText())
	assert.Equal(t, 6, doc.RunCount())
}

func TestDocumentEmpty(t *testing.T) {
	var nilDoc *Document
	assert.Empty(t, nilDoc.PlainText())
	assert.Empty(t, (&Document{}).PlainText())
	assert.Empty(t, (&Document{Pages: []Page{{Number: 1}}}).PlainText())
	assert.Zero(t, nilDoc.RunCount())
}

func TestRunTextFallsBackOnBadEscape(t *testing.T) {
	assert.Equal(t, "%E0%A4%A", Run{T: "%E0%A4%A"}.Text())
	assert.Equal(t, "a b", Run{T: "a%20b"}.Text())
}

func TestScanContentStream(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []Text
	}{
		{
			name:   "escapes and nesting",
			stream: `BT (a \(b\) \\ c\040d (nested)) Tj ET`,
			want:   []Text{{Runs: []Run{newRun(`a (b) \ c d (nested)`)}}},
		},
		{
			name:   "hex and utf16",
			stream: "BT <48656C6C6F> Tj <FEFF00E9> Tj ET",
			want:   []Text{{Runs: []Run{newRun("Hello"), newRun("é")}}},
		},
		{
			name:   "quote operators",
			stream: "BT (one) ' 2 0 (two) \" ET",
			want:   []Text{{Runs: []Run{newRun("one"), newRun("two")}}},
		},
		{
			name:   "separate text objects",
			stream: "BT (a) Tj ET\nq 1 0 0 1 0 0 cm Q\nBT (b) Tj ET",
			want:   []Text{{Runs: []Run{newRun("a")}}, {Runs: []Run{newRun("b")}}},
		},
		{
			name:   "inline image skipped",
			stream: "BI /W 1 /H 1 ID \x00(Tj)\xff EI\nBT (after) Tj ET",
			want:   []Text{{Runs: []Run{newRun("after")}}},
		},
		{
			name:   "comments and dicts",
			stream: "% (ignored) Tj\n/Span << /MCID 0 >> BDC BT (kept) Tj ET EMC",
			want:   []Text{{Runs: []Run{newRun("kept")}}},
		},
		{
			name:   "no text",
			stream: "0 0 1 rg 0 0 10 10 re f",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanContentStream([]byte(tt.stream)))
		})
	}
}

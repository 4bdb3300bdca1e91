package knowledge_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{
			name:   "empty input",
			text:   "",
			maxLen: 10,
			want:   nil,
		},
		{
			name:   "whitespace only input",
			text:   "  \n\t  ",
			maxLen: 10,
			want:   nil,
		},
		{
			name:   "single word below cap",
			text:   "hello",
			maxLen: 100,
			want:   []string{"hello"},
		},
		{
			name:   "flush at accumulated length",
			text:   "a b c d e f g h",
			maxLen: 5,
			want:   []string{"a b c", "d e f", "g h"},
		},
		{
			name:   "exact multiple leaves no trailing chunk",
			text:   "aa bb cc dd",
			maxLen: 6,
			want:   []string{"aa bb", "cc dd"},
		},
		{
			name:   "trailing words become final chunk",
			text:   "alpha beta gamma",
			maxLen: 11,
			want:   []string{"alpha beta", "gamma"},
		},
		{
			name:   "single word exceeding cap is kept whole",
			text:   "supercalifragilistic",
			maxLen: 5,
			want:   []string{"supercalifragilistic"},
		},
		{
			name:   "whitespace runs collapse to single separators",
			text:   "one\n\ntwo\t three",
			maxLen: 100,
			want:   []string{"one two three"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := knowledge.Chunk(tt.text, tt.maxLen)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk(%q, %d) = %v, want %v", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestChunkPreservesWordSequence(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again until it tires"

	for _, maxLen := range []int{1, 3, 7, 20, 1000} {
		chunks := knowledge.Chunk(text, maxLen)

		var rejoined []string
		for _, c := range chunks {
			if c == "" {
				t.Fatalf("maxLen %d produced an empty chunk", maxLen)
			}
			rejoined = append(rejoined, strings.Fields(c)...)
		}

		if !reflect.DeepEqual(rejoined, strings.Fields(text)) {
			t.Errorf("maxLen %d: rejoined words = %v, want original sequence", maxLen, rejoined)
		}
	}
}

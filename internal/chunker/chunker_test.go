package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bohradivyansh-maker/translation-assistant/internal/chunker"
	"github.com/bohradivyansh-maker/translation-assistant/internal/placeholder"
)

func TestChunk_ShortText(t *testing.T) {
	text := "Hello, world!"
	chunks := chunker.Chunk(text, 100)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected the text back, got %v", chunks)
	}
}

func TestChunk_Unlimited(t *testing.T) {
	text := strings.Repeat("word ", 500)
	if chunks := chunker.Chunk(text, 0); len(chunks) != 1 {
		t.Errorf("expected 1 chunk when maxRunes=0, got %d", len(chunks))
	}
}

func TestChunk_EmptyText(t *testing.T) {
	if chunks := chunker.Chunk("  \n ", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %q", chunks)
	}
}

func TestChunk_ParagraphBoundary(t *testing.T) {
	text := "First paragraph. Still first.\r\n\r\nSecond paragraph text here."

	chunks := chunker.Chunk(text, 40)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph. Still first." {
		t.Errorf("unexpected first chunk %q", chunks[0])
	}
}

func TestChunk_SentenceBoundary(t *testing.T) {
	text := "First sentence ends here. Second sentence follows. Third sentence."

	chunks := chunker.Chunk(text, 40)
	if chunks[0] != "First sentence ends here." {
		t.Errorf("expected a cut after the first sentence, got %q", chunks[0])
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 40 {
			t.Errorf("chunk %d exceeds the limit: %q", i, c)
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d has surrounding whitespace: %q", i, c)
		}
	}
}

func TestChunk_WordBoundary(t *testing.T) {
	text := "one two three four five six seven eight nine ten"

	chunks := chunker.Chunk(text, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected ≥2 chunks, got %d", len(chunks))
	}
	if got := strings.Join(chunks, " "); got != text {
		t.Errorf("words lost after chunking: %q", got)
	}
}

func TestChunk_MultiByte(t *testing.T) {
	text := strings.Repeat("né ", 30)

	for _, c := range chunker.Chunk(text, 10) {
		if utf8.RuneCountInString(c) > 10 {
			t.Errorf("chunk exceeds limit: %q", c)
		}
		if !utf8.ValidString(c) {
			t.Errorf("chunk split a code point: %q", c)
		}
	}
}

func TestChunk_HardCutKeepsPlaceholder(t *testing.T) {
	text := "abcdef" + placeholder.Token(12) + "ghij"

	chunks := chunker.Chunk(text, 8)
	if chunks[0] != "abcdef" {
		t.Fatalf("expected cut before the placeholder, got %q", chunks)
	}
	if !strings.HasPrefix(chunks[1], placeholder.Token(12)) {
		t.Errorf("placeholder was split: %q", chunks)
	}
}

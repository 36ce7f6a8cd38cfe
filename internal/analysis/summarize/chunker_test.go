package summarize

import (
	"strings"
	"testing"
)

func TestSplitChunks_SmallTextSingleChunk(t *testing.T) {
	text := "Short agreement body."
	chunks := SplitChunks(text, 4000, 200)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}

func TestSplitChunks_NineThousandCharsYieldsThree(t *testing.T) {
	// 1800 five-char words = 9000 chars. With size 4000 / overlap 200 the
	// windows land near 0-4000, 3800-7800, 7600-9000.
	text := strings.TrimSpace(strings.Repeat("party ", 1500))
	if len(text) != 8999 {
		t.Fatalf("fixture length drifted: %d", len(text))
	}

	chunks := SplitChunks(text, 4000, 200)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > 4000 {
			t.Errorf("chunk %d exceeds size: %d chars", i, len(c))
		}
	}
	// Overlap: tail of chunk N reappears near the head of chunk N+1.
	tail := chunks[0][len(chunks[0])-100:]
	if !strings.Contains(chunks[1][:400], tail) {
		t.Error("chunks do not overlap")
	}
}

func TestSplitChunks_PrefersParagraphBoundary(t *testing.T) {
	first := strings.TrimSpace(strings.Repeat("alpha ", 640)) //~3840 chars
	second := strings.TrimSpace(strings.Repeat("beta ", 300))
	text := first + "\n\n" + second

	chunks := SplitChunks(text, 4000, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("first cut should snap to the paragraph break, chunk ends %q", chunks[0][len(chunks[0])-10:])
	}
}

func TestSplitChunks_SentenceBeatsWordBoundary(t *testing.T) {
	sentence := "The indemnifying party shall hold harmless the other. "
	text := strings.Repeat(sentence, 200) //~11000 chars, no newlines

	chunks := SplitChunks(text, 4000, 200)
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c, ". ") {
			t.Errorf("chunk %d should end at a sentence boundary, got %q", i, c[len(c)-12:])
		}
	}
}

func TestSplitChunks_NoSeparatorHardCut(t *testing.T) {
	text := strings.Repeat("x", 9000)
	chunks := SplitChunks(text, 4000, 200)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 hard-cut chunks, got %d", len(chunks))
	}
}

func TestSplitChunks_Empty(t *testing.T) {
	if got := SplitChunks("", 4000, 200); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}

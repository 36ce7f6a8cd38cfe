package summarize

import "strings"

// separators ordered best to worst for keeping chunks semantically whole:
// paragraph, line, sentence, word.
var separators = []string{"\n\n", "\n", ". ", " "}

// snapWindow bounds how far back from the target cut we search for a
// separator before falling back to the next-worse separator class.
const snapWindow = 400

// SplitChunks partitions text into overlapping chunks of roughly size
// characters. Cut points snap to the best available separator near the
// target so chunks avoid ending mid-sentence where possible; consecutive
// chunks overlap by roughly overlap characters.
func SplitChunks(text string, size, overlap int) []string {
	if size <= 0 || len(text) <= size {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	if overlap >= size {
		overlap = size / 2
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}

		cut := snapCut(text, start, end)
		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			next = cut //degenerate separator layout, skip the overlap to guarantee progress
		}
		start = next
	}
}

// snapCut finds the cut position for the window [start, end): the last
// separator within snapWindow of end, trying separator classes in priority
// order. The separator stays with the earlier chunk. Falls back to a hard
// cut at end when no separator is found.
func snapCut(text string, start, end int) int {
	low := end - snapWindow
	if low < start+1 {
		low = start + 1
	}

	for _, sep := range separators {
		if idx := strings.LastIndex(text[low:end], sep); idx >= 0 {
			return low + idx + len(sep)
		}
	}
	return end
}

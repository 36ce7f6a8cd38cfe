package hashing

import (
	"bytes"
	"strings"
	"testing"
)

func TestContentHash_ChunkSizeIndependent(t *testing.T) {
	payload := bytes.Repeat([]byte("whereas the parties agree "), 1000)

	oneByte, err := ContentHash(bytes.NewReader(payload), 1)
	if err != nil {
		t.Fatalf("ContentHash(1): %v", err)
	}
	bigChunk, err := ContentHash(bytes.NewReader(payload), 8192)
	if err != nil {
		t.Fatalf("ContentHash(8192): %v", err)
	}

	if oneByte != bigChunk {
		t.Errorf("digest differs by chunk size: %s vs %s", oneByte, bigChunk)
	}
}

func TestContentHash_DistinctContent(t *testing.T) {
	a, _ := ContentHash(strings.NewReader("contract A"), 0)
	b, _ := ContentHash(strings.NewReader("contract B"), 0)
	if a == b {
		t.Error("distinct content produced identical digests")
	}
}

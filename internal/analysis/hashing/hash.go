package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/clauselens/clauselens/internal/config"
)

// ContentHash streams r through SHA-256 in chunkSize reads and returns the
// hex digest. The digest depends only on the bytes, never on chunkSize.
func ContentHash(r io.Reader, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		chunkSize = config.HashChunkSize
	}
	digest := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(digest, r, buf); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// HashFile computes the content hash of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ContentHash(f, config.HashChunkSize)
}

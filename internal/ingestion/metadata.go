package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the SHA256 hex digest stored with every upload.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

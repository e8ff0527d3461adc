package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// SHA256Hex returns the hex encoded SHA-256 checksum of data.
func SHA256Hex(data []byte) string {
	sum := SumSHA256(data)
	return hex.EncodeToString(sum[:])
}

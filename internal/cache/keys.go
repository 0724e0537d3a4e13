package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// PrefixDigest namespaces content digest entries
const PrefixDigest = "digest"

// GenerateKey generates a cache key from arbitrary key material.
// The key is a SHA256 hash of the material.
func GenerateKey(material string) string {
	hash := sha256.Sum256([]byte(material))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, material string) string {
	return prefix + ":" + GenerateKey(material)
}

// DigestKey identifies a file revision by absolute path, size and
// modification time. A rewrite that preserves all three reuses the old
// digest; callers needing certainty must not use the cache.
func DigestKey(absPath string, size int64, modTime time.Time) string {
	material := absPath + "\x00" +
		strconv.FormatInt(size, 10) + "\x00" +
		strconv.FormatInt(modTime.UnixNano(), 10)
	return GenerateKeyWithPrefix(PrefixDigest, material)
}

package revision

import (
	"crypto/rand"
	"encoding/hex"
)

// HashLength is the size of a revision's human-referenceable label.
const HashLength = 8

// warnRetryThreshold is the collision count past which callers should log;
// hitting it with realistic per-page revision counts means something is off
// with the random source.
const WarnRetryThreshold = 100

// AllocateHash returns an 8-character hash that does not collide with any
// existing hash for the page. Collisions are retried without bound; the
// second return value reports how many retries it took so the caller can
// log past WarnRetryThreshold.
func AllocateHash(existing map[string]struct{}) (string, int) {
	retries := 0
	for {
		candidate := randomHash()
		if _, taken := existing[candidate]; !taken {
			return candidate, retries
		}
		retries++
	}
}

func randomHash() string {
	buf := make([]byte, HashLength/2)
	// rand.Read on a crypto source does not fail in practice; a short read
	// would still yield hex of whatever was filled.
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

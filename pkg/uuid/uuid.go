// Package uuid provides UUID v7 generation for per-turn message ids and
// persisted row ids. v7 embeds a millisecond timestamp, so ids sort by
// creation time.
package uuid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// UUID is a 16-byte UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a UUID v7 (draft-ietf-uuidrev-rfc4122bis):
// 48 bits of UNIX milliseconds, then version/variant bits, the rest random.
func NewV7() UUID {
	var u UUID

	now := time.Now().UnixMilli()
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	// crypto/rand on the platform source does not fail in practice; a zeroed
	// suffix would still be a valid (if less unique) id.
	_, _ = rand.Read(u[6:])

	// Version nibble 0111 in byte 6, RFC 4122 variant 10xxxxxx in byte 7.
	u[6] = 0x70 | (u[6] & 0x0f)
	u[7] = 0x80 | (u[7] & 0x3f)

	return u
}

// String renders the canonical form xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}

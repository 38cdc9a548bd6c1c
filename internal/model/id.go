package model

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

var objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a 24-hex-character object id: a 4-byte unix timestamp
// followed by 8 random bytes. Timestamp-first keeps ids roughly sortable
// by creation time.
func NewID() string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(buf[4:]); err != nil {
		panic("model: failed to read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf[:])
}

// IsValidID reports whether s has the 24-hex-character id shape. Handlers
// check this before any id reaches the database.
func IsValidID(s string) bool {
	return objectIDRegex.MatchString(s)
}

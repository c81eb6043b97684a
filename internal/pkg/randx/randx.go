/*
Package randx provides cryptographically secure random identifiers.

It generates fixed-length Base62 consultation room codes and UUID connection
identifiers.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the number of characters in the Base62 set (62).
	Base62Len = int64(len(Base62Chars))

	// RoomCodeLength is the fixed length of generated room codes.
	RoomCodeLength = 8
)

// RoomCode generates a Base62 room code of RoomCodeLength characters using
// crypto/rand.
func RoomCode() (string, error) {
	result := make([]byte, RoomCodeLength)

	for i := 0; i < RoomCodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room code: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// ConnectionID generates a UUID v4 string identifying a live socket connection.
func ConnectionID() string {
	return uuid.New().String()
}

// IsValidRoomCode reports whether code is RoomCodeLength characters drawn
// entirely from the Base62 set.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}

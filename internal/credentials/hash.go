package credentials

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SaltLength is the number of hex characters in every generated salt.
const SaltLength = 16

// GenerateSalt returns length random hex characters read from crypto/rand.
func GenerateSalt(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid salt length %d", length)
	}
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random salt: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}

// HashPassword computes the hex HMAC-SHA256 of password keyed by salt.
func HashPassword(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

func newRecord(password string) (Record, error) {
	salt, err := GenerateSalt(SaltLength)
	if err != nil {
		return Record{}, err
	}
	return Record{Salt: salt, Hash: HashPassword(password, salt)}, nil
}

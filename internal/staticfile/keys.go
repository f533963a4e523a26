package staticfile

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const hashKeyInfo = "APPFILES_COOKIE_SIGNING_KEY"

// DeriveHashKey derives the 32 byte securecookie hash key from secret so that
// every instance sharing the secret verifies the same signatures. An empty
// secret yields an empty key.
func DeriveHashKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, nil
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hashKeyInfo)), key); err != nil {
		return nil, err
	}

	return key, nil
}

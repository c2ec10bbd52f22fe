package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
)

const (
	// PasswordAlphabet avoids characters that are easy to confuse when read aloud.
	PasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// PlaceholderSecret returns a random value used as the local password of
// accounts that only sign in through an external identity provider. Nobody
// ever learns it.
func PlaceholderSecret(length int) (string, error) {
	return RandomString(length, secretAlphabet)
}

// URLToken returns byteLength random bytes encoded as unpadded base64url.
func URLToken(byteLength int) (string, error) {
	if byteLength < 0 {
		return "", errNegativeLength
	}
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

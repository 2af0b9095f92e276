package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// GenerateFeedKey creates a signed calendar feed key using HMAC-SHA256
func GenerateFeedKey(secret, userID string) string {
	return userID + "." + sign(secret, userID)
}

// VerifyFeedKey validates a feed key and returns the user it was issued for
func VerifyFeedKey(secret, key string) (string, error) {
	userID, providedSignature, ok := strings.Cut(key, ".")
	if !ok || userID == "" || strings.Contains(providedSignature, ".") {
		return "", errors.New("invalid key format")
	}

	expectedSignature := sign(secret, userID)
	if !hmac.Equal([]byte(providedSignature), []byte(expectedSignature)) {
		return "", errors.New("invalid signature")
	}
	return userID, nil
}

func sign(secret, userID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

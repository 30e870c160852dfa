package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/yukikurage/goal-tracker-api/internal/constants"
)

// GenerateVerificationCode returns a random lowercase hex code of
// constants.VerificationCodeLength characters, e.g. "3fa91c".
func GenerateVerificationCode() (string, error) {
	bytes := make([]byte, (constants.VerificationCodeLength+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes)[:constants.VerificationCodeLength], nil
}

package utils

import (
	"math/rand"
	"time"
)

var otpRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateOTP returns a random numeric code of the given length.
func GenerateOTP(length int) string {
	if length <= 0 {
		return ""
	}
	const charset = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[otpRand.Intn(len(charset))]
	}
	return string(b)
}

package test

import "math/rand/v2"

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a random alphanumeric string of length between
// minLen and maxLen inclusive. It is used for throwaway staff credentials.
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = credentialAlphabet[rand.IntN(len(credentialAlphabet))]
	}
	return string(buf)
}

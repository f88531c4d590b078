package service

import "encoding/base64"

// The app-lock key and message bodies are stored base64-encoded. This
// is reversible obfuscation, not encryption, and is deliberately kept
// that way; see DESIGN.md.

func ObfuscateKey(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key))
}

// MatchKey reports whether the plaintext key matches the stored
// obfuscated value.
func MatchKey(stored, key string) bool {
	return stored != "" && stored == ObfuscateKey(key)
}

func ObfuscateText(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func RevealText(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

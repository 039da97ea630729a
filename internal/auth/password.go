package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt hash (cost 10) from a plaintext
// password. The salt is embedded in the returned hash.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. It
// never returns an error: malformed or truncated hashes simply fail
// verification.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

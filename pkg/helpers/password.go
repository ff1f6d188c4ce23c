package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = 12

// HashPassword hashes the plain text password using bcrypt at PasswordCost
func HashPassword(plain string) (string, error) {
	return HashPasswordCost(plain, PasswordCost)
}

// HashPasswordCost hashes with an explicit work factor; bcrypt applies a fresh random salt per call.
func HashPasswordCost(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

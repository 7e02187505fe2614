package auth

import (
	"golang.org/x/crypto/bcrypt"

	"fabcatalogue/schema"
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

// HashPassword returns a bcrypt hash of password. Passwords longer than
// bcrypt accepts come back as a field error on "password".
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", passwordTooLong()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err == bcrypt.ErrPasswordTooLong {
		return "", passwordTooLong()
	}
	return string(hash), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func passwordTooLong() error {
	return &schema.ValidationError{Fields: map[string][]string{
		"password": {"Longer than maximum length 72 bytes."},
	}}
}

package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword salts and hashes with bcrypt; the salt is random per call, so
// hashing the same password twice yields different strings that both verify.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

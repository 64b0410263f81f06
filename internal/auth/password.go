package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost parents' passwords were always hashed with
const BcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ChildPassword is the predictable starter password given to new child accounts
func ChildPassword(firstName string) string {
	return normalizeName(firstName) + "123"
}

// ChildUsername is first+last name plus a 0-999 suffix; collisions are the caller's problem
func ChildUsername(firstName, lastName string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("failed to draw username suffix: %w", err)
	}
	return fmt.Sprintf("%s%s%d", normalizeName(firstName), normalizeName(lastName), n.Int64()), nil
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

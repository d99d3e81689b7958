package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHashService implements ports.HashService with bcrypt.
type BcryptHashService struct {
	cost int
}

// NewHashService creates a bcrypt hasher with the default cost.
func NewHashService() *BcryptHashService {
	return &BcryptHashService{cost: bcrypt.DefaultCost}
}

// Hash hashes a password or PIN.
func (s *BcryptHashService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks a password against its hash. A mismatch is not an error.
func (s *BcryptHashService) Verify(password string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

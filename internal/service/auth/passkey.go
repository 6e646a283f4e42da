// Package auth provides authentication primitives: passkey hashing and
// verification with bcrypt, and JWT issuance and validation for the API
// surface. Profiles authenticate with a short passkey rather than a
// full credential pair, but the passkey is stored hashed all the same.
package auth

import "golang.org/x/crypto/bcrypt"

// PasskeyVerifier defines the interface for comparing passkeys.
type PasskeyVerifier interface {
	// Compare compares a hashed passkey with its possible plaintext
	// equivalent. Returns nil on success, ErrInvalidPasskey on mismatch.
	Compare(hashedPasskey, passkey string) error
}

// PasskeyHasher defines the interface for hashing passkeys.
type PasskeyHasher interface {
	// Hash derives a storable hash from a plaintext passkey.
	Hash(passkey string) (string, error)
}

// BcryptPasskey implements PasskeyVerifier and PasskeyHasher using bcrypt.
type BcryptPasskey struct {
	cost int
}

// NewBcryptPasskey creates a BcryptPasskey with the given cost. A
// non-positive cost falls back to bcrypt.DefaultCost.
func NewBcryptPasskey(cost int) *BcryptPasskey {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasskey{cost: cost}
}

// Hash implements the PasskeyHasher interface using bcrypt.
func (b *BcryptPasskey) Hash(passkey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare implements the PasskeyVerifier interface using bcrypt.
func (b *BcryptPasskey) Compare(hashedPasskey, passkey string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPasskey), []byte(passkey)); err != nil {
		return ErrInvalidPasskey
	}
	return nil
}

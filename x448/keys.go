package x448

import (
	"bytes"
	"crypto"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"io"
)

const (
	// PublicKeySize is the size, in bytes, of public keys as used in this package.
	PublicKeySize = 56
	// PrivateKeySize is the size, in bytes, of private keys as used in this package:
	// the 56-byte seed followed by the 56-byte public key.
	PrivateKeySize = 112
	// SeedSize is the size, in bytes, of private key seeds (RFC7748 scalars).
	SeedSize = 56
)

// basePoint is the X448 base point u=5, encoded little-endian per RFC7748 Section 5.
var basePoint = func() []byte {
	p := make([]byte, PublicKeySize)
	p[0] = 5
	return p
}()

// PublicKey is the type of X448 public keys.
type PublicKey []byte

// Equal reports whether pub and x have the same value.
func (pub PublicKey) Equal(x crypto.PublicKey) bool {
	xx, ok := x.(PublicKey)
	if !ok {
		return false
	}
	return bytes.Equal(pub, xx)
}

// PrivateKey is the type of X448 private keys: a seed followed by its
// public key, mirroring this repository's x25519.PrivateKey layout.
type PrivateKey []byte

// Public returns the PublicKey corresponding to priv.
func (priv PrivateKey) Public() crypto.PublicKey {
	publicKey := make([]byte, PublicKeySize)
	copy(publicKey, priv[SeedSize:])
	return PublicKey(publicKey)
}

// Equal reports whether priv and x have the same value.
func (priv PrivateKey) Equal(x crypto.PrivateKey) bool {
	xx, ok := x.(PrivateKey)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(priv, xx) == 1
}

// Seed returns the private key seed (clamped scalar) corresponding to priv.
func (priv PrivateKey) Seed() []byte {
	seed := make([]byte, SeedSize)
	copy(seed, priv[:SeedSize])
	return seed
}

// ECDH performs a Diffie-Hellman key exchange, returning the shared secret.
func (priv PrivateKey) ECDH(pub PublicKey) ([]byte, error) {
	return X448(priv.Seed(), pub)
}

// GenerateKey generates a public/private key pair using entropy from rand.
// If rand is nil, crypto/rand.Reader is used.
func GenerateKey(rand io.Reader) (PrivateKey, error) {
	if rand == nil {
		rand = cryptorand.Reader
	}
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, err
	}
	return NewKeyFromSeed(seed), nil
}

// NewKeyFromSeed derives a PrivateKey from a 56-byte scalar. It panics if
// len(seed) != SeedSize.
func NewKeyFromSeed(seed []byte) PrivateKey {
	if len(seed) != SeedSize {
		panic("x448: bad seed length")
	}
	pub, err := X448(seed, basePoint)
	if err != nil {
		panic(err)
	}
	priv := make([]byte, 0, PrivateKeySize)
	priv = append(priv, seed...)
	priv = append(priv, pub...)
	return PrivateKey(priv)
}

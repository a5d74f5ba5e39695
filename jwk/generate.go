package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	"github.com/joseware/jose/ed448"
	"github.com/joseware/jose/internal/joseerr"
	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/secp256k1"
	"github.com/joseware/jose/x25519"
	"github.com/joseware/jose/x448"
)

var b64 = base64.RawURLEncoding

// minRSAKeyBits is the minimum RSA modulus size this package will
// generate, matching the spec's "the minimum accepted is 2048".
const minRSAKeyBits = 2048

// GenerateKeyPair generates a new key pair for family, sets a random
// 128-bit kid when kid is empty, and returns the resulting *Key (which
// carries both the private and public halves).
//
// For family == jwa.RSA, bits is the modulus size (minimum 2048).
// For family == jwa.EC, bits selects the curve: 256, 384 or 521; pass
// -1 to request secp256k1 (ES256K, RFC8812) instead of a NIST curve.
// For family == jwa.Oct, bits is the symmetric key size in bits.
// Any other family, jwa.OKP included, is rejected with an error wrapping
// joseerr.ErrParam; OKP keys are generated by GenerateOKPKeyPair, which
// takes the curve by name.
func GenerateKeyPair(family jwa.KeyType, bits int, kid string) (*Key, error) {
	var key *Key
	var err error
	switch family {
	case jwa.RSA:
		key, err = generateRSAKeyPair(bits)
	case jwa.EC:
		key, err = generateECKeyPair(bits)
	case jwa.Oct:
		key, err = generateSymmetricKey(bits)
	default:
		return nil, joseerr.Param("jwk: GenerateKeyPair does not support family %q; use GenerateOKPKeyPair for OKP", family)
	}
	if err != nil {
		return nil, err
	}
	setGeneratedKeyID(key, kid)
	return key, nil
}

// GenerateOKPKeyPair generates a new Octet Key Pair (RFC8037) for the
// given curve (Ed25519, Ed448, X25519 or X448).
func GenerateOKPKeyPair(crv jwa.EllipticCurve, kid string) (*Key, error) {
	var priv interface{ Public() crypto.PublicKey }
	var err error
	switch crv {
	case jwa.Ed25519:
		var p ed25519.PrivateKey
		_, p, err = ed25519.GenerateKey(rand.Reader)
		priv = p
	case jwa.Ed448:
		var p ed448.PrivateKey
		_, p, err = ed448.GenerateKey(rand.Reader)
		priv = p
	case jwa.X25519:
		var p x25519.PrivateKey
		_, p, err = x25519.GenerateKey(rand.Reader)
		priv = p
	case jwa.X448:
		priv, err = x448.GenerateKey(rand.Reader)
	default:
		return nil, joseerr.Param("jwk: unsupported OKP curve %q", crv)
	}
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to generate %s key: %w", crv, err)
	}

	key := &Key{kty: jwa.OKP, priv: priv, pub: priv.Public()}
	setGeneratedKeyID(key, kid)
	return key, nil
}

func generateRSAKeyPair(bits int) (*Key, error) {
	if bits < minRSAKeyBits {
		return nil, joseerr.Param("jwk: RSA key size %d is below the minimum of %d bits", bits, minRSAKeyBits)
	}
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to generate RSA key: %w", err)
	}
	return &Key{
		kty:  jwa.RSA,
		priv: priv,
		pub:  &priv.PublicKey,
	}, nil
}

func generateECKeyPair(bits int) (*Key, error) {
	var curve elliptic.Curve
	switch bits {
	case 256:
		curve = elliptic.P256()
	case 384:
		curve = elliptic.P384()
	case 521:
		curve = elliptic.P521()
	case -1:
		curve = secp256k1.Curve()
	default:
		return nil, joseerr.Param("jwk: unsupported EC curve size %d", bits)
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwk: failed to generate EC key: %w", err)
	}
	return &Key{
		kty:  jwa.EC,
		priv: priv,
		pub:  &priv.PublicKey,
	}, nil
}

func generateSymmetricKey(bits int) (*Key, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, joseerr.Param("jwk: symmetric key size must be a positive multiple of 8 bits, got %d", bits)
	}
	buf := make([]byte, bits/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("jwk: failed to generate symmetric key: %w", err)
	}
	return &Key{
		kty:  jwa.Oct,
		priv: buf,
	}, nil
}

func setGeneratedKeyID(key *Key, kid string) {
	if kid != "" {
		key.kid = kid
		return
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return
	}
	key.kid = b64.EncodeToString(buf)
}

// NewSymmetricKey wraps raw bytes as an "oct" Key.
func NewSymmetricKey(k []byte, kid string) *Key {
	key := &Key{
		kty:  jwa.Oct,
		priv: append([]byte(nil), k...),
		kid:  kid,
	}
	return key
}

// NewPasswordKey wraps a password as an "oct" Key, matching the
// original_source convenience constructor for password-derived
// symmetric keys (PBES2 inputs, for example).
func NewPasswordKey(password []byte, kid string) *Key {
	return NewSymmetricKey(password, kid)
}

// SymmetricKey returns the raw bytes of an "oct" key.
func (key *Key) SymmetricKey() ([]byte, error) {
	k, ok := key.priv.([]byte)
	if !ok {
		return nil, joseerr.Param("jwk: key is not a symmetric key")
	}
	return append([]byte(nil), k...), nil
}

package jwk

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"

	"github.com/joseware/jose/ed448"
	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/x25519"
	"github.com/joseware/jose/x448"
)

// KeyClass is the derived classification described in spec section 3:
// a bitfield combining whether a Key carries public and/or private
// material with the cryptographic family it belongs to.
type KeyClass uint

const (
	// ClassPublic is set when at least the verification/encryption
	// material is present.
	ClassPublic KeyClass = 1 << iota
	// ClassPrivate is set when the signing/decryption material is
	// present. A private key always implies ClassPublic.
	ClassPrivate

	ClassRSA
	ClassEC
	ClassEdDSA
	ClassECDH
	ClassHMAC
)

// Class returns the derived classification word for key: 0 if key is
// nil or has neither public nor private material.
func (key *Key) Class() KeyClass {
	if key == nil {
		return 0
	}
	var class KeyClass
	if key.priv != nil {
		class |= ClassPrivate | ClassPublic
	} else if key.pub != nil {
		class |= ClassPublic
	}
	if class == 0 {
		return 0
	}

	switch key.kty {
	case jwa.RSA:
		class |= ClassRSA
	case jwa.EC:
		class |= ClassEC
	case jwa.Oct:
		class |= ClassHMAC
	case jwa.OKP:
		switch key.priv.(type) {
		case ed25519.PrivateKey, ed448.PrivateKey:
			class |= ClassEdDSA
		case x25519.PrivateKey, x448.PrivateKey:
			class |= ClassECDH
		default:
			switch key.pub.(type) {
			case ed25519.PublicKey, ed448.PublicKey:
				class |= ClassEdDSA
			case x25519.PublicKey, x448.PublicKey:
				class |= ClassECDH
			}
		}
	}
	return class
}

// Bits returns the RSA modulus bit length, EC/OKP curve bit length, or
// symmetric key bit length. It returns 0 if key is nil or invalid.
func (key *Key) Bits() int {
	if key == nil {
		return 0
	}
	switch key.kty {
	case jwa.RSA:
		if pub, ok := key.pub.(*rsa.PublicKey); ok {
			return pub.N.BitLen()
		}
		if priv, ok := key.priv.(*rsa.PrivateKey); ok {
			return priv.N.BitLen()
		}
	case jwa.EC:
		if pub, ok := key.pub.(*ecdsa.PublicKey); ok {
			return pub.Curve.Params().BitSize
		}
		if priv, ok := key.priv.(*ecdsa.PrivateKey); ok {
			return priv.Curve.Params().BitSize
		}
	case jwa.OKP:
		switch key.pub.(type) {
		case ed25519.PublicKey:
			return 256
		case ed448.PublicKey:
			return 448
		case x25519.PublicKey:
			return 253
		case x448.PublicKey:
			return 448
		}
		switch key.priv.(type) {
		case ed25519.PrivateKey:
			return 256
		case ed448.PrivateKey:
			return 448
		case x25519.PrivateKey:
			return 253
		case x448.PrivateKey:
			return 448
		}
	case jwa.Oct:
		if k, ok := key.priv.([]byte); ok {
			return len(k) * 8
		}
	}
	return 0
}

// ExtractPublicKey strips the private members from priv, preserving
// kid, alg, use and the x5c/x5u certificate references (spec section
// 4.1 "extract_pubkey").
func ExtractPublicKey(priv *Key) *Key {
	if priv == nil {
		return nil
	}
	return &Key{
		kty:     priv.kty,
		use:     priv.use,
		keyOps:  priv.keyOps,
		alg:     priv.alg,
		kid:     priv.kid,
		x5u:     priv.x5u,
		x5c:     priv.x5c,
		x5t:     priv.x5t,
		x5tS256: priv.x5tS256,
		pub:     priv.pub,
	}
}

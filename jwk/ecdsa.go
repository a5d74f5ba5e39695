package jwk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/joseware/jose/internal/jsonutils"
	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/secp256k1"
)

// RFC7518 6.2.2. Parameters for Elliptic Curve Private Keys
func parseEcdsaKey(d *jsonutils.Decoder, key *Key) {
	var privateKey ecdsa.PrivateKey
	crv := jwa.EllipticCurve(d.MustString("crv"))
	switch crv {
	case jwa.P256:
		privateKey.Curve = elliptic.P256()
	case jwa.P384:
		privateKey.Curve = elliptic.P384()
	case jwa.P521:
		privateKey.Curve = elliptic.P521()
	case jwa.Secp256k1:
		// RFC8812 ES256K.
		privateKey.Curve = secp256k1.Curve()
	default:
		d.SaveError(fmt.Errorf("jwk: unknown crv: %q", crv))
		return
	}

	// parameters for public key
	privateKey.X = new(big.Int).SetBytes(d.MustBytes("x"))
	privateKey.Y = new(big.Int).SetBytes(d.MustBytes("y"))
	if !privateKey.Curve.IsOnCurve(privateKey.X, privateKey.Y) {
		d.SaveError(errors.New("jwk: the point is not on the curve"))
		return
	}
	key.pub = &privateKey.PublicKey

	// parameters for private key
	if param, ok := d.GetBytes("d"); ok {
		privateKey.D = new(big.Int).SetBytes(param)
		key.priv = &privateKey
	}

	// sanity check of the certificate
	if certs := key.x5c; len(certs) > 0 {
		cert := certs[0]
		publicKey, ok := cert.PublicKey.(*ecdsa.PublicKey)
		if !ok {
			d.SaveError(errors.New("jwk: public key types are mismatch"))
			return
		}
		if !privateKey.PublicKey.Equal(publicKey) {
			d.SaveError(errors.New("jwk: public keys are mismatch"))
			return
		}
	}
}

func encodeEcdsaKey(e *jsonutils.Encoder, priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) {
	size := (pub.Curve.Params().BitSize + 7) / 8

	e.Set("kty", jwa.EC.String())
	switch pub.Curve {
	case elliptic.P256():
		e.Set("crv", jwa.P256.String())
	case elliptic.P384():
		e.Set("crv", jwa.P384.String())
	case elliptic.P521():
		e.Set("crv", jwa.P521.String())
	case secp256k1.Curve():
		e.Set("crv", jwa.Secp256k1.String())
	default:
		e.SaveError(fmt.Errorf("jwk: unknown curve: %s", pub.Curve.Params().Name))
		return
	}
	e.SetBytes("x", padBigInt(pub.X, size))
	e.SetBytes("y", padBigInt(pub.Y, size))
	if priv != nil {
		e.SetBytes("d", padBigInt(priv.D, size))
	}
}

// padBigInt encodes i as a big-endian byte slice of exactly size bytes,
// left-padding with zeros as RFC7518 6.2.1 requires for EC coordinates.
func padBigInt(i *big.Int, size int) []byte {
	buf := make([]byte, size)
	b := i.Bytes()
	copy(buf[size-len(b):], b)
	return buf
}

func validateEcdsaPrivateKey(key *ecdsa.PrivateKey) error {
	if key.Curve == nil || key.X == nil || key.Y == nil || key.D == nil {
		return errors.New("jwk: invalid ecdsa private key")
	}
	if !key.Curve.IsOnCurve(key.X, key.Y) {
		return errors.New("jwk: the point is not on the curve")
	}
	return nil
}

func validateEcdsaPublicKey(key *ecdsa.PublicKey) error {
	if key.Curve == nil || key.X == nil || key.Y == nil {
		return errors.New("jwk: invalid ecdsa public key")
	}
	if !key.Curve.IsOnCurve(key.X, key.Y) {
		return errors.New("jwk: the point is not on the curve")
	}
	return nil
}

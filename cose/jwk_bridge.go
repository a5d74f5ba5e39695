package cose

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/jwk"
)

// JWK converts key into its JSON Web Key equivalent, so a COSE_Key
// retrieved from a CBOR-based protocol can be handed to the jws/jwe
// packages. Only the EC2 and Symmetric key types are supported. ParseMap
// decodes only EC2 keys, so a Symmetric Key comes from NewKey.
func (key *Key) JWK() (*jwk.Key, error) {
	out := &jwk.Key{}
	switch pub := key.pub.(type) {
	case *ecdsa.PublicKey:
		out.SetPublicKey(pub)
		if key.priv != nil {
			out.SetPrivateKey(key.priv)
		}
	case nil:
		switch priv := key.priv.(type) {
		case []byte:
			out.SetPrivateKey(append([]byte(nil), priv...))
		case nil:
			return nil, fmt.Errorf("cose: key has neither public nor private material")
		default:
			return nil, fmt.Errorf("cose: unsupported private key type %T", priv)
		}
	default:
		return nil, fmt.Errorf("cose: unsupported public key type %T", pub)
	}
	if len(key.kid) > 0 {
		out.SetKeyID(string(key.kid))
	}
	return out, nil
}

// NewKey builds a COSE_Key from a JSON Web Key, for protocols that
// exchange key material as CBOR. It supports the same EC2/Symmetric
// subset JWK produces.
func NewKey(k *jwk.Key) (*Key, error) {
	out := &Key{
		Raw: map[any]any{},
	}
	if kid := k.KeyID(); kid != "" {
		out.kid = []byte(kid)
	}

	switch k.KeyType() {
	case jwa.EC:
		out.kty = KeyTypeEC2
		if priv, ok := k.PrivateKey().(*ecdsa.PrivateKey); ok {
			out.priv = priv
			out.pub = &priv.PublicKey
			return out, nil
		}
		pub, ok := k.PublicKey().(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("cose: jwk has no usable EC key material")
		}
		out.pub = pub
		return out, nil

	case jwa.Oct:
		out.kty = KeyTypeSymmetric
		secret, ok := k.PrivateKey().([]byte)
		if !ok {
			return nil, fmt.Errorf("cose: jwk has no usable symmetric key material")
		}
		out.priv = append([]byte(nil), secret...)
		return out, nil

	default:
		return nil, fmt.Errorf("cose: unsupported JWK key type for CBOR export: %s", k.KeyType())
	}
}

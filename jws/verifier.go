package jws

import (
	"context"
	"errors"

	"github.com/joseware/jose/jwa"
)

var errVerifyFailed = errors.New("jws: failed to verify the message")

// AlgorithmVerfier verifies the algorithm used for signing.
type AlgorithmVerfier interface {
	VerifyAlgorithm(ctx context.Context, alg jwa.SignatureAlgorithm) error
}

type AllowedAlgorithms []jwa.SignatureAlgorithm

func (a AllowedAlgorithms) VerifyAlgorithm(ctx context.Context, alg jwa.SignatureAlgorithm) error {
	for _, allowed := range a {
		if alg == allowed {
			return nil
		}
	}
	return errors.New("jws: signing algorithm is not allowed")
}

// UnsecureAnyAlgorithm is an AlgorithmVerfier that accepts any algorithm.
var UnsecureAnyAlgorithm = unsecureAnyAlgorithmVerifier{}

type unsecureAnyAlgorithmVerifier struct{}

func (unsecureAnyAlgorithmVerifier) VerifyAlgorithm(ctx context.Context, alg jwa.SignatureAlgorithm) error {
	return nil
}

// Verifier verifies the JWS message.
type Verifier struct {
	_NamedFieldsRequired struct{}

	AlgorithmVerfier AlgorithmVerfier
	KeyFinder        KeyFinder
}

// Verify verifies the JWS message.
func (v *Verifier) Verify(ctx context.Context, msg *Message) (protected *Header, payload []byte, err error) {
	_ = v._NamedFieldsRequired
	if v.AlgorithmVerfier == nil || v.KeyFinder == nil {
		return nil, nil, errors.New("jws: verifier is not configured")
	}

	// pre-allocate buffer
	size := 0
	for _, s := range msg.Signatures {
		if len(s.rawProtected) > size {
			size = len(s.rawProtected)
		}
	}
	size += len(msg.payload) + 1 // +1 for '.'
	buf := make([]byte, size)

	for _, s := range msg.Signatures {
		if err := v.AlgorithmVerfier.VerifyAlgorithm(ctx, s.protected.Algorithm()); err != nil {
			continue
		}
		key, err := v.KeyFinder.FindKey(ctx, s.protected, s.header)
		if err != nil {
			continue
		}
		buf = buf[:0]
		buf = append(buf, s.rawProtected...)
		buf = append(buf, '.')
		buf = append(buf, msg.payload...)
		err = key.Verify(buf, s.signature)
		if err == nil {
			var ret []byte
			if s.protected.Base64() {
				ret, err = b64Decode(msg.payload)
				if err != nil {
					return nil, nil, errVerifyFailed
				}
			} else {
				ret = msg.payload
			}
			return s.protected, ret, nil
		}
	}
	return nil, nil, errVerifyFailed
}

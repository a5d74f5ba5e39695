package jwe

import (
	"context"
	"crypto/x509"
	"errors"

	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/jwk"
	"github.com/joseware/jose/keymanage"
)

// ParseOptions controls which sources DefaultKeyWrapperFinder trusts
// when a message doesn't resolve against the caller-supplied key set.
// It mirrors jws.ParseOptions.
type ParseOptions uint

const (
	HeaderJWK ParseOptions = 1 << iota
	HeaderJKU
	HeaderX5C
	HeaderX5U

	HeaderAll = HeaderJWK | HeaderJKU | HeaderX5C | HeaderX5U
)

var errNoKey = errors.New("jwe: no key available to decrypt the message")

// DefaultKeyWrapperFinder resolves an unwrapping key the same way
// jws.DefaultKeyFinder resolves a verification key: Keys first, then
// whichever header-embedded sources Options enables. ctx is plumbed
// through FindKeyWrapperCtx for jku/x5u fetches.
type DefaultKeyWrapperFinder struct {
	Keys *jwk.Set

	Options ParseOptions

	Fetcher    jwk.Fetcher
	FetchFlags jwk.FetchFlags
}

func (f *DefaultKeyWrapperFinder) fetcher() jwk.Fetcher {
	if f.Fetcher != nil {
		return f.Fetcher
	}
	return jwk.NoFetcher
}

// FindKeyWrapperCtx resolves a KeyWrapper for the recipient described
// by protected/unprotected/recipient headers. Unlike KeyWrapperFinder,
// it takes a context so jku/x5u fetches can be canceled.
func (f *DefaultKeyWrapperFinder) FindKeyWrapperCtx(ctx context.Context, protected, unprotected, recipient *Header) (keymanage.KeyWrapper, error) {
	merged := mergeHeader(protected, unprotected, recipient)
	alg := merged.Algorithm()

	kid := merged.KeyID()
	if f.Keys != nil {
		if key, ok := f.Keys.SelectKey(kid, jwa.KeyAlgorithm(alg)); ok {
			return alg.New().NewKeyWrapper(key), nil
		}
	}

	if f.Options&HeaderJWK != 0 {
		if key := merged.JWK(); key != nil {
			return alg.New().NewKeyWrapper(key), nil
		}
	}

	if f.Options&HeaderX5C != 0 {
		if chain := merged.X509CertificateChain(); len(chain) > 0 {
			key := &jwk.Key{}
			key.SetPublicKey(chain[0].PublicKey)
			return alg.New().NewKeyWrapper(key), nil
		}
	}

	if f.Options&HeaderX5U != 0 {
		if u := merged.X509URL(); u != nil {
			data, _, err := f.fetcher().Fetch(ctx, u, f.FetchFlags)
			if err != nil {
				return nil, err
			}
			cert, err := x509.ParseCertificate(data)
			if err != nil {
				return nil, err
			}
			key := &jwk.Key{}
			key.SetPublicKey(cert.PublicKey)
			return alg.New().NewKeyWrapper(key), nil
		}
	}

	if f.Options&HeaderJKU != 0 {
		if u := merged.JWKSetURL(); u != nil {
			data, _, err := f.fetcher().Fetch(ctx, u, f.FetchFlags)
			if err != nil {
				return nil, err
			}
			set, err := jwk.ParseSet(data)
			if err != nil {
				return nil, err
			}
			if key, ok := set.SelectKey(kid, jwa.KeyAlgorithm(alg)); ok {
				return alg.New().NewKeyWrapper(key), nil
			}
		}
	}

	return nil, errNoKey
}

// FindKeyWrapper implements KeyWrapperFinder without a context, for
// callers that don't need jku/x5u fetches canceled.
func (f *DefaultKeyWrapperFinder) FindKeyWrapper(protected, unprotected, recipient *Header) (keymanage.KeyWrapper, error) {
	return f.FindKeyWrapperCtx(context.Background(), protected, unprotected, recipient)
}

func mergeHeader(protected, unprotected, recipient *Header) mergedHeader {
	return mergedHeader{unprotected, protected, recipient}
}

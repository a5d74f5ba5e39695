package jws

import (
	"context"
	"crypto/x509"
	"errors"

	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/jwk"
	"github.com/joseware/jose/sig"
)

// ParseOptions controls which sources DefaultKeyFinder trusts when a
// message doesn't resolve against the caller-supplied key set.
type ParseOptions uint

const (
	// HeaderJWK trusts an embedded "jwk" header member.
	HeaderJWK ParseOptions = 1 << iota
	// HeaderJKU fetches the key set referenced by a "jku" header member.
	HeaderJKU
	// HeaderX5C trusts an embedded "x5c" certificate chain's leaf key.
	HeaderX5C
	// HeaderX5U fetches the certificate referenced by an "x5u" header
	// member.
	HeaderX5U
	// ParseUnsigned allows "alg":"none" messages to parse with no
	// signature verification. Off by default.
	ParseUnsigned

	// HeaderAll enables every embedded-key source above, excluding
	// ParseUnsigned.
	HeaderAll = HeaderJWK | HeaderJKU | HeaderX5C | HeaderX5U
)

var errNoKey = errors.New("jws: no key available to verify the message")

// noneSigningKey implements sig.SigningKey for "alg":"none" messages
// parsed under ParseUnsigned: Verify succeeds only for a zero-length
// signature.
type noneSigningKey struct{}

func (noneSigningKey) Sign(payload []byte) ([]byte, error) { return nil, nil }
func (noneSigningKey) Verify(payload, signature []byte) error {
	if len(signature) != 0 {
		return errVerifyFailed
	}
	return nil
}

// DefaultKeyFinder resolves a signing key for Verifier: it tries Keys
// first (a caller-supplied, explicitly trusted key set wins over
// anything embedded in the message), and only consults header-embedded
// key material for the sources enabled in Options.
type DefaultKeyFinder struct {
	// Keys is consulted before any header-embedded material.
	Keys *jwk.Set

	Options ParseOptions

	// Fetcher resolves jku/x5u URLs. Required when those options are
	// enabled; defaults to jwk.NoFetcher otherwise.
	Fetcher    jwk.Fetcher
	FetchFlags jwk.FetchFlags
}

func (f *DefaultKeyFinder) fetcher() jwk.Fetcher {
	if f.Fetcher != nil {
		return f.Fetcher
	}
	return jwk.NoFetcher
}

// FindKey implements KeyFinder.
func (f *DefaultKeyFinder) FindKey(ctx context.Context, protected, unprotected *Header) (sig.SigningKey, error) {
	alg := protected.Algorithm()
	if alg == "none" {
		if f.Options&ParseUnsigned != 0 {
			return noneSigningKey{}, nil
		}
		return nil, errors.New("jws: alg \"none\" is not allowed")
	}

	kid := protected.KeyID()
	if kid == "" && unprotected != nil {
		kid = unprotected.KeyID()
	}
	if f.Keys != nil {
		if key, ok := f.Keys.SelectKey(kid, jwa.KeyAlgorithm(alg)); ok {
			return alg.New().NewSigningKey(key), nil
		}
	}

	if f.Options&HeaderJWK != 0 {
		if key := protected.JWK(); key != nil {
			return alg.New().NewSigningKey(key), nil
		}
		if unprotected != nil {
			if key := unprotected.JWK(); key != nil {
				return alg.New().NewSigningKey(key), nil
			}
		}
	}

	if f.Options&HeaderX5C != 0 {
		if chain := firstNonEmpty(protected.X509CertificateChain(), headerX5C(unprotected)); len(chain) > 0 {
			key := &jwk.Key{}
			key.SetPublicKey(chain[0].PublicKey)
			return alg.New().NewSigningKey(key), nil
		}
	}

	if f.Options&HeaderX5U != 0 {
		u := protected.X509URL()
		if u == nil && unprotected != nil {
			u = unprotected.X509URL()
		}
		if u != nil {
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
			return alg.New().NewSigningKey(key), nil
		}
	}

	if f.Options&HeaderJKU != 0 {
		u := protected.JWKSetURL()
		if u == nil && unprotected != nil {
			u = unprotected.JWKSetURL()
		}
		if u != nil {
			data, _, err := f.fetcher().Fetch(ctx, u, f.FetchFlags)
			if err != nil {
				return nil, err
			}
			set, err := jwk.ParseSet(data)
			if err != nil {
				return nil, err
			}
			if key, ok := set.SelectKey(kid, jwa.KeyAlgorithm(alg)); ok {
				return alg.New().NewSigningKey(key), nil
			}
		}
	}

	return nil, errNoKey
}

func headerX5C(h *Header) []*x509.Certificate {
	if h == nil {
		return nil
	}
	return h.X509CertificateChain()
}

func firstNonEmpty(a, b []*x509.Certificate) []*x509.Certificate {
	if len(a) > 0 {
		return a
	}
	return b
}

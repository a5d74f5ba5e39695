package jwk

import (
	"context"
	"crypto/x509"

	"github.com/joseware/jose/internal/joseerr"
)

// X5CValidateOptions configures ValidateX5CChain.
type X5CValidateOptions struct {
	// Roots anchors the validation. If nil, the last certificate in
	// the chain must be self-signed.
	Roots *x509.CertPool

	// Fetcher resolves key.X509URL() when the chain needs the remote
	// copy merged in, per RFC7515 section 4.1.6.
	Fetcher Fetcher

	// FetchFlags is passed to Fetcher.Fetch.
	FetchFlags FetchFlags
}

// ValidateX5CChain walks key's x5c certificate chain (spec section
// 4.1 "validate_x5c_chain"): each certificate must be signed by the
// next, and the last must be self-signed or anchored in opts.Roots. If
// key.X509URL is set and FetchFlags doesn't set IgnoreRemote, the
// fetched chain augments key.x5c first.
func ValidateX5CChain(ctx context.Context, key *Key, opts X5CValidateOptions) error {
	chain := key.x5c
	if key.x5u != nil && opts.FetchFlags&IgnoreRemote == 0 {
		fetcher := opts.Fetcher
		if fetcher == nil {
			fetcher = NoFetcher
		}
		data, _, err := fetcher.Fetch(ctx, key.x5u, opts.FetchFlags)
		if err != nil {
			return joseerr.Unsupported("jwk: failed to fetch x5u %s: %v", key.x5u, err)
		}
		cert, err := x509.ParseCertificate(data)
		if err != nil {
			return joseerr.Param("jwk: failed to parse x5u certificate: %v", err)
		}
		merged := append([]*x509.Certificate{cert}, chain...)
		chain = merged
	}

	if len(chain) == 0 {
		return joseerr.Param("jwk: no certificate chain to validate")
	}

	for i := 0; i < len(chain)-1; i++ {
		if err := chain[i].CheckSignatureFrom(chain[i+1]); err != nil {
			return joseerr.Invalid("jwk: certificate %d is not signed by certificate %d: %v", i, i+1, err)
		}
	}

	last := chain[len(chain)-1]
	if err := last.CheckSignatureFrom(last); err == nil {
		return nil
	}
	if opts.Roots == nil {
		return joseerr.Invalid("jwk: certificate chain does not terminate in a self-signed certificate and no trust roots were given")
	}
	if _, err := last.Verify(x509.VerifyOptions{Roots: opts.Roots}); err != nil {
		return joseerr.Invalid("jwk: certificate chain does not verify against the trust roots: %v", err)
	}
	return nil
}

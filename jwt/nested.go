package jwt

import (
	"context"
	"fmt"

	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/jwe"
	"github.com/joseware/jose/jws"
	"github.com/joseware/jose/keymanage"
	"github.com/joseware/jose/sig"
)

// Type discriminates the compact-serialized forms a token may take.
type Type int

const (
	TypeNone Type = iota
	TypeSigned
	TypeEncrypted
	// TypeNestedSignThenEncrypt is a JWE whose plaintext is a compact JWS.
	TypeNestedSignThenEncrypt
	// TypeNestedEncryptThenSign is a JWS whose payload is a compact JWE.
	TypeNestedEncryptThenSign
)

const jwtContentType = "JWT"

// SignAndEncrypt signs claims, then encrypts the resulting compact JWS
// as the plaintext of a JWE whose protected header carries cty=JWT, per
// RFC7519 section 5.2's nested JWT construction.
func SignAndEncrypt(sigProtected *jws.Header, claims *Claims, signingKey sig.SigningKey, encProtected *jwe.Header, enc jwa.EncryptionAlgorithm, kw keymanage.KeyWrapper) ([]byte, error) {
	innerJWS, err := Sign(sigProtected, claims, signingKey)
	if err != nil {
		return nil, fmt.Errorf("jwt: failed to sign: %w", err)
	}

	outer := encProtected.Clone()
	outer.SetContentType(jwtContentType)
	msg, err := jwe.NewMessageWithKW(enc, kw, outer, innerJWS)
	if err != nil {
		return nil, fmt.Errorf("jwt: failed to encrypt: %w", err)
	}
	return msg.Compact()
}

// EncryptAndSign is the mirror of SignAndEncrypt: it encrypts claims
// into a compact JWE, then signs that compact JWE as the payload of a
// JWS whose protected header carries cty=JWT.
func EncryptAndSign(encProtected *jwe.Header, claims *Claims, enc jwa.EncryptionAlgorithm, kw keymanage.KeyWrapper, sigProtected *jws.Header, signingKey sig.SigningKey) ([]byte, error) {
	payload, err := encodeClaims(claims)
	if err != nil {
		return nil, err
	}
	innerJWE, err := jwe.NewMessageWithKW(enc, kw, encProtected, payload)
	if err != nil {
		return nil, fmt.Errorf("jwt: failed to encrypt: %w", err)
	}
	compactJWE, err := innerJWE.Compact()
	if err != nil {
		return nil, err
	}

	outer := sigProtected.Clone()
	outer.SetContentType(jwtContentType)
	msg := jws.NewMessage(compactJWE)
	if err := msg.Sign(outer, nil, signingKey); err != nil {
		return nil, fmt.Errorf("jwt: failed to sign: %w", err)
	}
	return msg.Compact()
}

// NestedKeyResolver supplies the keys ParseNested needs to peel off
// each layer of a nested token.
type NestedKeyResolver interface {
	// FindVerificationKey returns the key used to verify a JWS layer.
	FindVerificationKey(ctx context.Context, header *jws.Header) (sig.SigningKey, error)
	// FindDecryptionKeyWrapper returns the wrapper used to unwrap a JWE
	// layer's content encryption key.
	FindDecryptionKeyWrapper(ctx context.Context, protected, unprotected, recipient *jwe.Header) (keymanage.KeyWrapper, error)
}

// ParseNested parses a compact-serialized token that may be a plain
// JWS, a plain JWE, or one level of nesting of either inside the
// other (dispatching on the outer layer's cty, per RFC7519 section
// 5.2). It reports which Type it found.
func ParseNested(ctx context.Context, data []byte, resolver NestedKeyResolver) (*Token, Type, error) {
	if looksLikeJWE(data) {
		return parseOuterJWE(ctx, data, resolver)
	}
	return parseOuterJWS(ctx, data, resolver)
}

func parseOuterJWE(ctx context.Context, data []byte, resolver NestedKeyResolver) (*Token, Type, error) {
	msg, err := jwe.Parse(data)
	if err != nil {
		return nil, TypeNone, fmt.Errorf("jwt: failed to parse: %w", err)
	}
	plaintext, err := msg.Decrypt(jwe.FindKeyWrapperFunc(func(protected, unprotected, recipient *jwe.Header) (keymanage.KeyWrapper, error) {
		return resolver.FindDecryptionKeyWrapper(ctx, protected, unprotected, recipient)
	}))
	if err != nil {
		return nil, TypeNone, fmt.Errorf("jwt: failed to decrypt: %w", err)
	}

	if msg.ProtectedHeader().ContentType() != jwtContentType {
		claims, err := parseClaims(plaintext)
		if err != nil {
			return nil, TypeNone, err
		}
		return &Token{Claims: claims}, TypeEncrypted, nil
	}

	token, err := verifyCompactJWS(ctx, plaintext, resolver)
	if err != nil {
		return nil, TypeNone, err
	}
	return token, TypeNestedSignThenEncrypt, nil
}

func parseOuterJWS(ctx context.Context, data []byte, resolver NestedKeyResolver) (*Token, Type, error) {
	msg, err := jws.ParseCompact(data)
	if err != nil {
		return nil, TypeNone, fmt.Errorf("jwt: failed to parse: %w", err)
	}
	header, payload, err := verifyJWSMessage(ctx, msg, resolver)
	if err != nil {
		return nil, TypeNone, err
	}

	if header.ContentType() != jwtContentType {
		claims, err := parseClaims(payload)
		if err != nil {
			return nil, TypeNone, err
		}
		return &Token{Header: header, Claims: claims}, TypeSigned, nil
	}

	inner, _, err := parseOuterJWE(ctx, payload, resolver)
	if err != nil {
		return nil, TypeNone, err
	}
	return inner, TypeNestedEncryptThenSign, nil
}

func verifyCompactJWS(ctx context.Context, data []byte, resolver NestedKeyResolver) (*Token, error) {
	msg, err := jws.ParseCompact(data)
	if err != nil {
		return nil, fmt.Errorf("jwt: failed to parse: %w", err)
	}
	header, payload, err := verifyJWSMessage(ctx, msg, resolver)
	if err != nil {
		return nil, err
	}
	claims, err := parseClaims(payload)
	if err != nil {
		return nil, err
	}
	return &Token{Header: header, Claims: claims}, nil
}

func verifyJWSMessage(ctx context.Context, msg *jws.Message, resolver NestedKeyResolver) (*jws.Header, []byte, error) {
	v := &jws.Verifier{
		AlgorithmVerfier: jws.UnsecureAnyAlgorithm,
		KeyFinder: jws.FindKeyFunc(func(ctx context.Context, protected, unprotected *jws.Header) (sig.SigningKey, error) {
			return resolver.FindVerificationKey(ctx, protected)
		}),
	}
	header, payload, err := v.Verify(ctx, msg)
	if err != nil {
		return nil, nil, fmt.Errorf("jwt: failed to verify: %w", err)
	}
	return header, payload, nil
}

// looksLikeJWE reports whether a compact token has the five segments
// of a JWE rather than a JWS's three.
func looksLikeJWE(data []byte) bool {
	dots := 0
	for _, b := range data {
		if b == '.' {
			dots++
		}
	}
	return dots == 4
}

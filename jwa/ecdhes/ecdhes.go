// Package ecdhes implements Key Agreement with Elliptic Curve Diffie-Hellman Ephemeral Static (ECDH-ES).
package ecdhes

import (
	"crypto"
	"crypto/ecdsa"
	cryptorand "crypto/rand"
	_ "crypto/sha256" // for crypto.SHA256
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/joseware/jose/jwa"
	"github.com/joseware/jose/jwa/akw"
	"github.com/joseware/jose/jwk"
	"github.com/joseware/jose/keymanage"
	"github.com/joseware/jose/x448"
	"github.com/joseware/jose/x25519"
)

var alg = &Algorithm{}

// New returns a new algorithm
// Elliptic Curve Diffie-Hellman Ephemeral Static key agreement using Concat KDF.
func New() keymanage.Algorithm {
	return alg
}

var a128kw = &Algorithm{
	size:  16,
	algID: []byte(jwa.ECDH_ES_A128KW),
}

// NewA128KW returns a new algorithm ECDH-ES using Concat KDF and CEK wrapped with "A128KW".
func NewA128KW() keymanage.Algorithm {
	return a128kw
}

var a192kw = &Algorithm{
	size:  24,
	algID: []byte(jwa.ECDH_ES_A192KW),
}

// NewA192KW returns a new algorithm ECDH-ES using Concat KDF and CEK wrapped with "A192KW".
func NewA192KW() keymanage.Algorithm {
	return a192kw
}

var a256kw = &Algorithm{
	size:  32,
	algID: []byte(jwa.ECDH_ES_A256KW),
}

// NewA256KW returns a new algorithm ECDH-ES using Concat KDF and CEK wrapped with "A256KW".
func NewA256KW() keymanage.Algorithm {
	return a256kw
}

func init() {
	jwa.RegisterKeyManagementAlgorithm(jwa.ECDH_ES, New)
	jwa.RegisterKeyManagementAlgorithm(jwa.ECDH_ES_A128KW, NewA128KW)
	jwa.RegisterKeyManagementAlgorithm(jwa.ECDH_ES_A192KW, NewA192KW)
	jwa.RegisterKeyManagementAlgorithm(jwa.ECDH_ES_A256KW, NewA256KW)
}

var _ keymanage.Algorithm = (*Algorithm)(nil)

// Algorithm is either plain ECDH-ES key agreement (size == 0, the derived
// key is used directly as the CEK) or ECDH-ES combined with a key-wrapping
// step (size is the wrapping key size in bytes and algID is the "alg" value
// used as the Concat KDF AlgorithmID).
type Algorithm struct {
	size  int
	algID []byte
}

// NewKeyWrapper implements [github.com/joseware/jose/keymanage.Algorithm].
func (alg *Algorithm) NewKeyWrapper(key keymanage.Key) keymanage.KeyWrapper {
	return &KeyWrapper{
		alg:  alg,
		priv: key.PrivateKey(),
		pub:  key.PublicKey(),
	}
}

var (
	_ keymanage.KeyWrapper = (*KeyWrapper)(nil)
	_ keymanage.KeyDeriver = (*KeyWrapper)(nil)
)

type KeyWrapper struct {
	alg  *Algorithm
	priv any
	pub  any
}

type encryptionAlgorithmGetter interface {
	EncryptionAlgorithm() jwa.EncryptionAlgorithm
}

type ephemeralPublicKeyGetter interface {
	EphemeralPublicKey() *jwk.Key
}

type ephemeralPublicKeySetter interface {
	SetEphemeralPublicKey(epk *jwk.Key)
}

type agreementPartyUInfoGetter interface {
	AgreementPartyUInfo() []byte
}

type agreementPartyVInfoGetter interface {
	AgreementPartyVInfo() []byte
}

func partyInfo(opts any) (apu, apv []byte) {
	if g, ok := opts.(agreementPartyUInfoGetter); ok {
		apu = g.AgreementPartyUInfo()
	}
	if g, ok := opts.(agreementPartyVInfoGetter); ok {
		apv = g.AgreementPartyVInfo()
	}
	return
}

// algorithmID returns the Concat KDF AlgorithmID: the "alg" value for
// ECDH-ES+AxxxKW, or the "enc" value for plain ECDH-ES.
func (w *KeyWrapper) algorithmID(opts any) ([]byte, error) {
	if w.alg.algID != nil {
		return w.alg.algID, nil
	}
	g, ok := opts.(encryptionAlgorithmGetter)
	if !ok {
		return nil, errors.New("ecdhes: EncryptionAlgorithm not found")
	}
	return []byte(g.EncryptionAlgorithm()), nil
}

// keySize returns the size, in bytes, of the key to derive: the
// wrapping-algorithm key size for ECDH-ES+AxxxKW, or the content
// encryption algorithm's CEK size for plain ECDH-ES.
func (w *KeyWrapper) keySize(opts any) (int, error) {
	if w.alg.size != 0 {
		return w.alg.size, nil
	}
	g, ok := opts.(encryptionAlgorithmGetter)
	if !ok {
		return 0, errors.New("ecdhes: EncryptionAlgorithm not found")
	}
	enc := g.EncryptionAlgorithm()
	if !enc.Available() {
		return 0, fmt.Errorf("ecdhes: requested content encryption algorithm %q is not available", string(enc))
	}
	return enc.New().CEKSize(), nil
}

// WrapKey implements [github.com/joseware/jose/keymanage.KeyWrapper].
// It is only valid for ECDH-ES+AxxxKW; plain ECDH-ES must be driven
// through DeriveKey instead.
func (w *KeyWrapper) WrapKey(cek []byte, opts any) ([]byte, error) {
	if w.alg.size == 0 {
		return nil, errors.New("ecdhes: plain ECDH-ES key agreement must be used via DeriveKey")
	}
	epkSetter, ok := opts.(ephemeralPublicKeySetter)
	if !ok {
		return nil, errors.New("ecdhes: SetEphemeralPublicKey not found")
	}
	ephPriv, ephPub, err := generateEphemeral(w.pub)
	if err != nil {
		return nil, err
	}
	epk, err := jwk.NewPublicKey(ephPub)
	if err != nil {
		return nil, fmt.Errorf("ecdhes: failed to build ephemeral public key: %w", err)
	}
	epkSetter.SetEphemeralPublicKey(epk)

	key, err := w.derive(opts, ephPriv, w.pub)
	if err != nil {
		return nil, err
	}
	return akw.NewKeyWrapper(key).WrapKey(cek, opts)
}

// UnwrapKey implements [github.com/joseware/jose/keymanage.KeyWrapper].
// For plain ECDH-ES, data is ignored and the derived key is returned
// directly as the CEK.
func (w *KeyWrapper) UnwrapKey(data []byte, opts any) ([]byte, error) {
	epkGetter, ok := opts.(ephemeralPublicKeyGetter)
	if !ok {
		return nil, errors.New("ecdhes: EphemeralPublicKey not found")
	}
	epk := epkGetter.EphemeralPublicKey()
	if epk == nil {
		return nil, errors.New("ecdhes: epk header parameter is missing")
	}

	key, err := w.derive(opts, w.priv, epk.PublicKey())
	if err != nil {
		return nil, err
	}
	if w.alg.size == 0 {
		return key, nil
	}
	return akw.NewKeyWrapper(key).UnwrapKey(data, opts)
}

// DeriveKey implements [github.com/joseware/jose/keymanage.KeyDeriver]
// for plain ECDH-ES, where the agreed key is used directly as the CEK
// and no encrypted key is transmitted.
func (w *KeyWrapper) DeriveKey(header any) (cek, encryptedCEK []byte, err error) {
	if w.alg.size != 0 {
		return nil, nil, errors.New("ecdhes: DeriveKey is only supported by plain ECDH-ES")
	}
	epkSetter, ok := header.(ephemeralPublicKeySetter)
	if !ok {
		return nil, nil, errors.New("ecdhes: SetEphemeralPublicKey not found")
	}
	ephPriv, ephPub, err := generateEphemeral(w.pub)
	if err != nil {
		return nil, nil, err
	}
	epk, err := jwk.NewPublicKey(ephPub)
	if err != nil {
		return nil, nil, fmt.Errorf("ecdhes: failed to build ephemeral public key: %w", err)
	}
	epkSetter.SetEphemeralPublicKey(epk)

	cek, err = w.derive(header, ephPriv, w.pub)
	if err != nil {
		return nil, nil, err
	}
	return cek, []byte{}, nil
}

func (w *KeyWrapper) derive(opts any, priv, pub any) ([]byte, error) {
	algID, err := w.algorithmID(opts)
	if err != nil {
		return nil, err
	}
	size, err := w.keySize(opts)
	if err != nil {
		return nil, err
	}
	apu, apv := partyInfo(opts)
	return deriveECDHES(algID, apu, apv, priv, pub, size)
}

// generateEphemeral generates an ephemeral key pair on the same curve as pub.
func generateEphemeral(pub any) (priv, pubOut any, err error) {
	switch pub := pub.(type) {
	case *ecdsa.PublicKey:
		eph, err := ecdsa.GenerateKey(pub.Curve, cryptorand.Reader)
		if err != nil {
			return nil, nil, err
		}
		return eph, &eph.PublicKey, nil
	case x25519.PublicKey:
		pubKey, privKey, err := x25519.GenerateKey(cryptorand.Reader)
		if err != nil {
			return nil, nil, err
		}
		return privKey, pubKey, nil
	case x448.PublicKey:
		eph, err := x448.GenerateKey(cryptorand.Reader)
		if err != nil {
			return nil, nil, err
		}
		return eph, eph.Public(), nil
	default:
		return nil, nil, fmt.Errorf("ecdhes: unsupported public key type: %T", pub)
	}
}

func deriveECDHES(alg, apu, apv []byte, priv, pub any, keySize int) ([]byte, error) {
	z, err := deriveZ(priv, pub)
	if err != nil {
		return nil, err
	}

	var pubinfo [4]byte
	bits := keySize * 8
	pubinfo[0] = byte(bits >> 24)
	pubinfo[1] = byte(bits >> 16)
	pubinfo[2] = byte(bits >> 8)
	pubinfo[3] = byte(bits)

	r := newKDF(crypto.SHA256, z, alg, apu, apv, pubinfo[:], []byte{})
	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func deriveZ(priv, pub any) ([]byte, error) {
	switch priv := priv.(type) {
	case *ecdsa.PrivateKey:
		pubkey, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ecdhes: want *ecdsa.PublicKey but got %T", pub)
		}
		crv := priv.Curve
		if pubkey.Curve != crv || !crv.IsOnCurve(pubkey.X, pubkey.Y) {
			return nil, errors.New("ecdhes: public key must be on the same curve as private key")
		}
		z, _ := crv.ScalarMult(pubkey.X, pubkey.Y, priv.D.Bytes())
		size := (crv.Params().BitSize + 7) / 8
		buf := make([]byte, size)
		return z.FillBytes(buf), nil
	case x25519.PrivateKey:
		pubkey, ok := pub.(x25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ecdhes: want x25519.PublicKey but got %T", pub)
		}
		return x25519.X25519(priv.Seed(), pubkey)
	case x448.PrivateKey:
		pubkey, ok := pub.(x448.PublicKey)
		if !ok {
			return nil, fmt.Errorf("ecdhes: want x448.PublicKey but got %T", pub)
		}
		return priv.ECDH(pubkey)
	default:
		return nil, fmt.Errorf("ecdhes: unknown private key type: %T", priv)
	}
}

type kdf struct {
	hash hash.Hash

	z []byte

	// AlgorithmID
	alg []byte

	// PartyUInfo, PartyVInfo
	apu, apv []byte

	// SuppPubInfo, SuppPrivInfo
	pub, priv []byte

	round uint32
	n     int
	buf   []byte
}

func newKDF(hash crypto.Hash, z, alg, apu, apv, pub, priv []byte) *kdf {
	h := hash.New()
	size := h.Size()
	if size < 4 {
		size = 4
	}
	return &kdf{
		z:    z,
		hash: h,
		alg:  alg,
		apu:  apu,
		apv:  apv,
		pub:  pub,
		priv: priv,
		buf:  make([]byte, size),
	}
}

func (r *kdf) Read(data []byte) (n int, err error) {
	if r.n == 0 {
		r.round++
		r.hash.Reset()

		r.putUint32(r.round)
		r.hash.Write(r.z)
		r.putUint32(uint32(len(r.alg)))
		r.hash.Write(r.alg)
		r.putUint32(uint32(len(r.apu)))
		r.hash.Write(r.apu)
		r.putUint32(uint32(len(r.apv)))
		r.hash.Write(r.apv)
		r.hash.Write(r.pub)
		r.hash.Write(r.priv)

		r.buf = r.hash.Sum(r.buf[:0])
		r.n = len(r.buf)
	}
	n = copy(data, r.buf[len(r.buf)-r.n:])
	r.n -= n
	return
}

func (r *kdf) putUint32(v uint32) {
	buf := r.buf[:4]
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
	r.hash.Write(buf)
}

// Package agcm provides the AES GCM content encryption algorithm.
package agcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"

	"github.com/joseware/jose/enc"
	"github.com/joseware/jose/jwa"
)

// New128 returns a new AES GCM using 128-bit key content encryption
// algorithm instance. Each call returns a distinct value: GenerateIV
// mutates per-instance nonce state, and that state must not be shared
// across messages encrypted concurrently.
func New128() enc.Algorithm {
	return &algorithm{keyLen: 16}
}

// New192 returns a new AES GCM using 192-bit key content encryption
// algorithm instance. See New128 for why each call returns a fresh value.
func New192() enc.Algorithm {
	return &algorithm{keyLen: 24}
}

// New256 returns a new AES GCM using 256-bit key content encryption
// algorithm instance. See New128 for why each call returns a fresh value.
func New256() enc.Algorithm {
	return &algorithm{keyLen: 32}
}

func init() {
	jwa.RegisterEncryptionAlgorithm(jwa.A128GCM, New128)
	jwa.RegisterEncryptionAlgorithm(jwa.A192GCM, New192)
	jwa.RegisterEncryptionAlgorithm(jwa.A256GCM, New256)
}

const ivSize = 12

var _ enc.Algorithm = (*algorithm)(nil)

type algorithm struct {
	keyLen int

	salt    []byte
	counter uint64
}

func (alg *algorithm) CEKSize() int {
	return alg.keyLen
}

func (alg *algorithm) IVSize() int {
	return ivSize
}

func (alg *algorithm) GenerateCEK() ([]byte, error) {
	cek := make([]byte, alg.keyLen)
	if _, err := rand.Read(cek); err != nil {
		return nil, err
	}
	return cek, nil
}

// GenerateIV returns a fresh nonce built from a random salt fixed for the
// lifetime of alg and a monotonic counter, so the same (salt, counter) pair,
// and hence the same nonce, is never handed out twice for a given CEK.
func (alg *algorithm) GenerateIV() ([]byte, error) {
	if alg.counter == math.MaxUint64 {
		alg.counter = 0
		alg.salt = nil
		return nil, errors.New("agcm: too many invocations for a single key")
	}
	if alg.salt == nil {
		salt := make([]byte, 4)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		alg.salt = salt
	}
	alg.counter++
	iv := make([]byte, ivSize)
	copy(iv, alg.salt)
	binary.BigEndian.PutUint64(iv[4:], alg.counter)
	return iv, nil
}

func (alg *algorithm) Decrypt(cek, iv, aad, ciphertext, authTag []byte) (plaintext []byte, err error) {
	if len(cek) != alg.keyLen {
		return nil, errors.New("agcm: invalid content encryption key")
	}
	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, errors.New("agcm: invalid size of iv")
	}
	buf := make([]byte, 0, len(ciphertext)+len(authTag))
	buf = append(buf, ciphertext...)
	buf = append(buf, authTag...)
	return aead.Open(nil, iv, buf, aad)
}

func (alg *algorithm) Encrypt(cek, iv, aad, plaintext []byte) (ciphertext, authTag []byte, err error) {
	if len(cek) != alg.keyLen {
		return nil, nil, errors.New("agcm: invalid content encryption key")
	}
	block, err := aes.NewCipher(cek)
	if err != nil {
		return nil, nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, nil, errors.New("agcm: invalid size of iv")
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	tagStart := len(sealed) - aead.Overhead()
	ciphertext = sealed[:tagStart:tagStart]
	authTag = sealed[tagStart:]
	return ciphertext, authTag, nil
}

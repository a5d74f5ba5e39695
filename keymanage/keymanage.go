// Package keymanage defines the interface of Key Management Algorithms.
package keymanage

import "crypto"

// Key is a key for wrapping or unwrapping Content Encryption Key (CEK).
type Key interface {
	PrivateKey() crypto.PrivateKey
	PublicKey() crypto.PublicKey
}

// Algorithm is an algorithm for wrapping or unwrapping Content Encryption Key (CEK).
type Algorithm interface {
	NewKeyWrapper(key Key) KeyWrapper
}

type KeyWrapper interface {
	WrapKey(cek []byte, opts any) (data []byte, err error)
	UnwrapKey(data []byte, opts any) (cek []byte, err error)
}

// KeyDeriver is implemented by KeyWrapper values for algorithms that
// produce the Content Encryption Key themselves instead of wrapping a
// CEK chosen by the caller (e.g. "dir" and "ECDH-ES" direct key
// agreement). header is the protected header being built; the
// implementation reads and writes any header parameters it needs
// (e.g. "epk", "apu", "apv") through the same duck-typed accessor
// pattern KeyWrapper implementations use for opts.
type KeyDeriver interface {
	DeriveKey(header any) (cek, encryptedCEK []byte, err error)
}

func NewInvalidKeyWrapper(err error) KeyWrapper {
	return &invalidKeyWrapper{
		err: err,
	}
}

type invalidKeyWrapper struct {
	err error
}

func (w *invalidKeyWrapper) WrapKey(cek []byte, opts any) (data []byte, err error) {
	return nil, w.err
}

func (w *invalidKeyWrapper) UnwrapKey(data []byte, opts any) (cek []byte, err error) {
	return nil, w.err
}

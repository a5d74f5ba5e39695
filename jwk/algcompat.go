package jwk

import "github.com/joseware/jose/jwa"

// checkAlgCompat reports whether alg is a plausible signature or key
// management algorithm for kty, per spec section 4.1's "is_valid"
// ("alg, if present, is compatible with kty"). "dir" is accepted only
// for oct keys and the "ECDH-ES*" algorithms only for EC and OKP keys;
// a kty not listed below accepts any alg.
func checkAlgCompat(kty jwa.KeyType, alg jwa.KeyAlgorithm) bool {
	if alg == "" {
		return true
	}
	switch kty {
	case jwa.RSA:
		switch jwa.SignatureAlgorithm(alg) {
		case "RS256", "RS384", "RS512", "PS256", "PS384", "PS512":
			return true
		}
		switch jwa.KeyManagementAlgorithm(alg) {
		case "RSA1_5", "RSA-OAEP", "RSA-OAEP-256":
			return true
		}
		return false
	case jwa.EC:
		switch jwa.SignatureAlgorithm(alg) {
		case "ES256", "ES384", "ES512", "ES256K":
			return true
		}
		switch jwa.KeyManagementAlgorithm(alg) {
		case "ECDH-ES", "ECDH-ES+A128KW", "ECDH-ES+A192KW", "ECDH-ES+A256KW":
			return true
		}
		return false
	case jwa.OKP:
		switch jwa.SignatureAlgorithm(alg) {
		case "EdDSA":
			return true
		}
		switch jwa.KeyManagementAlgorithm(alg) {
		case "ECDH-ES", "ECDH-ES+A128KW", "ECDH-ES+A192KW", "ECDH-ES+A256KW":
			return true
		}
		return false
	case jwa.Oct:
		switch jwa.SignatureAlgorithm(alg) {
		case "HS256", "HS384", "HS512":
			return true
		}
		switch jwa.KeyManagementAlgorithm(alg) {
		case "A128KW", "A192KW", "A256KW", "dir",
			"A128GCMKW", "A192GCMKW", "A256GCMKW",
			"PBES2-HS256+A128KW", "PBES2-HS384+A192KW", "PBES2-HS512+A256KW":
			return true
		}
		return false
	}
	return true
}

package jwk

import (
	"testing"

	"github.com/joseware/jose/jwa"
)

func TestGenerateKeyPairRSA(t *testing.T) {
	key, err := GenerateKeyPair(jwa.RSA, minRSAKeyBits, "")
	if err != nil {
		t.Fatal(err)
	}
	if key.KeyID() == "" {
		t.Error("GenerateKeyPair must assign a kid when none is given")
	}
	if key.Bits() != minRSAKeyBits {
		t.Errorf("want %d bits, got %d", minRSAKeyBits, key.Bits())
	}
	if key.Class()&ClassPrivate == 0 {
		t.Error("generated key must carry private material")
	}
}

func TestGenerateKeyPairRSATooSmall(t *testing.T) {
	if _, err := GenerateKeyPair(jwa.RSA, 512, "too-small"); err == nil {
		t.Fatal("want error for an RSA key below the minimum size")
	}
}

func TestGenerateKeyPairEC(t *testing.T) {
	key, err := GenerateKeyPair(jwa.EC, 256, "ec-key")
	if err != nil {
		t.Fatal(err)
	}
	if key.KeyID() != "ec-key" {
		t.Errorf("want kid %q, got %q", "ec-key", key.KeyID())
	}
	if key.Bits() != 256 {
		t.Errorf("want 256 bits, got %d", key.Bits())
	}
}

func TestGenerateOKPKeyPair(t *testing.T) {
	for _, crv := range []jwa.EllipticCurve{jwa.Ed25519, jwa.Ed448, jwa.X25519, jwa.X448} {
		key, err := GenerateOKPKeyPair(crv, "")
		if err != nil {
			t.Fatalf("%s: %v", crv, err)
		}
		if key.PublicKey() == nil {
			t.Errorf("%s: generated key has no public key", crv)
		}
		if key.PrivateKey() == nil {
			t.Errorf("%s: generated key has no private key", crv)
		}
	}
}

func TestNewSymmetricAndPasswordKey(t *testing.T) {
	sym := NewSymmetricKey([]byte("supersecretkeymaterial"), "sym-1")
	secret, err := sym.SymmetricKey()
	if err != nil {
		t.Fatal(err)
	}
	if string(secret) != "supersecretkeymaterial" {
		t.Errorf("unexpected symmetric key material: %s", secret)
	}

	pw := NewPasswordKey([]byte("hunter2"), "pw-1")
	if pw.KeyType() != jwa.Oct {
		t.Errorf("password key must be kty=oct, got %s", pw.KeyType())
	}
}

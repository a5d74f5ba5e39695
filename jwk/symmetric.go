package jwk

import (
	"github.com/joseware/jose/internal/jsonutils"
	"github.com/joseware/jose/jwa"
)

// RFC7518 6.4. Parameters for Symmetric Keys
func parseSymmetricKey(d *jsonutils.Decoder, key *Key) {
	k := d.MustBytes("k")
	key.priv = append([]byte(nil), k...)
}

func encodeSymmetricKey(e *jsonutils.Encoder, priv []byte) {
	e.Set("kty", jwa.Oct.String())
	e.SetBytes("k", priv)
}

package jwk

import (
	"fmt"

	"github.com/joseware/jose/internal/jsonutils"
	"github.com/joseware/jose/jwa"
)

// RFC8037 2. Key Type "OKP"
func parseOKPKey(d *jsonutils.Decoder, key *Key) {
	crv := jwa.EllipticCurve(d.MustString("crv"))
	switch crv {
	case jwa.Ed25519:
		parseEd25519Key(d, key)
	case jwa.X25519:
		parseX25519Key(d, key)
	case jwa.Ed448:
		parseEd448Key(d, key)
	case jwa.X448:
		parseX448Key(d, key)
	default:
		d.SaveError(fmt.Errorf("jwk: unknown crv: %q", crv))
	}
}

package curve256k1

import "crypto/subtle"

type lookupTable struct {
	points [15]PointJacobian
}

func (v *lookupTable) Init(p *PointJacobian) {
	// Goal: v.points[i] = (i+1)*Q, i.e., Q, 2Q, ..., 15Q
	// This allows lookup of 0, Q, ..., 15Q
	points := &v.points
	points[0].Set(p)
	for i := 1; i < 15; i++ {
		var v PointJacobian
		points[i].Set(v.Add(&points[i-1], p))
	}
}

// SelectInto sets dest to x*Q, where 0 <= x <= 15, in constant time.
func (v *lookupTable) SelectInto(dest *PointJacobian, x uint8) {
	dest.Zero()
	for i := 1; i <= 15; i++ {
		// Set dest = i*Q if x = i
		cond := subtle.ConstantTimeByteEq(x, uint8(i))
		dest.Select(&v.points[i-1], dest, cond)
	}
}

package elgamal

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/constants"
)

// Small affine helpers over babyjub points. The library exposes addition on
// the projective form only, so these wrap the projective round-trip.

func add(a, b *babyjub.Point) *babyjub.Point {
	res := babyjub.NewPointProjective()
	return res.Add(a.Projective(), b.Projective()).Affine()
}

// neg returns -p. On a twisted Edwards curve the inverse of (x, y) is (-x, y).
func neg(p *babyjub.Point) *babyjub.Point {
	res := babyjub.NewPoint()
	res.X = new(big.Int).Mod(new(big.Int).Neg(p.X), constants.Q)
	res.Y = new(big.Int).Set(p.Y)
	return res
}

// identity returns the neutral element (0, 1).
func identity() *babyjub.Point {
	return babyjub.NewPoint()
}

func clone(p *babyjub.Point) *babyjub.Point {
	res := babyjub.NewPoint()
	res.X = new(big.Int).Set(p.X)
	res.Y = new(big.Int).Set(p.Y)
	return res
}

func equal(a, b *babyjub.Point) bool {
	return a.X.Cmp(b.X) == 0 && a.Y.Cmp(b.Y) == 0
}

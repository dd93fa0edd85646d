package codegen

import (
	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the redemption code charset: upper-case letters and digits.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 8
)

// NanoidGenerator produces redemption codes. Uniqueness is not checked here;
// callers rely on the unique index on coupons.code and regenerate on conflict.
type NanoidGenerator struct {
	gen func() string
}

func NewNanoidGenerator() (*NanoidGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, Length)
	if err != nil {
		return nil, err
	}
	return &NanoidGenerator{gen: gen}, nil
}

func MustNanoidGenerator() *NanoidGenerator {
	g, err := NewNanoidGenerator()
	if err != nil {
		panic(err)
	}
	return g
}

func (g *NanoidGenerator) NewCode() string {
	return g.gen()
}

package cbor

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// DecimalFraction is the decoded/encoded form of a CBOR tag-4 item:
// mantissa · 10^exponent, backed by apd.Decimal so arithmetic on decoded
// values stays exact instead of round-tripping through float64.
type DecimalFraction struct {
	Value apd.Decimal
}

// NewDecimalFraction builds a DecimalFraction from an exponent and signed
// arbitrary-precision mantissa.
func NewDecimalFraction(exponent int64, mantissa *big.Int) DecimalFraction {
	coeff := new(big.Int).Abs(mantissa)
	var apdCoeff apd.BigInt
	apdCoeff.SetMathBigInt(coeff)
	d := apd.NewWithBigInt(&apdCoeff, int32(exponent))
	d.Negative = mantissa.Sign() < 0
	return DecimalFraction{Value: *d}
}

func (d DecimalFraction) String() string { return d.Value.String() }

// signedMantissa returns the DecimalFraction's mantissa as a signed
// *big.Int, undoing apd's separate Negative-flag/unsigned-coefficient
// representation.
func (d DecimalFraction) signedMantissa() *big.Int {
	coeff := d.Value.Coeff.MathBigInt()
	m := new(big.Int).Set(coeff)
	if d.Value.Negative {
		m.Neg(m)
	}
	return m
}

// BigFloat is the decoded/encoded form of a CBOR tag-5 item:
// mantissa · 2^exponent. RFC 8949 treats tag 5 as a decode-oriented
// convenience; this package also supports encoding a BigFloat value back
// to tag 5, since it is itself the "extension" producing one.
type BigFloat struct {
	Mantissa *big.Int
	Exponent int64
}

func (b BigFloat) String() string {
	return new(big.Int).Set(b.Mantissa).String() + "p" + big.NewInt(b.Exponent).String()
}

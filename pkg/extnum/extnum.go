// Package extnum provides numbers extended with signed infinities.
//
// Reconciliation costs are compared and summed as extended integers: a
// candidate synteny assignment that is impossible under the fixed root
// order carries a positive-infinite cost, and infinities must absorb
// finite addends without overflowing or wrapping. Number wraps any
// signed numeric type together with two infinity sentinels and defines
// arithmetic over the extended domain.
//
// Operations with no defined result on the extended real line (opposite
// infinities added, zero times infinity, infinity divided by infinity)
// return ErrDomain instead of producing a value.
package extnum

import (
	"errors"
	"fmt"
)

// ErrDomain is returned by arithmetic methods when the operation has no
// defined result, such as adding opposite infinities, multiplying zero
// with an infinity, or converting an infinite value to its base type.
var ErrDomain = errors.New("indeterminate operation on extended number")

// Real is the set of base types a Number can wrap. Only signed types are
// allowed: the sign of finite values participates in infinity arithmetic.
type Real interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Number is a value of type T extended with positive and negative
// infinity. The zero value is the finite number 0.
type Number[T Real] struct {
	value T
	inf   int8 // 0 finite, +1 positive infinity, -1 negative infinity
}

// Finite wraps a finite value of the base type.
func Finite[T Real](value T) Number[T] {
	return Number[T]{value: value}
}

// PosInf returns the positive infinity of the extended type.
func PosInf[T Real]() Number[T] {
	return Number[T]{inf: 1}
}

// NegInf returns the negative infinity of the extended type.
func NegInf[T Real]() Number[T] {
	return Number[T]{inf: -1}
}

// IsInf reports whether the number is positive or negative infinity.
func (n Number[T]) IsInf() bool { return n.inf != 0 }

// IsPosInf reports whether the number is positive infinity.
func (n Number[T]) IsPosInf() bool { return n.inf > 0 }

// IsNegInf reports whether the number is negative infinity.
func (n Number[T]) IsNegInf() bool { return n.inf < 0 }

// Finite returns the wrapped base value. It returns ErrDomain if the
// number is infinite.
func (n Number[T]) Finite() (T, error) {
	if n.inf != 0 {
		var zero T
		return zero, ErrDomain
	}
	return n.value, nil
}

// Cmp compares two extended numbers. It returns -1 if n < other, 0 if
// they are equal and +1 if n > other. Infinities compare at their
// respective extremes and equal-signed infinities compare equal.
func (n Number[T]) Cmp(other Number[T]) int {
	switch {
	case n.inf != other.inf:
		if n.inf < other.inf {
			return -1
		}
		return 1
	case n.inf != 0:
		return 0
	case n.value < other.value:
		return -1
	case n.value > other.value:
		return 1
	default:
		return 0
	}
}

// Less reports whether n is strictly smaller than other.
func (n Number[T]) Less(other Number[T]) bool { return n.Cmp(other) < 0 }

// Equal reports whether n and other represent the same extended value.
func (n Number[T]) Equal(other Number[T]) bool { return n.Cmp(other) == 0 }

// Neg returns the opposite of the number.
func (n Number[T]) Neg() Number[T] {
	return Number[T]{value: -n.value, inf: -n.inf}
}

// sign returns -1, 0 or +1 following the sign of the extended value.
func (n Number[T]) sign() int8 {
	switch {
	case n.inf != 0:
		return n.inf
	case n.value > 0:
		return 1
	case n.value < 0:
		return -1
	default:
		return 0
	}
}

// Add returns n + other. Same-signed infinities absorb any addend;
// adding opposite infinities returns ErrDomain.
func (n Number[T]) Add(other Number[T]) (Number[T], error) {
	switch {
	case n.inf != 0 && other.inf != 0:
		if n.inf != other.inf {
			return Number[T]{}, ErrDomain
		}
		return n, nil
	case n.inf != 0:
		return n, nil
	case other.inf != 0:
		return other, nil
	default:
		return Finite(n.value + other.value), nil
	}
}

// Sub returns n - other, defined as n + (-other). Subtracting an
// infinity from an equal-signed infinity returns ErrDomain.
func (n Number[T]) Sub(other Number[T]) (Number[T], error) {
	return n.Add(other.Neg())
}

// Mul returns n * other. Multiplying any infinity with zero returns
// ErrDomain; otherwise an infinite operand yields an infinity whose
// sign is the product of the operand signs.
func (n Number[T]) Mul(other Number[T]) (Number[T], error) {
	if n.inf == 0 && other.inf == 0 {
		return Finite(n.value * other.value), nil
	}
	if n.sign() == 0 || other.sign() == 0 {
		return Number[T]{}, ErrDomain
	}
	return Number[T]{inf: n.sign() * other.sign()}, nil
}

// Div returns n / other. Dividing two finite values follows the base
// type, except that dividing by zero returns ErrDomain. A finite value
// divided by an infinity is signed zero; an infinity divided by a
// nonzero finite value keeps its magnitude with the product sign.
// Dividing two infinities returns ErrDomain.
func (n Number[T]) Div(other Number[T]) (Number[T], error) {
	switch {
	case n.inf != 0 && other.inf != 0:
		return Number[T]{}, ErrDomain
	case n.inf == 0 && other.inf != 0:
		// Finite over infinite collapses to zero. Floating point bases
		// keep the product sign; integer bases have a single zero.
		var zero T
		if n.sign()*other.sign() < 0 {
			zero = -zero
		}
		return Finite(zero), nil
	case other.inf == 0 && other.value == 0:
		return Number[T]{}, ErrDomain
	case n.inf != 0:
		return Number[T]{inf: n.sign() * other.sign()}, nil
	default:
		return Finite(n.value / other.value), nil
	}
}

// String formats the number for diagnostics, using the symbols +inf and
// -inf for the two sentinels.
func (n Number[T]) String() string {
	switch n.inf {
	case 1:
		return "+inf"
	case -1:
		return "-inf"
	default:
		return fmt.Sprintf("%v", n.value)
	}
}

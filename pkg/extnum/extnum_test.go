package extnum

import (
	"errors"
	"testing"
)

func TestFiniteArithmetic(t *testing.T) {
	a := Finite(2)
	b := Finite(3)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if v, _ := sum.Finite(); v != 5 {
		t.Errorf("2+3 = %v, want 5", v)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub error: %v", err)
	}
	if v, _ := diff.Finite(); v != -1 {
		t.Errorf("2-3 = %v, want -1", v)
	}

	prod, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul error: %v", err)
	}
	if v, _ := prod.Finite(); v != 6 {
		t.Errorf("2*3 = %v, want 6", v)
	}

	quot, err := Finite(6).Div(b)
	if err != nil {
		t.Fatalf("Div error: %v", err)
	}
	if v, _ := quot.Finite(); v != 2 {
		t.Errorf("6/3 = %v, want 2", v)
	}
}

func TestInfinityAbsorbs(t *testing.T) {
	inf := PosInf[int]()

	sum, err := inf.Add(Finite(41))
	if err != nil {
		t.Fatalf("inf+41 error: %v", err)
	}
	if !sum.IsPosInf() {
		t.Error("inf+41 should be +inf")
	}

	sum, err = Finite(-7).Add(NegInf[int]())
	if err != nil {
		t.Fatalf("-7+(-inf) error: %v", err)
	}
	if !sum.IsNegInf() {
		t.Error("-7+(-inf) should be -inf")
	}

	prod, err := inf.Mul(Finite(-2))
	if err != nil {
		t.Fatalf("inf*-2 error: %v", err)
	}
	if !prod.IsNegInf() {
		t.Error("inf*-2 should be -inf")
	}
}

func TestIndeterminateForms(t *testing.T) {
	inf := PosInf[int]()
	ninf := NegInf[int]()

	cases := []struct {
		name string
		run  func() error
	}{
		{"inf + -inf", func() error { _, err := inf.Add(ninf); return err }},
		{"inf - inf", func() error { _, err := inf.Sub(inf); return err }},
		{"0 * inf", func() error { _, err := Finite(0).Mul(inf); return err }},
		{"inf * 0", func() error { _, err := inf.Mul(Finite(0)); return err }},
		{"inf / inf", func() error { _, err := inf.Div(ninf); return err }},
		{"x / 0", func() error { _, err := Finite(3).Div(Finite(0)); return err }},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, ErrDomain) {
			t.Errorf("%s: got %v, want ErrDomain", tc.name, err)
		}
	}
}

func TestDivByInfinity(t *testing.T) {
	quot, err := Finite(42).Div(PosInf[int]())
	if err != nil {
		t.Fatalf("42/inf error: %v", err)
	}
	if v, err := quot.Finite(); err != nil || v != 0 {
		t.Errorf("42/inf = %v, want 0", v)
	}
}

func TestOrdering(t *testing.T) {
	inf := PosInf[int]()
	ninf := NegInf[int]()

	if !ninf.Less(Finite(-1000)) {
		t.Error("-inf should be below any finite value")
	}
	if !Finite(1000).Less(inf) {
		t.Error("+inf should be above any finite value")
	}
	if !Finite(1).Less(Finite(2)) {
		t.Error("1 < 2")
	}
	if !inf.Equal(PosInf[int]()) {
		t.Error("+inf should equal +inf")
	}
	if inf.Equal(ninf) {
		t.Error("+inf should differ from -inf")
	}
	if !inf.Neg().Equal(ninf) {
		t.Error("-(+inf) should equal -inf")
	}
}

func TestFiniteExtraction(t *testing.T) {
	if v, err := Finite(7).Finite(); err != nil || v != 7 {
		t.Errorf("Finite() = %v, %v", v, err)
	}
	if _, err := PosInf[int]().Finite(); err == nil {
		t.Error("Finite() on +inf should fail")
	}
}

func TestString(t *testing.T) {
	if s := Finite(3).String(); s != "3" {
		t.Errorf("String() = %q, want 3", s)
	}
	if s := PosInf[int]().String(); s != "+inf" {
		t.Errorf("String() = %q, want +inf", s)
	}
	if s := NegInf[int]().String(); s != "-inf" {
		t.Errorf("String() = %q, want -inf", s)
	}
}

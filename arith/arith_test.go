package arith_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sush-shell/sush/arith"
)

type memStore map[string]string

func (m memStore) Get(name string) (string, bool) { v, ok := m[name]; return v, ok }
func (m memStore) Set(name, value string)          { m[name] = value }

func eval(t testing.TB, expr string, store memStore) arith.Value {
	t.Helper()
	if store == nil {
		store = memStore{}
	}
	v, err := arith.Eval(expr, store)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v
}

func TestBasicPrecedence(t *testing.T) {
	c := qt.New(t)
	c.Assert(eval(t, "2+3*4", nil).Int64(), qt.Equals, int64(14))
	c.Assert(eval(t, "(2+3)*4", nil).Int64(), qt.Equals, int64(20))
	c.Assert(eval(t, "2**3**2", nil).Int64(), qt.Equals, int64(512)) // right-assoc
	c.Assert(eval(t, "10%3", nil).Int64(), qt.Equals, int64(1))
}

func TestDivideByZero(t *testing.T) {
	c := qt.New(t)
	_, err := arith.Eval("1/0", memStore{})
	c.Assert(err, qt.ErrorMatches, ".*divided by 0.*")
}

func TestNegativeExponent(t *testing.T) {
	c := qt.New(t)
	_, err := arith.Eval("2**-1", memStore{})
	c.Assert(err, qt.ErrorMatches, ".*exponent less than 0.*")
}

func TestShiftNegative(t *testing.T) {
	c := qt.New(t)
	c.Assert(eval(t, "1<<-1", nil).Int64(), qt.Equals, int64(0))
	c.Assert(eval(t, "8>>-1", nil).Int64(), qt.Equals, int64(0))
}

func TestTernary(t *testing.T) {
	c := qt.New(t)
	c.Assert(eval(t, "1 ? 2 : 3", nil).Int64(), qt.Equals, int64(2))
	c.Assert(eval(t, "0 ? 2 : 3", nil).Int64(), qt.Equals, int64(3))
}

func TestShortCircuit(t *testing.T) {
	c := qt.New(t)
	store := memStore{"x": "0"}
	// RHS "x=5" must not execute because the LHS of && is false.
	c.Assert(eval(t, "0 && (x=5)", store).Int64(), qt.Equals, int64(0))
	c.Assert(store["x"], qt.Equals, "0")

	store2 := memStore{"x": "0"}
	c.Assert(eval(t, "1 || (x=5)", store2).Int64(), qt.Equals, int64(1))
	c.Assert(store2["x"], qt.Equals, "0")
}

func TestIncrementDecrement(t *testing.T) {
	c := qt.New(t)
	store := memStore{"x": "5"}
	c.Assert(eval(t, "x++", store).Int64(), qt.Equals, int64(5))
	c.Assert(store["x"], qt.Equals, "6")

	store2 := memStore{"x": "5"}
	c.Assert(eval(t, "++x", store2).Int64(), qt.Equals, int64(6))
	c.Assert(store2["x"], qt.Equals, "6")
}

func TestUnsetVariableDefaultsZero(t *testing.T) {
	c := qt.New(t)
	c.Assert(eval(t, "x+1", memStore{}).Int64(), qt.Equals, int64(1))
}

func TestFloat(t *testing.T) {
	c := qt.New(t)
	v := eval(t, "1.5+2.5", nil)
	c.Assert(v.Float64(), qt.Equals, 4.0)
}

func TestBitwise(t *testing.T) {
	c := qt.New(t)
	c.Assert(eval(t, "6&3", nil).Int64(), qt.Equals, int64(2))
	c.Assert(eval(t, "6|1", nil).Int64(), qt.Equals, int64(7))
	c.Assert(eval(t, "6^3", nil).Int64(), qt.Equals, int64(5))
	c.Assert(eval(t, "~0", nil).Int64(), qt.Equals, int64(-1))
}

func TestAssignment(t *testing.T) {
	c := qt.New(t)
	store := memStore{"x": "1"}
	c.Assert(eval(t, "x+=4", store).Int64(), qt.Equals, int64(5))
	c.Assert(store["x"], qt.Equals, "5")
}

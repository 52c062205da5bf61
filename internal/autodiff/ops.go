package autodiff

import (
	"fmt"
	"math"
)

// LogEpsilon replaces an exactly-zero operand of Log before the logarithm is
// taken, so ln(0) yields a large negative number instead of -Inf.
const LogEpsilon = 1e-8

// Add returns v + other.
//
// Backward: dv += dout, dother += dout.
func (v *Value) Add(other *Value) *Value {
	return newResult(v.Data+other.Data, OpAdd, v, other)
}

// AddScalar returns v + x with x wrapped as a leaf.
func (v *Value) AddScalar(x float64) *Value {
	return v.Add(NewValue(x))
}

// Mul returns v * other.
//
// Backward: dv += other * dout, dother += v * dout.
func (v *Value) Mul(other *Value) *Value {
	return newResult(v.Data*other.Data, OpMul, v, other)
}

// MulScalar returns v * x with x wrapped as a leaf.
func (v *Value) MulScalar(x float64) *Value {
	return v.Mul(NewValue(x))
}

// Neg returns -v, computed as v * -1.
func (v *Value) Neg() *Value {
	return v.MulScalar(-1)
}

// Sub returns v - other, computed as v + (-other).
func (v *Value) Sub(other *Value) *Value {
	return v.Add(other.Neg())
}

// SubScalar returns v - x with x wrapped as a leaf.
func (v *Value) SubScalar(x float64) *Value {
	return v.Sub(NewValue(x))
}

// Pow returns v ** k for a constant exponent k.
//
// Backward: dv += k * v^(k-1) * dout.
func (v *Value) Pow(k float64) *Value {
	out := newResult(math.Pow(v.Data, k), OpPow, v)
	out.exponent = k
	return out
}

// PowAny is Pow for an exponent of unknown type. It fails with
// ErrUnsupportedExponentType unless k is a Go integer or float; in
// particular a *Value exponent is rejected.
func (v *Value) PowAny(k any) (*Value, error) {
	exp, err := toExponent(k)
	if err != nil {
		return nil, err
	}
	return v.Pow(exp), nil
}

// Div returns v / other, computed as v * other^-1.
func (v *Value) Div(other *Value) *Value {
	return v.Mul(other.Pow(-1))
}

// DivScalar returns v / x with x wrapped as a leaf.
func (v *Value) DivScalar(x float64) *Value {
	return v.Div(NewValue(x))
}

// Exp returns e ** v.
//
// Backward: dv += out * dout.
func (v *Value) Exp() *Value {
	return newResult(math.Exp(v.Data), OpExp, v)
}

// Log returns ln(v).
//
// If v.Data is exactly zero it is overwritten with LogEpsilon first. The
// mutation is visible to the caller and to the backward rule, which uses the
// substituted value: dv += (1 / v) * dout.
func (v *Value) Log() *Value {
	if v.Data == 0 {
		v.Data = LogEpsilon
	}
	return newResult(math.Log(v.Data), OpLog, v)
}

// ReLU returns max(0, v).
//
// Backward: dv += dout when out > 0.
func (v *Value) ReLU() *Value {
	data := v.Data
	if data < 0 {
		data = 0
	}
	return newResult(data, OpReLU, v)
}

// Tanh returns the hyperbolic tangent of v.
//
// Backward: dv += (1 - out²) * dout.
func (v *Value) Tanh() *Value {
	return newResult(math.Tanh(v.Data), OpTanh, v)
}

func toExponent(k any) (float64, error) {
	switch x := k.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedExponentType, k)
	}
}

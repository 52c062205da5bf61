// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Every arithmetic operation on a *Value records its operands, building a
// computation graph. Backward walks that graph once in reverse topological
// order and accumulates d(root)/d(node) into each node's Grad.
//
// Example:
//
//	import "github.com/born-ml/micrograd/autodiff"
//
//	func main() {
//	    a := autodiff.NewValue(-4)
//	    b := autodiff.NewValue(2)
//	    c := a.Add(b).Mul(b).Tanh()
//
//	    c.Backward()
//	    fmt.Println(a.Grad, b.Grad)
//	}
package autodiff

import "github.com/born-ml/micrograd/internal/autodiff"

// Value is a scalar node in a computation graph.
type Value = autodiff.Value

// Op identifies the operation that produced a Value.
type Op = autodiff.Op

// Operation tags.
const (
	OpNone    = autodiff.OpNone
	OpAdd     = autodiff.OpAdd
	OpMul     = autodiff.OpMul
	OpPow     = autodiff.OpPow
	OpExp     = autodiff.OpExp
	OpLog     = autodiff.OpLog
	OpReLU    = autodiff.OpReLU
	OpTanh    = autodiff.OpTanh
	OpSoftmax = autodiff.OpSoftmax
)

// LogEpsilon replaces an exactly-zero input of Log.
const LogEpsilon = autodiff.LogEpsilon

// ErrUnsupportedExponentType is returned by Value.PowAny for non-numeric exponents.
var ErrUnsupportedExponentType = autodiff.ErrUnsupportedExponentType

// NewValue creates a leaf with the given data and zero gradient.
func NewValue(data float64) *Value {
	return autodiff.NewValue(data)
}

// Values creates one leaf per element of xs.
func Values(xs ...float64) []*Value {
	return autodiff.Values(xs...)
}

// Data returns the forward values of vs.
func Data(vs []*Value) []float64 {
	return autodiff.Data(vs)
}

// Detach returns fresh leaves carrying the data of vs.
func Detach(vs []*Value) []*Value {
	return autodiff.Detach(vs)
}

// Sum adds vs together, starting from a zero leaf.
func Sum(vs ...*Value) *Value {
	return autodiff.Sum(vs...)
}

// Softmax normalizes values into a probability vector whose entries share
// one joint backward rule.
//
// Example:
//
//	probs := autodiff.Softmax(logits)
//	loss := nn.CrossEntropy(probs, labels)
func Softmax(values []*Value) []*Value {
	return autodiff.Softmax(values)
}

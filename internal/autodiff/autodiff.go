// Package autodiff implements a reverse-mode automatic differentiation engine
// over scalar values.
//
// Every arithmetic method on a Value creates a fresh Value that remembers the
// operation that produced it and its operands. The resulting computation graph
// is a DAG rebuilt on every forward pass. Calling Backward on the final node
// (typically a loss) walks the graph in reverse topological order and
// accumulates gradients into every reachable Value.
//
// Usage:
//
//	a := autodiff.NewValue(2)
//	b := autodiff.NewValue(-3)
//	c := a.Mul(b).AddScalar(10)
//	c.Backward()
//	fmt.Println(a.Grad, b.Grad) // -3 2
//
// Gradients are accumulators. Reset them (see nn.Module.ZeroGrad) before
// calling Backward again on a graph that reuses the same leaves.
//
// Values carry no synchronization. Building or differentiating graphs that
// share nodes from several goroutines must be serialized by the caller.
package autodiff

import (
	"fmt"
	"strconv"
)

// Value is a single differentiable scalar: its data, its accumulated
// gradient and a record of how it was derived.
type Value struct {
	Data float64 // Forward value
	Grad float64 // Accumulated dL/dData, 0 until Backward runs

	op       Op
	prev     []*Value // Distinct operands by identity (graph edges)
	args     []*Value // Positional operands consumed by the chain rule
	exponent float64  // OpPow only

	// OpSoftmax only: the call this output belongs to and its position.
	group *softmaxGroup
	index int
}

// NewValue creates a leaf value with no operand history.
func NewValue(data float64) *Value {
	return &Value{Data: data}
}

// Values wraps each float as a leaf value.
func Values(xs ...float64) []*Value {
	out := make([]*Value, len(xs))
	for i, x := range xs {
		out[i] = NewValue(x)
	}
	return out
}

// Data extracts the forward values of vs.
func Data(vs []*Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Data
	}
	return out
}

// Detach rewraps each value as a fresh leaf carrying the same data.
// Gradients flowing into the returned values stop there.
func Detach(vs []*Value) []*Value {
	out := make([]*Value, len(vs))
	for i, v := range vs {
		out[i] = NewValue(v.Data)
	}
	return out
}

// Sum folds vs with Add, starting from a zero leaf.
func Sum(vs ...*Value) *Value {
	acc := NewValue(0)
	for _, v := range vs {
		acc = acc.Add(v)
	}
	return acc
}

// Op returns the operation that produced v, or OpNone for leaves.
func (v *Value) Op() Op {
	return v.op
}

// IsLeaf reports whether v was created directly rather than by an operation.
func (v *Value) IsLeaf() bool {
	return v.op == OpNone
}

// Operands returns the distinct values v was computed from.
func (v *Value) Operands() []*Value {
	out := make([]*Value, len(v.prev))
	copy(out, v.prev)
	return out
}

// String returns a description such as "Value(data=4, grad=0, op=*)".
func (v *Value) String() string {
	data := strconv.FormatFloat(v.Data, 'g', -1, 64)
	grad := strconv.FormatFloat(v.Grad, 'g', -1, 64)
	if v.op == OpNone {
		return fmt.Sprintf("Value(data=%s, grad=%s)", data, grad)
	}
	return fmt.Sprintf("Value(data=%s, grad=%s, op=%s)", data, grad, v.label())
}

// label is the op tag used in String, with the exponent for pow nodes.
func (v *Value) label() string {
	if v.op == OpPow {
		return "**" + strconv.FormatFloat(v.exponent, 'g', -1, 64)
	}
	return v.op.String()
}

// newResult builds an operation node and records its distinct operands.
func newResult(data float64, op Op, args ...*Value) *Value {
	out := &Value{Data: data, op: op, args: args}
	out.prev = distinct(args)
	return out
}

// distinct removes duplicate pointers while keeping first-seen order.
func distinct(vs []*Value) []*Value {
	out := make([]*Value, 0, len(vs))
	if len(vs) <= 8 {
		for _, v := range vs {
			if !contains(out, v) {
				out = append(out, v)
			}
		}
		return out
	}
	seen := make(map[*Value]struct{}, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(vs []*Value, v *Value) bool {
	for _, u := range vs {
		if u == v {
			return true
		}
	}
	return false
}

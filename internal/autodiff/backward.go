package autodiff

import "math"

// Backward computes the gradient of v with respect to every value it depends
// on.
//
// Algorithm:
//  1. Order all reachable values topologically (operands before results)
//     with an explicit stack, so graph depth never grows the call stack.
//  2. Seed v.Grad = 1.
//  3. Run each value's backward rule in reverse topological order. A rule
//     runs only after every value that consumed it has added its share.
//
// Gradients are added to, never assigned, so a value used along several
// paths receives the sum of all contributions.
func (v *Value) Backward() {
	topo := v.topoSort()

	v.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		topo[i].backwardStep()
	}
}

// topoSort returns every value reachable from v, each exactly once, with
// operands placed before the values computed from them.
func (v *Value) topoSort() []*Value {
	var topo []*Value
	visited := make(map[*Value]struct{})
	added := make(map[*Value]struct{})
	stack := []*Value{v}

	emit := func(node *Value) {
		if _, ok := added[node]; ok {
			return
		}
		added[node] = struct{}{}
		topo = append(topo, node)
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]

		if _, ok := visited[node]; ok {
			stack = stack[:len(stack)-1]
			emit(node)
			continue
		}
		visited[node] = struct{}{}

		pushed := false
		for i := len(node.prev) - 1; i >= 0; i-- {
			child := node.prev[i]
			if _, ok := visited[child]; !ok {
				stack = append(stack, child)
				pushed = true
			}
		}
		if !pushed {
			stack = stack[:len(stack)-1]
			emit(node)
		}
	}

	return topo
}

// backwardStep adds this node's contribution to its operands' gradients.
func (v *Value) backwardStep() {
	switch v.op {
	case OpNone:
	case OpAdd:
		a, b := v.args[0], v.args[1]
		a.Grad += v.Grad
		b.Grad += v.Grad
	case OpMul:
		a, b := v.args[0], v.args[1]
		a.Grad += b.Data * v.Grad
		b.Grad += a.Data * v.Grad
	case OpPow:
		a := v.args[0]
		a.Grad += v.exponent * math.Pow(a.Data, v.exponent-1) * v.Grad
	case OpExp:
		v.args[0].Grad += v.Data * v.Grad
	case OpLog:
		a := v.args[0]
		a.Grad += (1 / a.Data) * v.Grad
	case OpReLU:
		if v.Data > 0 {
			v.args[0].Grad += v.Grad
		}
	case OpTanh:
		v.args[0].Grad += (1 - v.Data*v.Data) * v.Grad
	case OpSoftmax:
		v.backwardSoftmax()
	default:
		panic("autodiff: backward for unknown op " + v.op.String())
	}
}

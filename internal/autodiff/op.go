package autodiff

// Op identifies the operation that produced a Value.
//
// The set is closed: Backward dispatches on the tag and recomputes the
// chain-rule contribution from the stored operands. Composite operations
// (Neg, Sub, Div) are expressed through these primitives and have no tag
// of their own.
type Op uint8

// Supported operations.
const (
	OpNone    Op = iota // Leaf value
	OpAdd               // a + b
	OpMul               // a * b
	OpPow               // a ** k, k constant
	OpExp               // e ** a
	OpLog               // ln(a)
	OpReLU              // max(0, a)
	OpTanh              // tanh(a)
	OpSoftmax           // one output of a joint softmax over a vector
)

// String returns the short tag for the operation.
func (op Op) String() string {
	switch op {
	case OpNone:
		return ""
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpPow:
		return "**"
	case OpExp:
		return "exp"
	case OpLog:
		return "log"
	case OpReLU:
		return "ReLU"
	case OpTanh:
		return "tanh"
	case OpSoftmax:
		return "softmax"
	default:
		return "unknown"
	}
}

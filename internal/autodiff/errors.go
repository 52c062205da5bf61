package autodiff

import "errors"

// ErrUnsupportedExponentType is returned by PowAny when the exponent is not a
// plain number. Differentiable exponents are not supported.
var ErrUnsupportedExponentType = errors.New("autodiff: unsupported exponent type")

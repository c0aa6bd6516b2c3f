package builtins

import (
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

// typeErr builds the TypeMismatch a native raises when its argument isn't
// the shape it expected. Natives have no access to a source position (the
// evaluator already forced and unwrapped by the time one is called), so
// these carry an empty errs.Pos; the enclosing application's position is
// attached by the evaluator's own TypeMismatch paths for everything else.
func typeErr(expected string, found value.Value) error {
	return errs.New(errs.TypeMismatch, errs.Pos{}, "expected %s, found %s", expected, found.Type()).
		WithTypes(expected, found.Type())
}

func argErr(format string, args ...interface{}) error {
	return errs.New(errs.InvalidArgument, errs.Pos{}, format, args...)
}

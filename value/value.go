// Package value implements the lazylang runtime value model: a tagged
// union of primitive, composite, function, native-function, and thunk
// variants, plus the immutable linked-list environment chain values are
// looked up through.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
)

// Value is any runtime value. Truthy reports a conventional truthiness
// (false, null, zero and empty values are falsy); the evaluator does not
// call it, since && || ! and if/unless guards require a Bool; String renders the
// canonical, single-line form used by string interpolation and the
// built-in show function; Type names the value's kind for error messages.
type Value interface {
	Truthy() bool
	String() string
	Type() string
}

// Int is a 64-bit signed integer value.
type Int int64

func (v Int) Truthy() bool  { return v != 0 }
func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Int) Type() string   { return "integer" }

// Float is a 64-bit IEEE-754 value.
type Float float64

func (v Float) Truthy() bool { return float64(v) != 0 && !math.IsNaN(float64(v)) }
func (v Float) String() string {
	// 'g' with shortest precision already renders whole-valued floats (5.0)
	// as "5" with no trailing ".0", and otherwise preserves round-trip.
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}
func (v Float) Type() string { return "float" }

// Bool is a boolean value.
type Bool bool

func (v Bool) Truthy() bool  { return bool(v) }
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}
func (v Bool) Type() string { return "boolean" }

// Null is the sole null value.
type Null struct{}

func (v Null) Truthy() bool  { return false }
func (v Null) String() string { return "null" }
func (v Null) Type() string   { return "null" }

// Symbol is an interned #tag atom; equality and identity are by name.
type Symbol struct{ Name string }

func (v Symbol) Truthy() bool  { return true }
func (v Symbol) String() string { return "#" + v.Name }
func (v Symbol) Type() string   { return "symbol" }

// String is a UTF-8 string value.
type String string

func (v String) Truthy() bool  { return v != "" }
func (v String) String() string { return strconv.Quote(string(v)) }
func (v String) Type() string   { return "string" }

// Raw returns the undecorated string content (no surrounding quotes), used
// by string interpolation and the built-ins that consume strings directly.
func (v String) Raw() string { return string(v) }

// Array is an ordered, eagerly-evaluated sequence of values.
type Array struct{ Elements []Value }

func (v Array) Truthy() bool { return true }
func (v Array) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v Array) Type() string { return "array" }

// Tuple is an ordered, fixed-arity, eagerly-evaluated sequence of values.
type Tuple struct{ Elements []Value }

func (v Tuple) Truthy() bool { return true }
func (v Tuple) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (v Tuple) Type() string { return "tuple" }

// Field is one (key, value) pair of an Object. Value is frequently a
// *Thunk: object field values are the only expressions the evaluator
// defers.
type Field struct {
	Key   string
	Value Value
}

// Object is an ordered sequence of fields. Insertion order is significant
// for iteration, merging, projection, and formatting, so this is a slice
// rather than a Go map (which the teacher's Map type uses — unordered, and
// explicitly ruled out by this language's key-order invariant).
type Object struct{ Fields []Field }

func (v Object) Truthy() bool { return true }

func (v Object) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		s, err := Force(f.Value)
		if err != nil {
			parts[i] = f.Key + ": <error>"
			continue
		}
		parts[i] = f.Key + ": " + s.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (v Object) Type() string { return "object" }

// Get returns the value of the named field (unforced) and whether it
// exists, preserving the first-match-wins search order.
func (v Object) Get(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the object's field names in insertion order.
func (v Object) Names() []string {
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = f.Key
	}
	return names
}

// With returns a new Object with name's value replaced (appending if
// absent), preserving the original position of an overwritten field.
func (v Object) With(name string, val Value) Object {
	for i, f := range v.Fields {
		if f.Key == name {
			out := make([]Field, len(v.Fields))
			copy(out, v.Fields)
			out[i] = Field{Key: name, Value: val}
			return Object{Fields: out}
		}
	}
	out := make([]Field, len(v.Fields), len(v.Fields)+1)
	copy(out, v.Fields)
	out = append(out, Field{Key: name, Value: val})
	return Object{Fields: out}
}

// Function is a user-defined closure: a single parameter pattern, a body
// expression, and the environment captured at definition time.
type Function struct {
	Param ast.Pattern
	Body  ast.Node
	Env   *Env
}

func (v *Function) Truthy() bool  { return true }
func (v *Function) String() string { return "<function>" }
func (v *Function) Type() string   { return "function" }

// Native is an opaque built-in callable taking a single-element argument
// slice (application is always unary; multi-argument natives take a tuple).
type Native struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (v *Native) Truthy() bool  { return true }
func (v *Native) String() string { return "<function>" }
func (v *Native) Type() string   { return "function" }

// ThunkState is the three-state lifecycle of a Thunk.
type ThunkState int

const (
	Unevaluated ThunkState = iota
	Evaluating
	Evaluated
)

// Thunk is a deferred computation for an object field value. It is forced
// at most once; a second forcing while still Evaluating signals
// CyclicReference, and once Evaluated it replays the same value or error
// forever.
//
// The forcing closure is supplied by the evaluator (which alone knows how
// to walk an ast.Node against an environment) — this keeps the value
// package free of an import cycle back to eval.
type Thunk struct {
	state ThunkState
	value Value
	err   error
	eval  func() (Value, error)
	pos   errs.Pos
}

// NewThunk wraps eval (the deferred computation) behind the Unevaluated
// state. pos locates the thunk's defining expression, used in the
// CyclicReference error if forcing re-enters.
func NewThunk(pos errs.Pos, eval func() (Value, error)) *Thunk {
	return &Thunk{state: Unevaluated, eval: eval, pos: pos}
}

func (t *Thunk) Truthy() bool { panic("Thunk must be forced before use") }
func (t *Thunk) String() string {
	panic("Thunk must be forced before use")
}
func (t *Thunk) Type() string { panic("Thunk must be forced before use") }

// Force evaluates the thunk exactly once, memoizing the result (value or
// error) for subsequent calls.
func (t *Thunk) Force() (Value, error) {
	switch t.state {
	case Evaluated:
		return t.value, t.err
	case Evaluating:
		return nil, errs.New(errs.CyclicReference, t.pos, "cyclic reference detected while forcing this value")
	}
	t.state = Evaluating
	v, err := t.eval()
	t.state = Evaluated
	t.value, t.err = v, err
	return v, err
}

// Force resolves v to a non-Thunk Value, forcing it if necessary. Every
// other value is returned unchanged.
func Force(v Value) (Value, error) {
	if t, ok := v.(*Thunk); ok {
		return t.Force()
	}
	return v, nil
}

// Env is one frame of the immutable environment linked list: a single
// name bound to a single value, plus a pointer to the parent frame.
// Frames are never mutated; Extend always allocates a new frame, so
// closures that captured an earlier *Env are unaffected by later
// bindings in the same lexical chain — exactly what closure-capture
// semantics requires.
type Env struct {
	Name   string
	Value  Value
	Parent *Env
}

// Extend returns a new frame binding name to val, with e as parent.
func (e *Env) Extend(name string, val Value) *Env {
	return &Env{Name: name, Value: val, Parent: e}
}

// Lookup walks the parent chain for the nearest binding of name.
func (e *Env) Lookup(name string) (Value, bool) {
	for f := e; f != nil; f = f.Parent {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns every name bound anywhere in the chain, nearest first,
// used to build "did you mean" suggestion candidates for UnknownIdentifier.
func (e *Env) Names() []string {
	var names []string
	seen := map[string]bool{}
	for f := e; f != nil; f = f.Parent {
		if !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	return names
}

// Equal implements the spec's deep structural equality: thunks are forced
// on both sides; arrays/tuples compare by length then elementwise; objects
// compare as unordered key/value maps; functions compare by identity only.
func Equal(a, b Value) (bool, error) {
	fa, err := Force(a)
	if err != nil {
		return false, err
	}
	fb, err := Force(b)
	if err != nil {
		return false, err
	}
	return equalForced(fa, fb)
}

func equalForced(a, b Value) (bool, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y, nil
		case Float:
			return float64(x) == float64(y), nil
		}
		return false, nil
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y), nil
		case Float:
			return x == y, nil
		}
		return false, nil
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y, nil
	case Null:
		_, ok := b.(Null)
		return ok, nil
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x.Name == y.Name, nil
	case String:
		y, ok := b.(String)
		return ok && x == y, nil
	case Array:
		y, ok := b.(Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false, nil
		}
		for i := range x.Elements {
			eq, err := Equal(x.Elements[i], y.Elements[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false, nil
		}
		for i := range x.Elements {
			eq, err := Equal(x.Elements[i], y.Elements[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Object:
		y, ok := b.(Object)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false, nil
		}
		for _, f := range x.Fields {
			other, ok := y.Get(f.Key)
			if !ok {
				return false, nil
			}
			eq, err := Equal(f.Value, other)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y, nil
	case *Native:
		y, ok := b.(*Native)
		return ok && x == y, nil
	}
	return false, fmt.Errorf("value: unhandled type in equality: %T", a)
}

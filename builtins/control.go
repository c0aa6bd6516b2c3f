package builtins

import (
	"sync"

	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

var controlNatives = []native{
	{"__crash", unary(crash)},
}

var crashMu sync.Mutex
var lastCrashMessage string

// LastCrashMessage returns the message passed to the most recent crash call,
// if any — the shared slot a top-level driver reads once to format a
// UserCrash error after unwinding, since the error value itself only needs
// to carry the Kind through the panic/recover boundary.
func LastCrashMessage() (string, bool) {
	crashMu.Lock()
	defer crashMu.Unlock()
	return lastCrashMessage, lastCrashMessage != ""
}

func crash(v value.Value) (value.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return nil, typeErr("a string crash message", v)
	}
	crashMu.Lock()
	lastCrashMessage = s.Raw()
	crashMu.Unlock()
	return nil, errs.New(errs.UserCrash, errs.Pos{}, "%s", s.Raw())
}

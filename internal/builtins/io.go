package builtins

import (
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

// registerIO wires the print/say/log family. These are the side-effecting
// builtins of spec.md §5 ("Ordering"): their output tokens must appear, in
// evaluation order, before the enclosing top-level form's own result
// token, so they write straight to the sink rather than returning a value
// the interpreter would print again.
func registerIO(ip *interp.Interpreter, out sink.Sink) {
	emit := func(ch interp.Channel) value.BuiltinFn {
		return func(args []value.Value) (value.Value, error) {
			for _, a := range args {
				out.Emit(interp.Output{Channel: ch, Value: a})
			}
			if len(args) == 0 {
				return value.Nil{}, nil
			}
			return args[len(args)-1], nil
		}
	}
	ip.RegisterBuiltin("print", emit(interp.ChanStdout))
	ip.RegisterBuiltin("say", emit(interp.ChanStdout))
	ip.RegisterBuiltin("log/info", emit(interp.ChanInfo))
	ip.RegisterBuiltin("log/warn", emit(interp.ChanWarn))
	ip.RegisterBuiltin("log/error", emit(interp.ChanError))
	ip.RegisterBuiltin("log/debug", emit(interp.ChanDebug))
}

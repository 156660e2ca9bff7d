package process

import (
	"fmt"
	"time"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/sink"
	"github.com/stevan/slight/internal/value"
)

// RegisterBuiltins installs spawn/send/recv/self/is-alive?/kill/processes
// into ip, bound to rt and to ip's own pid (spec.md §4.5). Kept out of
// builtins.Register so that package never has to import process, which
// itself must import builtins' sibling concerns (interp) to drive a
// spawned child — registering separately is what avoids the cycle.
func RegisterBuiltins(ip *interp.Interpreter, rt *Runtime) {
	RegisterBuiltinsWithSink(ip, rt, sink.NewSilentSink())
}

// RegisterBuiltinsWithSink is RegisterBuiltins with an explicit sink for
// routing a spawned child's own uncaught errors (spec.md §4.6: spawned
// processes use the silent sink by default; the main process wires its
// standard sink here instead).
func RegisterBuiltinsWithSink(ip *interp.Interpreter, rt *Runtime, out sink.Sink) {
	ip.RegisterBuiltin("spawn", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("spawn requires at least a function argument")
		}
		pid, err := rt.Spawn(ip, out, args[0], args[1:])
		if err != nil {
			return nil, err
		}
		return value.Number{Value: float64(pid)}, nil
	})
	ip.RegisterBuiltin("send", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("send requires exactly two arguments: (send pid value)")
		}
		toPid, err := asPid(args[0], "send")
		if err != nil {
			return nil, err
		}
		if err := rt.Send(ip.Pid, toPid, args[1]); err != nil {
			return nil, err
		}
		return value.Boolean{Value: true}, nil
	})
	ip.RegisterBuiltin("recv", func(args []value.Value) (value.Value, error) {
		var (
			timeout    time.Duration
			hasTimeout bool
		)
		switch len(args) {
		case 0:
		case 1:
			ms, err := asPid(args[0], "recv")
			if err != nil {
				return nil, err
			}
			timeout = time.Duration(ms) * time.Millisecond
			hasTimeout = true
		default:
			return nil, fmt.Errorf("recv takes at most one argument: (recv timeout_ms?)")
		}
		msg, ok := rt.Recv(ip.Pid, timeout, hasTimeout)
		if !ok {
			return value.Nil{}, nil
		}
		return value.List{Elements: []value.Value{
			value.Number{Value: float64(msg.From)},
			msg.Value,
		}}, nil
	})
	ip.RegisterBuiltin("self", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("self takes no arguments")
		}
		return value.Number{Value: float64(ip.Pid)}, nil
	})
	ip.RegisterBuiltin("is-alive?", func(args []value.Value) (value.Value, error) {
		pid, err := asPid1(args, "is-alive?")
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: rt.IsAlive(pid)}, nil
	})
	ip.RegisterBuiltin("kill", func(args []value.Value) (value.Value, error) {
		pid, err := asPid1(args, "kill")
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: rt.Kill(pid)}, nil
	})
	ip.RegisterBuiltin("processes", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("processes takes no arguments")
		}
		pids := rt.Pids()
		elems := make([]value.Value, len(pids))
		for i, pid := range pids {
			elems[i] = value.Number{Value: float64(pid)}
		}
		return value.List{Elements: elems}, nil
	})
}

func asPid(v value.Value, op string) (int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, fmt.Errorf("%s: expected a process id, got %s", op, value.TypeOf(v))
	}
	return int(n.Value), nil
}

func asPid1(args []value.Value, op string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one argument", op)
	}
	return asPid(args[0], op)
}

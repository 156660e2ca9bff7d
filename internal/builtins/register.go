// Package builtins registers the native primitive table (spec.md §4.4,
// "Builtins") into an interp.Interpreter: arithmetic, comparison, list,
// logical, map, string, I/O, JSON, file, environment, include, and
// introspection operations, per SPEC_FULL.md §4.9. The process operations
// are registered separately by internal/process.
package builtins

import (
	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/sink"
)

// Register installs every builtin into ip, routing output-producing
// builtins (print/say/log family) through out.
func Register(ip *interp.Interpreter, out sink.Sink, includeDirs []string) {
	ip.IncludePaths = includeDirs
	registerArithmetic(ip)
	registerComparison(ip)
	registerLogical(ip)
	registerList(ip)
	registerMap(ip)
	registerString(ip)
	registerIO(ip, out)
	registerJSON(ip)
	registerFile(ip)
	registerEnv(ip)
	registerInclude(ip)
	registerIntrospection(ip)
}

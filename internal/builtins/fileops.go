package builtins

import (
	"fmt"
	"os"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

func registerFile(ip *interp.Interpreter) {
	ip.RegisterBuiltin("file/read", func(args []value.Value) (value.Value, error) {
		path, err := asString1(args, "file/read")
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("file/read: %w", err)
		}
		return value.String{Value: string(b)}, nil
	})
	ip.RegisterBuiltin("file/write", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("file/write requires exactly two arguments")
		}
		path, err := asString(args[0], "file/write")
		if err != nil {
			return nil, err
		}
		content, err := asString(args[1], "file/write")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("file/write: %w", err)
		}
		return value.Nil{}, nil
	})
	ip.RegisterBuiltin("file/exists?", func(args []value.Value) (value.Value, error) {
		path, err := asString1(args, "file/exists?")
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(path)
		return value.Boolean{Value: statErr == nil}, nil
	})
}

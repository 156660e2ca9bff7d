package builtins

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/stevan/slight/internal/interp"
	"github.com/stevan/slight/internal/value"
)

// registerJSON wires json/encode, json/decode, and json/valid?. Encoding
// itself uses encoding/json (no third-party JSON codec appears anywhere
// in the reference corpus; the one exception, Tangerg-lynx's schema
// marshalling, layers on top of encoding/json rather than replacing it —
// see DESIGN.md). Schema validation reuses santhosh-tekuri/jsonschema/v5,
// the same library core/types/validation.go compiles schemas with.
func registerJSON(ip *interp.Interpreter) {
	ip.RegisterBuiltin("json/encode", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("json/encode requires exactly one argument")
		}
		native, err := toNative(args[0])
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(native)
		if err != nil {
			return nil, fmt.Errorf("json/encode: %w", err)
		}
		return value.String{Value: string(b)}, nil
	})
	ip.RegisterBuiltin("json/decode", func(args []value.Value) (value.Value, error) {
		s, err := asString1(args, "json/decode")
		if err != nil {
			return nil, err
		}
		var native interface{}
		if err := json.Unmarshal([]byte(s), &native); err != nil {
			return nil, fmt.Errorf("json/decode: %w", err)
		}
		return fromNative(native), nil
	})
	ip.RegisterBuiltin("json/valid?", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("json/valid? requires exactly two arguments: (json/valid? doc schema)")
		}
		docStr, err := asString(args[0], "json/valid?")
		if err != nil {
			return nil, err
		}
		schemaStr, err := asString(args[1], "json/valid?")
		if err != nil {
			return nil, err
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader([]byte(schemaStr))); err != nil {
			return nil, fmt.Errorf("json/valid?: invalid schema: %w", err)
		}
		schema, err := compiler.Compile("schema.json")
		if err != nil {
			return nil, fmt.Errorf("json/valid?: invalid schema: %w", err)
		}
		var doc interface{}
		if err := json.Unmarshal([]byte(docStr), &doc); err != nil {
			return nil, fmt.Errorf("json/valid?: invalid document: %w", err)
		}
		return value.Boolean{Value: schema.Validate(doc) == nil}, nil
	})
}

func toNative(v value.Value) (interface{}, error) {
	switch x := v.(type) {
	case value.Number:
		return x.Value, nil
	case value.String:
		return x.Value, nil
	case value.Boolean:
		return x.Value, nil
	case value.Nil:
		return nil, nil
	case value.List:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *value.Map:
		out := make(map[string]interface{}, len(x.Entries))
		for _, e := range x.Entries {
			k, ok := e.Key.(value.String)
			if !ok {
				return nil, fmt.Errorf("json/encode: map keys must be strings")
			}
			n, err := toNative(e.Value)
			if err != nil {
				return nil, err
			}
			out[k.Value] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("json/encode: cannot encode %s", value.TypeOf(v))
	}
}

func fromNative(n interface{}) value.Value {
	switch x := n.(type) {
	case nil:
		return value.Nil{}
	case float64:
		return value.Number{Value: x}
	case string:
		return value.String{Value: x}
	case bool:
		return value.Boolean{Value: x}
	case []interface{}:
		out := make([]value.Value, len(x))
		for i, e := range x {
			out[i] = fromNative(e)
		}
		return value.List{Elements: out}
	case map[string]interface{}:
		m := &value.Map{}
		for k, v := range x {
			m.Set(value.String{Value: k}, fromNative(v))
		}
		return m
	default:
		return value.Nil{}
	}
}

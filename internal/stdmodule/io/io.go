// Package io provides the minimal read-file/write-file/sleep trio that
// `import` needs something bound to `io` to resolve module source
// against.
package io

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gitrdm/yeti/lang"
	"github.com/gitrdm/yeti/value"
)

// Module builds the `io` Module value to bind in a program's top-level
// environment before running it, resolving relative read-file/write-file
// paths against the current working directory.
func Module() value.Module {
	return ModuleWithBase("")
}

// ModuleWithBase is Module, but resolves relative paths against base
// instead of the process's working directory — this is what cmd/yeti's
// `--path` flag wires `import` through, so `<name>.yeti` files resolve
// next to the program being run rather than wherever yeti was invoked
// from.
func ModuleWithBase(base string) value.Module {
	env := value.NewEnvironment()
	env = env.Insert("read-file", native("read-file", readFile(base)))
	env = env.Insert("write-file", native("write-file", writeFile(base)))
	env = env.Insert("sleep", native("sleep", sleep))
	return value.Module{Name: "io", Env: env}
}

func native(name string, fn func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error)) value.NativeFunction {
	return value.NativeFunction{Name: name, Fn: fn}
}

func resolve(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func readFile(base string) func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	return func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
		if len(args) != 1 {
			return env, value.NewError("read-file requires exactly 1 argument"), nil
		}
		_, v, err := eval(env, args[0])
		if err != nil || value.IsEffect(v) {
			return env, v, err
		}
		path, ok := v.(value.String)
		if !ok {
			return env, value.NewError("read-file requires a String path"), nil
		}
		data, readErr := os.ReadFile(resolve(base, string(path)))
		if readErr != nil {
			return env, value.NewError(readErr.Error()), nil
		}
		return env, value.String(data), nil
	}
}

func writeFile(base string) func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	return func(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
		if len(args) != 2 {
			return env, value.NewError("write-file requires exactly 2 arguments"), nil
		}
		values, effect, err := lang.EvalAll(env, eval, args)
		if err != nil || effect != nil {
			return env, orEffect(effect), err
		}
		path, ok := values[0].(value.String)
		if !ok {
			return env, value.NewError("write-file requires a String path"), nil
		}
		content, ok := values[1].(value.String)
		if !ok {
			return env, value.NewError("write-file requires a String contents"), nil
		}
		if err := os.WriteFile(resolve(base, string(path)), []byte(content), 0o644); err != nil {
			return env, value.NewError(err.Error()), nil
		}
		return env, value.Nil{}, nil
	}
}

func sleep(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("sleep requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	ms, ok := v.(value.Integer)
	if !ok {
		return env, value.NewError("sleep requires an Integer millisecond count"), nil
	}
	time.Sleep(time.Duration(ms.V.Int64()) * time.Millisecond)
	return env, value.Nil{}, nil
}

func orEffect(e value.Expression) value.Expression {
	if e == nil {
		return value.Nil{}
	}
	return e
}

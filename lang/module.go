package lang

import (
	"github.com/pkg/errors"

	"github.com/gitrdm/yeti/value"
)

// nativeImport implements `import name`. name is given
// unevaluated as a bare Symbol naming both the file (`<name>.yeti`) and
// the binding the resulting Module is installed under.
func nativeImport(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("import requires exactly 1 argument"), nil
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return env, value.NewError("import requires a bare symbol naming the module"), nil
	}
	mod, err := Import(env, string(sym))
	if err != nil {
		return env, nil, err
	}
	return env.Insert(string(sym), mod), value.Nil{}, nil
}

// Import reads `<name>.yeti` through the caller's `io` module's
// `read-file` procedure, tokenizes and parses it, and evaluates every
// top-level form in a fresh base environment extended with `*name*` and
// the caller's own `io` binding — imported modules can
// transitively `import` other modules and read other files, but start
// from intrinsics only, never inheriting the importer's own bindings.
func Import(callerEnv *value.Environment, name string) (value.Module, error) {
	ioMod, ok := callerEnv.Lookup("io")
	if !ok {
		return value.Module{}, errors.New("import requires an `io` module bound in the caller's environment")
	}
	source, err := readModuleSource(callerEnv, ioMod, name+".yeti")
	if err != nil {
		return value.Module{}, errors.Wrapf(err, "import %s", name)
	}

	tokens, err := Tokenize(source)
	if err != nil {
		return value.Module{}, errors.Wrapf(err, "import %s: tokenize", name)
	}
	exprs, err := ParseAll(tokens)
	if err != nil {
		return value.Module{}, errors.Wrapf(err, "import %s: parse", name)
	}

	moduleEnv := BaseEnvironment().Insert("*name*", value.String(name)).Insert("io", ioMod)
	for _, expr := range exprs {
		next, v, err := Evaluate(moduleEnv, expr)
		if err != nil {
			return value.Module{}, errors.Wrapf(err, "import %s: evaluate", name)
		}
		if value.IsEffect(v) {
			eff := v.(value.Effect)
			return value.Module{}, errors.Errorf("import %s: %s", name, eff.Message())
		}
		moduleEnv = next
	}
	return value.Module{Name: name, Env: moduleEnv}, nil
}

func readModuleSource(env *value.Environment, ioMod value.Expression, path string) (string, error) {
	mod, ok := ioMod.(value.Module)
	if !ok {
		return "", errors.New("`io` binding is not a Module")
	}
	readFile, ok := mod.Env.Lookup("read-file")
	if !ok {
		return "", errors.New("`io` module does not expose read-file")
	}
	result, err := Apply(env, readFile, []value.Expression{value.String(path)})
	if err != nil {
		return "", err
	}
	if value.IsEffect(result) {
		return "", errors.New(result.(value.Effect).Message())
	}
	s, ok := result.(value.String)
	if !ok {
		return "", errors.New("read-file did not return a String")
	}
	return string(s), nil
}

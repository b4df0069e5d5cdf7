package lang

import (
	"strconv"
	"strings"

	"github.com/gitrdm/yeti/value"
)

func coreSpecialForms() []value.NativeFunction {
	return []value.NativeFunction{
		native("def", nativeDef),
		native("fn", nativeFn),
		native("defn", nativeDefn),
		native("if", nativeIf),
		native("when", nativeWhen),
		native("do", nativeDo),
		native("let", nativeLet),
		native("for", nativeFor),
		native("->", nativeThread),
		native("eval", nativeEval),
		native("read-string", nativeReadString),
		native("assert", nativeAssert),
		native("str", nativeStr),
		native("bound?", nativeBoundQ),
		native("inc", nativeInc),
		native("range", nativeRange),
		native("import", nativeImport),
		native("spawn", nativeSpawn),
	}
}

func nativeDef(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 2 {
		return env, value.NewError("def requires exactly 2 arguments"), nil
	}
	name, ok := args[0].(value.Symbol)
	if !ok {
		return env, value.NewError("def requires a symbol name"), nil
	}
	_, v, err := eval(env, args[1])
	if err != nil {
		return env, nil, err
	}
	if value.IsEffect(v) {
		return env, v, nil
	}
	return env.Insert(string(name), v), value.Nil{}, nil
}

// buildFunctionClauses reads the (params body…) or ([params…] body…)
// clause syntax shared by `fn` and `defn`.
func buildFunctionClauses(args []value.Expression) ([]value.FunctionClause, bool) {
	if len(args) == 0 {
		return nil, false
	}
	if params, ok := args[0].(value.Array); ok {
		return []value.FunctionClause{{Params: params, Body: args[1:]}}, true
	}
	var clauses []value.FunctionClause
	for _, a := range args {
		call, ok := a.(value.Call)
		if !ok {
			return nil, false
		}
		params, ok := call.Function.(value.Array)
		if !ok {
			return nil, false
		}
		clauses = append(clauses, value.FunctionClause{Params: params, Body: call.Arguments})
	}
	return clauses, true
}

func nativeFn(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	clauses, ok := buildFunctionClauses(args)
	if !ok {
		return env, value.NewError("fn requires one or more (params body…) clauses"), nil
	}
	return env, value.Function{Clauses: clauses, Captured: env}, nil
}

func nativeDefn(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 2 {
		return env, value.NewError("defn requires a name and one or more clauses"), nil
	}
	name, ok := args[0].(value.Symbol)
	if !ok {
		return env, value.NewError("defn requires a symbol name"), nil
	}
	clauses, ok := buildFunctionClauses(args[1:])
	if !ok {
		return env, value.NewError("defn requires one or more (params body…) clauses"), nil
	}
	captured := env.Insert("*self*", value.Symbol(name))
	fn := value.Function{Name: string(name), Clauses: clauses, Captured: captured}
	return env.Insert(string(name), fn), value.Nil{}, nil
}

func nativeIf(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 2 || len(args) > 3 {
		return env, value.NewError("if requires 2 or 3 arguments"), nil
	}
	_, cond, err := eval(env, args[0])
	if err != nil || value.IsEffect(cond) {
		return env, cond, err
	}
	if value.Truthy(cond) {
		_, v, err := eval(env, args[1])
		return env, v, err
	}
	if len(args) == 3 {
		_, v, err := eval(env, args[2])
		return env, v, err
	}
	return env, value.Nil{}, nil
}

func nativeWhen(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 1 {
		return env, value.NewError("when requires a condition"), nil
	}
	_, cond, err := eval(env, args[0])
	if err != nil || value.IsEffect(cond) {
		return env, cond, err
	}
	if !value.Truthy(cond) {
		return env, value.Nil{}, nil
	}
	values, effect, err := evaluateConcurrent(env, args[1:])
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	if len(values) == 0 {
		return env, value.Nil{}, nil
	}
	return env, values[len(values)-1], nil
}

func nativeDo(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	values, effect, err := evaluateConcurrent(env, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	if len(values) == 0 {
		return env, value.Nil{}, nil
	}
	return env, values[len(values)-1], nil
}

func nativeLet(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 1 {
		return env, value.NewError("let requires a binding array"), nil
	}
	bindings, ok := args[0].(value.Array)
	if !ok || len(bindings.Elements)%2 != 0 {
		return env, value.NewError("let requires an even-length binding array"), nil
	}
	cur := env
	for i := 0; i < len(bindings.Elements); i += 2 {
		pattern := bindings.Elements[i]
		_, v, err := eval(cur, bindings.Elements[i+1])
		if err != nil {
			return env, nil, err
		}
		if value.IsEffect(v) {
			return env, v, nil
		}
		next, ok := Match(cur, pattern, v)
		if !ok {
			return env, value.NewError("Cannot pattern match " + pattern.String() + " with " + v.String()), nil
		}
		cur = next
	}
	result, err := evaluateSequentialBody(cur, args[1:])
	if err != nil {
		return env, nil, err
	}
	return env, result, nil
}

func nativeFor(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) < 1 {
		return env, value.NewError("for requires a [pattern seq-expr] binding"), nil
	}
	binding, ok := args[0].(value.Array)
	if !ok || len(binding.Elements) != 2 {
		return env, value.NewError("for requires a [pattern seq-expr] binding"), nil
	}
	pattern := binding.Elements[0]
	_, seqVal, err := eval(env, binding.Elements[1])
	if err != nil {
		return env, nil, err
	}
	if value.IsEffect(seqVal) {
		return env, seqVal, nil
	}
	seq, ok := seqVal.(value.Array)
	if !ok {
		return env, value.NewError("for requires an Array sequence"), nil
	}
	body := args[1:]

	type outcome struct {
		value value.Expression
		err   error
	}
	results := make([]outcome, len(seq.Elements))
	done := make(chan int, len(seq.Elements))
	for i, elem := range seq.Elements {
		go func(i int, elem value.Expression) {
			iterEnv, ok := Match(env, pattern, elem)
			if !ok {
				results[i] = outcome{value: value.NewError("Cannot pattern match " + pattern.String() + " with " + elem.String())}
				done <- i
				return
			}
			v, err := evaluateSequentialBody(iterEnv, body)
			results[i] = outcome{value: v, err: err}
			done <- i
		}(i, elem)
	}
	for range seq.Elements {
		<-done
	}
	values := make([]value.Expression, len(results))
	for i, o := range results {
		if o.err != nil {
			return env, nil, o.err
		}
		if value.IsEffect(o.value) {
			return env, o.value, nil
		}
		values[i] = o.value
	}
	return env, value.NewArray(values...), nil
}

func nativeThread(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) == 0 {
		return env, value.NewError("-> requires at least 1 argument"), nil
	}
	cur := args[0]
	for _, f := range args[1:] {
		if call, ok := f.(value.Call); ok {
			newArgs := append([]value.Expression{cur}, call.Arguments...)
			cur = value.Call{Function: call.Function, Arguments: newArgs}
		} else {
			cur = value.Call{Function: f, Arguments: []value.Expression{cur}}
		}
	}
	_, v, err := eval(env, cur)
	return env, v, err
}

func nativeEval(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("eval requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	_, v2, err := eval(env, v)
	return env, v2, err
}

func nativeReadString(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("read-string requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	s, ok := v.(value.String)
	if !ok {
		return env, value.NewError("read-string requires a String argument"), nil
	}
	tokens, terr := Tokenize(string(s))
	if terr != nil {
		return env, value.NewError(terr.Error()), nil
	}
	expr, consumed, perr := Parse(tokens)
	if perr != nil {
		return env, value.NewError(perr.Error()), nil
	}
	if consumed != len(tokens) {
		return env, value.NewError("read-string: extra input after expression"), nil
	}
	return env, expr, nil
}

func nativeAssert(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("assert requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	if !value.Truthy(v) {
		return env, value.NewError("Assertion failed"), nil
	}
	return env, value.Nil{}, nil
}

func nativeStr(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	values, effect, err := evalAll(env, eval, args)
	if err != nil || effect != nil {
		return env, orEffect(effect), err
	}
	var b strings.Builder
	for _, v := range values {
		if s, ok := v.(value.String); ok {
			b.WriteString(string(s))
		} else {
			b.WriteString(v.String())
		}
	}
	return env, value.String(b.String()), nil
}

func nativeBoundQ(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("bound? requires exactly 1 argument"), nil
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return env, value.NewError("bound? requires a symbol"), nil
	}
	_, found := env.Lookup(string(sym))
	return env, value.Bool(found), nil
}

func nativeInc(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("inc requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	sum, addErr := addNumbers(v, value.NewInteger(1))
	if addErr != nil {
		return env, value.NewError(addErr.Error()), nil
	}
	return env, sum, nil
}

func nativeRange(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	if len(args) != 1 {
		return env, value.NewError("range requires exactly 1 argument"), nil
	}
	_, v, err := eval(env, args[0])
	if err != nil || value.IsEffect(v) {
		return env, v, err
	}
	n, ok := v.(value.Integer)
	if !ok {
		return env, value.NewError("range requires an Integer argument"), nil
	}
	count, convErr := strconv.Atoi(n.V.String())
	if convErr != nil || count < 0 {
		return env, value.NewError("range argument out of bounds"), nil
	}
	elems := make([]value.Expression, count)
	for i := 0; i < count; i++ {
		elems[i] = value.NewInteger(int64(i))
	}
	return env, value.NewArray(elems...), nil
}

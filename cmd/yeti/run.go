package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	stdio "github.com/gitrdm/yeti/internal/stdmodule/io"
	"github.com/gitrdm/yeti/lang"
	"github.com/gitrdm/yeti/value"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "tokenize, parse and evaluate a .yeti source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
}

func runFile(path string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(source)
	if err != nil {
		return errors.Wrap(err, "tokenize")
	}
	exprs, err := lang.ParseAll(tokens)
	if err != nil {
		return errors.Wrap(err, "parse")
	}

	base := importPath
	if base == "" {
		base = filepath.Dir(path)
	}
	env := lang.BaseEnvironment().Insert("io", stdio.ModuleWithBase(base))

	var result value.Expression = value.Nil{}
	for _, expr := range exprs {
		next, v, err := lang.Evaluate(env, expr)
		if err != nil {
			return errors.Wrap(err, "evaluate")
		}
		if value.IsEffect(v) {
			return errors.New(v.(value.Effect).Message())
		}
		env = next
		result = v
	}
	fmt.Println(result.String())
	return nil
}

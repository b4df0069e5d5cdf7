package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gitrdm/yeti/lang"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "tokenize and parse a .yeti source file, printing each top-level form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return parseFile(args[0])
		},
	}
}

func parseFile(path string) error {
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
	for _, e := range exprs {
		fmt.Println(e.String())
	}
	return nil
}

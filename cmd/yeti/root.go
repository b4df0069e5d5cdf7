package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// importPath is the directory `import` resolves `<name>.yeti` files
// against. It defaults to the directory containing the source
// file being run, not the process's working directory, so a program can
// be invoked from anywhere and still find its own imports.
var importPath string

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yeti",
		Short:         "yeti runs and inspects .yeti source files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&importPath, "path", "", "directory `import` resolves <name>.yeti files against (default: the source file's own directory)")
	root.AddCommand(newRunCmd())
	root.AddCommand(newParseCmd())
	return root
}

func readSource(path string) (string, error) {
	data, err := readFileArg(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

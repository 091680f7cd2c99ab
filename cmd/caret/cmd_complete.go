package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/caret/format"
	"github.com/dhamidi/caret/java"
	"github.com/dhamidi/caret/java/completion"
)

func newCompleteCmd(flags *globalFlags) *cobra.Command {
	var offset int
	var marker string
	var opts completion.Options
	var expected string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "complete <file>",
		Short: "Print the completion context at a position of a .java file",
		Long: `Print the completion context at a position of a .java file.

The position is either a byte offset or the end of the first occurrence
of a marker string, so that the marker itself is the token being
completed.

Examples:
  caret complete src/p/X.java --offset 120
  caret complete X.java --marker ZZZZ --extended --visible --enclosing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			source, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			switch {
			case marker != "" && cmd.Flags().Changed("offset"):
				return fmt.Errorf("--offset and --marker are mutually exclusive")
			case marker != "":
				i := bytes.Index(source, []byte(marker))
				if i < 0 {
					return fmt.Errorf("marker %q not found in %s", marker, filename)
				}
				offset = i + len(marker)
			case !cmd.Flags().Changed("offset"):
				return fmt.Errorf("one of --offset or --marker is required")
			}

			cfg, err := loadConfig(flags, filepath.Dir(filename))
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			opts.File = filename
			opts.ExpectedTypeFilter = java.Signature(expected)
			ctx, err := completion.Resolve(store, source, offset, opts)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}

			switch outputFormat {
			case "json":
				return format.NewContextJSONEncoder(cmd.OutOrStdout()).Encode(ctx)
			case "text":
				return format.NewContextTextEncoder(cmd.OutOrStdout()).Encode(ctx)
			}
			return fmt.Errorf("unknown format: %s", outputFormat)
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "byte offset of the caret")
	cmd.Flags().StringVarP(&marker, "marker", "m", "", "place the caret after the first occurrence of this text")
	cmd.Flags().BoolVar(&opts.UseExtendedContext, "extended", false, "run the semantic pass needed for visible symbols")
	cmd.Flags().BoolVar(&opts.IncludeVisibleSymbols, "visible", false, "list the symbols visible at the caret")
	cmd.Flags().BoolVar(&opts.IncludeEnclosing, "enclosing", false, "report the enclosing declaration")
	cmd.Flags().StringVar(&expected, "expected", "", "keep only visible symbols assignable to this signature, e.g. I or Ljava.lang.String;")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}

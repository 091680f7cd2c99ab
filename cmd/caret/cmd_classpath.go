package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/caret/format"
	"github.com/dhamidi/caret/java"
)

func newClasspathCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string
	var className string
	var members bool

	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "List the classes indexed from the class path and source path",
		Long: `List the classes indexed from the class path and source path.

Entries come from caret.yaml, found from the working directory, unless
--config, --classpath or --sourcepath say otherwise.

Examples:
  caret classpath                         # one line per class
  caret classpath --members               # with fields and methods
  caret classpath --class java.util.List -f java`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(flags, wd)
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if line, ok := encoder.(*format.LineEncoder); ok {
				line.HeaderOnly = !members && className == ""
			}

			classes := store.Classes()
			if className != "" {
				index, err := store.View()
				if err != nil {
					return err
				}
				class := index.FindClass(className)
				if class == nil {
					return fmt.Errorf("class %s not found", className)
				}
				classes = []*java.ClassModel{class}
			}

			for _, class := range classes {
				if err := encoder.Encode(class); err != nil {
					return fmt.Errorf("encode %s: %w", class.Name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json, java)")
	cmd.Flags().StringVar(&className, "class", "", "print only the class with this binary name")
	cmd.Flags().BoolVar(&members, "members", false, "include fields and methods in line output")

	return cmd
}

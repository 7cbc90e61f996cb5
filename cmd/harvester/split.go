package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coolbeans/harvester/pkg/reference"
)

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split one XML document into addressed YAML",
		Long: `Parse a BWB XML document, split it into articles, paragraphs and items,
and write one YAML document per top-level article.

Use "-" to read from standard input.

Example:
  harvester split BWBR0018451.xml
  harvester split BWBR0018451.xml -o zorgtoeslag.yaml --width 80 --refs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			showRefs, _ := cmd.Flags().GetBool("refs")

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.logger.Sync()

			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			pipeline, err := env.pipeline()
			if err != nil {
				return err
			}
			out, err := pipeline.Transform(data)
			if err != nil {
				return fmt.Errorf("failed to split %s: %w", args[0], err)
			}

			if output == "" {
				if _, err := os.Stdout.Write(out.YAML); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(output, out.YAML, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(os.Stderr, "Wrote %d components to %s\n", len(out.Root.Flatten()), output)
			}

			for _, w := range out.Document.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			if showRefs {
				printReferences(os.Stderr, out.References)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Int("width", 0, "Wrap width for text fields (0 disables wrapping)")
	cmd.Flags().Bool("refs", false, "Print collected cross-references")

	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printReferences(w io.Writer, refs []reference.Reference) {
	fmt.Fprintf(w, "\nReferences (%d):\n", len(refs))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ADDRESS\tKIND\tTARGET\tIDENTIFIER")
	for _, ref := range refs {
		address := ref.SourceAddress
		if address == "" {
			address = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", address, ref.Kind, ref.Target, ref.Identifier)
	}
	tw.Flush()
}

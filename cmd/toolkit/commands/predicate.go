package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/on-the-ground/toolkit_go/db/predicate"
)

func (c *CLI) newPredicateCmd() *cobra.Command {
	var params, or bool
	cmd := &cobra.Command{
		Use:   "predicate <mapping>",
		Short: "Render a YAML or JSON mapping as a SQL predicate",
		Example: `  toolkit predicate '{status: active, "~kind": [a, b]}'
  toolkit predicate --params '{id: [1, 2], name: "jo%"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := decodeDocument(strings.NewReader(args[0]))
			if err != nil {
				return err
			}
			preds, ok := doc.(map[string]any)
			if !ok {
				return fmt.Errorf("predicate input must be a mapping with string keys, got %T", doc)
			}

			if !params {
				andor := "AND"
				if or {
					andor = "OR"
				}
				_, err := fmt.Fprintln(c.stdout, predicate.String(preds, andor))
				return err
			}

			b := &predicate.Builder{}
			clause := strings.TrimPrefix(predicate.Where(b, preds), " WHERE ")
			if _, err := fmt.Fprintln(c.stdout, clause); err != nil {
				return err
			}
			for i, arg := range b.Args() {
				if _, err := fmt.Fprintf(c.stdout, "$%d = %v\n", i+1, arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&params, "params", false, "Render a parameterized clause and its arguments")
	cmd.Flags().BoolVar(&or, "or", false, "Join plain predicates with OR")
	return cmd
}

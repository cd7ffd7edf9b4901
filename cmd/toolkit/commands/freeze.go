package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/on-the-ground/toolkit_go/pure"
)

func (c *CLI) newFreezeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze [file]",
		Short: "Print the canonical key and hash of a YAML or JSON document",
		Long: `Reads a YAML or JSON document from file, or stdin when no file is given,
and prints its canonical key and xxhash64 digest. Documents that differ only in
mapping order print the same key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := c.stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			doc, err := decodeDocument(in)
			if err != nil {
				return err
			}

			key, err := pure.KeyOf(pure.Freeze(doc))
			if err != nil {
				return err
			}
			c.logger.Debug("froze document")
			_, err = fmt.Fprintf(c.stdout, "key: %s\nhash: %016x\n", key, key.Hash())
			return err
		},
	}
}

// decodeDocument reads one YAML document; JSON is accepted as YAML.
func decodeDocument(r io.Reader) (any, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

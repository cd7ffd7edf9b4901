package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/toolkit_go/aws/s3data"
	"github.com/on-the-ground/toolkit_go/parallel"
	"github.com/on-the-ground/toolkit_go/shared/helper"
)

func (c *CLI) newS3OptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "s3-options",
		Short: "Print the resolved AWS credentials as storage options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := s3data.NewSession(c.cfg.S3)
			if err != nil {
				return err
			}
			opts, err := s3data.StorageOptions(sess)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(opts))
			for k := range opts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, err := fmt.Fprintf(c.stdout, "%s=%s\n", k, opts[k]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newParquetInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parquet-info <path>",
		Short: "Display the schema and row count of a parquet file or S3 dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer helper.Timer(c.logger, "parquet-info took {cost}s")()
			ctx := cmd.Context()

			if !strings.HasPrefix(args[0], "s3://") {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				tbl, err := s3data.ReadParquet(ctx, f)
				if err != nil {
					return err
				}
				defer tbl.Release()
				return c.printTable(args[0], tbl)
			}

			sess, err := s3data.NewSession(c.cfg.S3)
			if err != nil {
				return err
			}
			d, err := s3data.Open(ctx, s3.New(sess), args[0], c.logger)
			if err != nil {
				return err
			}
			tables, err := d.ReadAll(ctx, parallel.NewPool(c.cfg.Parallel.Workers, c.logger))
			if err != nil {
				return err
			}
			for i, tbl := range tables {
				err := c.printTable("s3://"+d.Bucket+"/"+d.Fragments[i].Key, tbl)
				tbl.Release()
				if err != nil {
					return err
				}
			}
			c.logger.Info("read dataset", zap.Int("fragments", len(tables)))
			return nil
		},
	}
}

func (c *CLI) printTable(name string, tbl arrow.Table) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", name)
	for i, field := range tbl.Schema().Fields() {
		fmt.Fprintf(&b, "%d. Name: %s\n", i, field.Name)
		fmt.Fprintf(&b, "%d. Type: %s\n", i, field.Type)
		fmt.Fprintf(&b, "%d. Nullable: %v\n", i, field.Nullable)
	}
	fmt.Fprintf(&b, "Number of rows: %d\n", tbl.NumRows())
	_, err := io.WriteString(c.stdout, b.String())
	return err
}

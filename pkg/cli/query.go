package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minereport/dwquery"
	"github.com/minereport/dwquery/pkg/config"
	"github.com/minereport/dwquery/pkg/frame"
)

func NewQueryCmd() *cobra.Command {
	var (
		project   string
		chunkSize int
	)

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL query and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}
			reg := dwquery.NewRegistry(cfg, dwquery.WithLogger(log))
			defer reg.Close()

			eng, err := reg.Engine(project)
			if err != nil {
				return err
			}

			query := args[0]
			if chunkSize > 0 {
				chunks, err := eng.QueryChunks(cmd.Context(), query, chunkSize)
				if err != nil {
					return err
				}
				defer chunks.Close()
				n := 0
				for chunks.Next() {
					n++
					cmd.Printf("-- chunk %d --\n", n)
					printFrame(cmd, chunks.Frame())
				}
				return chunks.Err()
			}

			f, err := eng.QueryFrame(cmd.Context(), query)
			if err != nil {
				return err
			}
			printFrame(cmd, f)
			cmd.Printf("(%d rows)\n", f.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", config.DefaultProject, "project to query")
	cmd.Flags().IntVar(&chunkSize, "chunksize", 0, "stream the result in chunks of this many rows")
	return cmd
}

func printFrame(cmd *cobra.Command, f *frame.Frame) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(f.Columns, "\t"))
	for _, row := range f.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/minereport/dwquery"
	"github.com/minereport/dwquery/pkg/config"
	"github.com/minereport/dwquery/server"
)

func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}
			reg := dwquery.NewRegistry(cfg, dwquery.WithLogger(log))
			defer reg.Close()

			return server.New(reg, log).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8050", "listen address")
	return cmd
}

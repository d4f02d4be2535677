package cli

import (
	"github.com/spf13/cobra"

	"github.com/minereport/dwquery"
	"github.com/minereport/dwquery/pkg/config"
)

func NewPingCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Verify warehouse connectivity for a project",
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
			if err := eng.Ping(cmd.Context()); err != nil {
				return err
			}
			if label, ok := config.Labels[project]; ok {
				cmd.Printf("connection to %s (%s) OK\n", project, label)
			} else {
				cmd.Printf("connection to %s OK\n", project)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", config.DefaultProject, "project to connect to")
	return cmd
}

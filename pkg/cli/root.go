package cli

import (
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.3.0"
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top–level `dwquery` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dwquery",
		Short: "dwquery — data-warehouse connectivity and query helper",
		Long: `dwquery talks to the mine data warehouses over ODBC.
It can probe connectivity, run ad-hoc queries (optionally in chunks),
and serve the report portal's query API over HTTP.

Connection parameters come from the environment (or a .env file):
DB_DRIVER, DB_SERVER, DB_NAME, DB_USER, DB_PASSWORD, with _PROJETO2..5
suffixes for the optional extra projects.`,
	}
	root.AddCommand(NewPingCmd())
	root.AddCommand(NewQueryCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	path := ""
	if b := e.cfg.Store.Backend; b == "" || b == store.BackendSQLite {
		path = e.cfg.Store.Path
	}
	stats, err := store.CollectStats(cmd.Context(), e.store, e.cfg.Store.Backend, path)
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(cmd.OutOrStdout(), stats)
}

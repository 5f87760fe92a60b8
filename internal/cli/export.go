package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted state as JSON",
		Long:  "Export every stored record (settings, zoom and page memory, library) as a JSON array.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	records, err := store.Export(cmd.Context(), e.store)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), records)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <key>...",
		Short: "Delete stored records by key",
		Long:  "Delete raw store records, e.g. paperdesk.zoom-memory to forget every remembered scale. See export for the keys in use.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	removed := 0
	for _, key := range args {
		if _, err := e.store.Get(cmd.Context(), key); errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err := e.store.Remove(cmd.Context(), key); err != nil {
			exitErr("rm", err)
		}
		removed++
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"removed":%d}`+"\n", removed)
}

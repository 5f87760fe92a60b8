package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/dockey"
	"github.com/rcliao/paperdesk/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "key <path>...",
		Short: "Print the document key of each path",
		Args:  cobra.MinimumNArgs(1),
		Run:   runKey,
	}

	cmd.Flags().Bool("hash", false, "Derive keys from file content")

	RootCmd.AddCommand(cmd)
}

type keyView struct {
	Path string `json:"path"`
	Key  string `json:"key"`
}

func runKey(cmd *cobra.Command, args []string) {
	hash, _ := cmd.Flags().GetBool("hash")

	var r dockey.Resolver = dockey.Structural{}
	if hash {
		r = dockey.ContentHash{}
	}

	out := make([]keyView, len(args))
	for i, p := range args {
		out[i] = keyView{Path: p, Key: r.Resolve(model.PathRef(p))}
	}
	printJSON(cmd.OutOrStdout(), out)
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/dockey"
	"github.com/rcliao/paperdesk/internal/model"
	"github.com/rcliao/paperdesk/internal/position"
	"github.com/rcliao/paperdesk/internal/zoom"
)

var useHash bool

func init() {
	zoomCmd := &cobra.Command{
		Use:   "zoom",
		Short: "Inspect or edit remembered zoom scales",
	}
	zoomCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List remembered scales", Args: cobra.NoArgs, Run: runZoomList},
		&cobra.Command{Use: "get <doc>", Short: "Show the remembered scale of a document", Args: cobra.ExactArgs(1), Run: runZoomGet},
		&cobra.Command{Use: "set <doc> <scale>", Short: "Remember a scale for a document", Args: cobra.ExactArgs(2), Run: runZoomSet},
		&cobra.Command{Use: "rm <doc>", Short: "Forget the scale of a document", Args: cobra.ExactArgs(1), Run: runZoomRm},
	)

	pageCmd := &cobra.Command{
		Use:   "page",
		Short: "Inspect or edit remembered pages",
	}
	pageCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List remembered pages", Args: cobra.NoArgs, Run: runPageList},
		&cobra.Command{Use: "get <doc>", Short: "Show the remembered page of a document", Args: cobra.ExactArgs(1), Run: runPageGet},
		&cobra.Command{Use: "set <doc> <page>", Short: "Remember a page for a document", Args: cobra.ExactArgs(2), Run: runPageSet},
		&cobra.Command{Use: "rm <doc>", Short: "Forget the page of a document", Args: cobra.ExactArgs(1), Run: runPageRm},
	)

	for _, c := range []*cobra.Command{zoomCmd, pageCmd} {
		c.PersistentFlags().BoolVar(&useHash, "hash", false, "Key documents by content hash instead of path")
		RootCmd.AddCommand(c)
	}
}

// docKey turns a command argument into a DocumentKey. Arguments that already
// look like keys are used verbatim.
func docKey(arg string) string {
	for _, p := range []string{"path:", "file:", "sha256:"} {
		if strings.HasPrefix(arg, p) {
			return arg
		}
	}
	ref := model.PathRef(arg)
	if useHash {
		return dockey.ContentHash{}.Resolve(ref)
	}
	return dockey.Resolve(ref)
}

func runZoomList(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	printJSON(cmd.OutOrStdout(), zoom.New(cmd.Context(), e.store, e.log).Entries())
}

func runZoomGet(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	scale, ok := zoom.New(cmd.Context(), e.store, e.log).Get(key)
	if !ok {
		exitErr("zoom get", fmt.Errorf("no scale remembered for %s", key))
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"key":%q,"scale":%g}`+"\n", key, scale)
}

func runZoomSet(cmd *cobra.Command, args []string) {
	scale, err := strconv.ParseFloat(args[1], 64)
	if err != nil || scale <= 0 {
		exitErr("zoom set", fmt.Errorf("invalid scale %q", args[1]))
	}

	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	zoom.New(cmd.Context(), e.store, e.log).Set(cmd.Context(), key, scale)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", key)
}

func runZoomRm(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	zoom.New(cmd.Context(), e.store, e.log).Remove(cmd.Context(), key)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", key)
}

func runPageList(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	printJSON(cmd.OutOrStdout(), position.New(cmd.Context(), e.store, e.log).Entries())
}

func runPageGet(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	page, ok := position.New(cmd.Context(), e.store, e.log).Get(key)
	if !ok {
		exitErr("page get", fmt.Errorf("no page remembered for %s", key))
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"key":%q,"page":%d}`+"\n", key, page)
}

func runPageSet(cmd *cobra.Command, args []string) {
	page, err := strconv.Atoi(args[1])
	if err != nil || page < 1 {
		exitErr("page set", fmt.Errorf("invalid page %q", args[1]))
	}

	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	position.New(cmd.Context(), e.store, e.log).Set(cmd.Context(), key, page)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", key)
}

func runPageRm(cmd *cobra.Command, args []string) {
	e := openEnv(cmd.Context())
	defer e.Close()

	key := docKey(args[0])
	position.New(cmd.Context(), e.store, e.log).Remove(cmd.Context(), key)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", key)
}

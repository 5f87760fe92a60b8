package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/settings"
)

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change reader settings",
		Run:   runSettingsGet,
	}

	get := &cobra.Command{
		Use:   "get [field]",
		Short: "Show all settings or a single field",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSettingsGet,
	}

	set := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change a single setting",
		Long:  "Change a single setting. Fields: " + fieldList() + ".",
		Args:  cobra.ExactArgs(2),
		Run:   runSettingsSet,
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		Run:   runSettingsReset,
	}

	pick := &cobra.Command{
		Use:   "pick-folder",
		Short: "Choose the download folder interactively",
		Long:  "Prompt for a directory on stdin. An empty answer cancels and leaves the setting unchanged.",
		Args:  cobra.NoArgs,
		Run:   runSettingsPick,
	}

	cmd.AddCommand(get, set, reset, pick)
	RootCmd.AddCommand(cmd)
}

func fieldList() string {
	names := make([]string, len(settings.Fields))
	for i, f := range settings.Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func openSettings(ctx context.Context) (*env, *settings.Store) {
	e := openEnv(ctx)
	return e, settings.New(ctx, e.store, e.log)
}

func runSettingsGet(cmd *cobra.Command, args []string) {
	e, st := openSettings(cmd.Context())
	defer e.Close()

	current := st.Current()
	if len(args) == 0 {
		printJSON(cmd.OutOrStdout(), current)
		return
	}

	v, err := settings.Value(current, settings.Field(args[0]))
	if err != nil {
		exitErr("settings get", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	e, st := openSettings(cmd.Context())
	defer e.Close()

	changed, err := st.SetField(cmd.Context(), settings.Field(args[0]), args[1])
	if err != nil {
		exitErr("settings set", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"field":%q,"changed":%t}`+"\n", args[0], changed)
}

func runSettingsReset(cmd *cobra.Command, args []string) {
	e, st := openSettings(cmd.Context())
	defer e.Close()

	printJSON(cmd.OutOrStdout(), st.Reset(cmd.Context()))
}

func runSettingsPick(cmd *cobra.Command, args []string) {
	e, st := openSettings(cmd.Context())
	defer e.Close()

	picker := promptPicker{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
	changed, err := st.ChooseDownloadFolder(cmd.Context(), picker)
	if err != nil {
		exitErr("pick folder", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"changed":%t,"arxivDownloadFolder":%q}`+"\n",
		changed, st.Current().ArxivDownloadFolder)
}

// promptPicker reads a directory from a line of input.
type promptPicker struct {
	in  io.Reader
	out io.Writer
}

func (p promptPicker) ChooseDirectory(ctx context.Context) (string, bool, error) {
	fmt.Fprint(p.out, "download folder: ")
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

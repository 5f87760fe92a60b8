package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/library"
	"github.com/rcliao/paperdesk/internal/model"
	"github.com/rcliao/paperdesk/internal/position"
	"github.com/rcliao/paperdesk/internal/session"
	"github.com/rcliao/paperdesk/internal/settings"
	"github.com/rcliao/paperdesk/internal/workspace"
	"github.com/rcliao/paperdesk/internal/zoom"
)

const shellHelp = `commands:
  open <path>             open a document by path
  drop <path>             open a document as a dropped file handle
  close [tab]             close a tab (default: active)
  switch <tab>            focus a tab
  page <n> [tab]          go to page n
  zoom <scale|fit> [tab]  set zoom scale, or fit width
  scroll <offset> [tab]   record scroll offset
  tabs                    list open tabs
  active                  show the active tab
  quit                    leave the shell
tabs are given by id or by position as #n`

var errQuit = errors.New("quit")

func init() {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive reading session",
		Long:  "Open, switch and close document tabs interactively. Commands are read line by line from stdin.\n\n" + shellHelp,
		Run:   runShell,
	}

	RootCmd.AddCommand(cmd)
}

func runShell(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	e := openEnv(ctx)
	defer e.Close()

	ws := workspace.New(
		session.NewManager(nil),
		zoom.New(ctx, e.store, e.log),
		position.New(ctx, e.store, e.log),
		settings.New(ctx, e.store, e.log),
		e.log,
	)
	sh := &shell{ws: ws, out: cmd.OutOrStdout()}
	if err := sh.run(ctx, cmd.InOrStdin()); err != nil {
		exitErr("shell", err)
	}
}

type shell struct {
	ws  *workspace.Workspace
	out io.Writer
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "open", "drop":
		if len(args) == 0 {
			return fmt.Errorf("%s: path required", name)
		}
		path := strings.Join(args, " ")
		var ref model.DocumentRef = model.PathRef(path)
		if name == "drop" {
			md, err := library.Metadata(path)
			if err != nil {
				return err
			}
			ref = md.FileRef()
		}
		s.ws.Open(ctx, ref)
		s.printActive()

	case "close":
		s.ws.Close(s.tabID(args, 0))
		s.printTabs()

	case "switch":
		if len(args) == 0 {
			return errors.New("switch: tab required")
		}
		s.ws.Switch(s.tabID(args, 0))
		s.printActive()

	case "page":
		if len(args) == 0 {
			return errors.New("page: number required")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		s.ws.SetPage(ctx, s.tabID(args, 1), n)
		s.printActive()

	case "zoom":
		if len(args) == 0 {
			return errors.New("zoom: scale or 'fit' required")
		}
		id := s.tabID(args, 1)
		if args[0] == "fit" {
			s.ws.FitWidth(id)
		} else {
			scale, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
			if err != nil {
				return fmt.Errorf("zoom: %w", err)
			}
			if strings.HasSuffix(args[0], "%") {
				scale /= 100
			}
			s.ws.SetScale(ctx, id, scale)
		}
		s.printActive()

	case "scroll":
		if len(args) == 0 {
			return errors.New("scroll: offset required")
		}
		off, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		s.ws.Scroll(s.tabID(args, 1), off)

	case "tabs":
		s.printTabs()

	case "active":
		s.printActive()

	case "help":
		fmt.Fprintln(s.out, shellHelp)

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return nil
}

// tabID resolves args[i] as a tab id or #position, defaulting to the active
// tab when absent. Unknown positions resolve to "" which every operation
// ignores.
func (s *shell) tabID(args []string, i int) string {
	if i >= len(args) {
		return s.ws.Tabs.ActiveID()
	}
	ref := args[i]
	if n, ok := strings.CutPrefix(ref, "#"); ok {
		idx, err := strconv.Atoi(n)
		tabs := s.ws.Tabs.Tabs()
		if err != nil || idx < 1 || idx > len(tabs) {
			return ""
		}
		return tabs[idx-1].ID
	}
	return ref
}

func (s *shell) printTabs() {
	renderTabs(s.out, s.ws.Tabs.Tabs(), s.ws.Tabs.ActiveID())
}

func (s *shell) printActive() {
	tab, ok := s.ws.Tabs.ActiveTab()
	if !ok {
		if textOutput() {
			fmt.Fprintln(s.out, dimStyle.Render("no active tab"))
		} else {
			fmt.Fprintln(s.out, "null")
		}
		return
	}
	if textOutput() {
		idx := 0
		for i, t := range s.ws.Tabs.Tabs() {
			if t.ID == tab.ID {
				idx = i + 1
			}
		}
		fmt.Fprintln(s.out, tabLine(idx, tab, true))
		return
	}
	printJSON(s.out, tab)
}

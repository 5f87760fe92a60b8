package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/paperdesk/internal/library"
)

func init() {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage the document library",
	}

	scan := &cobra.Command{
		Use:   "scan <dir>",
		Short: "List documents in a directory",
		Args:  cobra.ExactArgs(1),
		Run:   runLibraryScan,
	}
	scan.Flags().BoolP("recursive", "r", false, "Descend into subdirectories")
	scan.Flags().Int("max-depth", 0, "Maximum depth when recursive (0 = unlimited)")
	scan.Flags().Bool("import", false, "Add every found document to the library")

	add := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add documents to the library",
		Args:  cobra.MinimumNArgs(1),
		Run:   runLibraryAdd,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List library documents",
		Args:  cobra.NoArgs,
		Run:   runLibraryList,
	}

	rm := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a document from the library (the file is kept)",
		Args:  cobra.ExactArgs(1),
		Run:   runLibraryRm,
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Drop library entries whose files are gone",
		Args:  cobra.NoArgs,
		Run:   runLibraryPrune,
	}

	verify := &cobra.Command{
		Use:   "verify [path]...",
		Short: "Check whether files exist (default: every library document)",
		Run:   runLibraryVerify,
	}

	rename := &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a document on disk, keeping its extension",
		Args:  cobra.ExactArgs(2),
		Run:   runLibraryRename,
	}

	watch := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Report new documents in folders until interrupted",
		Args:  cobra.MinimumNArgs(1),
		Run:   runLibraryWatch,
	}
	watch.Flags().BoolP("recursive", "r", false, "Watch subdirectories too")
	watch.Flags().Bool("import", false, "Add new documents to the library")

	cmd.AddCommand(scan, add, list, rm, prune, verify, rename, watch)
	RootCmd.AddCommand(cmd)
}

func openCatalog(ctx context.Context) (*env, *library.Catalog) {
	e := openEnv(ctx)
	return e, library.NewCatalog(ctx, e.store, e.log)
}

func runLibraryScan(cmd *cobra.Command, args []string) {
	recursive, _ := cmd.Flags().GetBool("recursive")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	doImport, _ := cmd.Flags().GetBool("import")

	cfg := loadConfig()
	res, err := library.Scan(args[0], library.ScanOptions{
		Recursive: recursive,
		MaxDepth:  maxDepth,
		Pattern:   cfg.Library.Pattern,
	})
	if err != nil {
		exitErr("scan", err)
	}

	if doImport {
		e, c := openCatalog(cmd.Context())
		defer e.Close()
		if _, err := c.AddScan(cmd.Context(), res); err != nil {
			exitErr("import scan", err)
		}
		e.log.Info("imported scan", "dir", args[0], "files", res.TotalCount, "errors", res.ErrorCount)
	}

	printJSON(cmd.OutOrStdout(), res)
}

func runLibraryAdd(cmd *cobra.Command, args []string) {
	e, c := openCatalog(cmd.Context())
	defer e.Close()

	docs, err := c.Add(cmd.Context(), args...)
	if err != nil {
		exitErr("library add", err)
	}
	printJSON(cmd.OutOrStdout(), docs)
}

func runLibraryList(cmd *cobra.Command, args []string) {
	e, c := openCatalog(cmd.Context())
	defer e.Close()

	docs := c.List()
	if !textOutput() {
		printJSON(cmd.OutOrStdout(), docs)
		return
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("library is empty"))
		return
	}
	for _, d := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", tabStyle.Render(d.Name), dimStyle.Render(d.Path))
	}
}

func runLibraryRm(cmd *cobra.Command, args []string) {
	e, c := openCatalog(cmd.Context())
	defer e.Close()

	removed, err := c.Remove(cmd.Context(), args[0])
	if err != nil {
		exitErr("library rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q,"removed":%t}`+"\n", args[0], removed)
}

func runLibraryPrune(cmd *cobra.Command, args []string) {
	e, c := openCatalog(cmd.Context())
	defer e.Close()

	pruned, err := c.Prune(cmd.Context())
	if err != nil {
		exitErr("library prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"pruned":%d}`+"\n", len(pruned))
}

func runLibraryVerify(cmd *cobra.Command, args []string) {
	paths := args
	if len(paths) == 0 {
		e, c := openCatalog(cmd.Context())
		for _, d := range c.List() {
			paths = append(paths, d.Path)
		}
		e.Close()
	}
	printJSON(cmd.OutOrStdout(), library.VerifyExist(paths))
}

func runLibraryRename(cmd *cobra.Command, args []string) {
	e, c := openCatalog(cmd.Context())
	defer e.Close()

	newPath, err := c.Rename(cmd.Context(), args[0], args[1])
	if err != nil {
		exitErr("rename", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", newPath)
}

func runLibraryWatch(cmd *cobra.Command, args []string) {
	recursive, _ := cmd.Flags().GetBool("recursive")
	doImport, _ := cmd.Flags().GetBool("import")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, c := openCatalog(ctx)
	defer e.Close()

	w := library.NewWatcher(e.cfg.Library.Pattern, e.log)
	for _, dir := range args {
		if _, err := w.Watch(dir, recursive); err != nil {
			w.Close()
			exitErr("watch", err)
		}
	}
	e.log.Info("watching", "folders", len(args), "recursive", recursive)

	go func() {
		<-ctx.Done()
		w.Close()
	}()

	for ev := range w.Events() {
		if doImport {
			if _, err := c.Add(ctx, ev.FilePath); err != nil {
				e.log.Warn("import new document", "path", ev.FilePath, "err", err)
			}
		}
		printJSON(cmd.OutOrStdout(), ev)
	}
}

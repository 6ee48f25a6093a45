package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/picker"
)

var indexLimit int

var indexCmd = &cobra.Command{
	Use:     "index",
	Short:   "Inspect the application index",
	GroupID: groupSetup,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed applications",
	Long: `List the applications found in the descriptor directories, in
index order. Hidden and NoDisplay entries are not indexed.`,
	Args: cobra.NoArgs,
	RunE: runIndexList,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and history statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func init() {
	indexListCmd.Flags().IntVarP(&indexLimit, "limit", "n", 0, "maximum number of entries (0 = all)")
	indexCmd.AddCommand(indexListCmd, indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	entries := a.index.Snapshot().Entries()
	if indexLimit > 0 && len(entries) > indexLimit {
		entries = entries[:indexLimit]
	}
	width := termWidth()
	for _, e := range entries {
		fmt.Println(formatEntry(e, width))
	}
	return nil
}

// formatEntry renders one index entry on a line: file ID, name and the
// command line, truncated to width when known.
func formatEntry(e desktop.Entry, width int) string {
	name := picker.Clean(e.Name)
	if e.LocalizedName != "" && e.LocalizedName != e.Name {
		name += " (" + picker.Clean(e.LocalizedName) + ")"
	}
	exec := picker.CleanCommand(e.Exec)
	head := fmt.Sprintf("%-32s %s", e.FileID, name)
	if width > 0 {
		if room := width - len(head) - 2; room > 10 {
			exec = picker.MiddleTruncate(exec, room)
		}
	}
	return head + "  " + colorDim + exec + colorReset
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	snap := a.index.Snapshot()
	fmt.Printf("%sApplication Index%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("  Entries:     %d\n", snap.Len())
	fmt.Printf("  Generation:  %d\n", snap.Generation())
	fmt.Printf("  Locales:     %s\n", strings.Join(a.index.Locales(), ", "))
	fmt.Printf("  History:     %d/%d\n", a.engine.HistoryLen(), a.cfg.History.MaxEntries)
	fmt.Printf("  Currency:    %s\n", strings.ToUpper(a.engine.DefaultCurrency()))
	fmt.Println()
	fmt.Println("Descriptor directories:")
	for _, dir := range a.index.Dirs() {
		status := colorGreen + "ok" + colorReset
		if _, err := os.Stat(dir); err != nil {
			status = colorDim + "missing" + colorReset
		}
		fmt.Printf("  %s  %s\n", dir, status)
	}
	return nil
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/runger/launcher/internal/engine"
	"github.com/runger/launcher/internal/picker"
	"github.com/runger/launcher/internal/search"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show or edit the launch history",
	GroupID: groupCore,
	Long: `Show or edit the launch history.

The history holds the most recently launched applications and
executables, most recent first. It is shown when the launcher query is
empty and boosts recent items in search results.

Examples:
  launcher history                  # Same as "history list"
  launcher history delete 2         # Remove the third item
  launcher history clear            # Remove everything`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the launch history, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <position>",
	Short: "Remove one history item by its position in the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history item",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	res := a.engine.Query(ctx, engine.Session{}, "")
	if len(res.Items) == 0 {
		fmt.Println("No history yet.")
		return nil
	}
	for i := range res.Items {
		it := &res.Items[i]
		ref := it.Path
		if it.Kind == search.KindDesktop {
			if entry := a.index.Snapshot().Entry(it.ID); entry != nil {
				ref = entry.FileID
			}
		}
		fmt.Printf("%s%3d%s  %-7s %s  %s%s%s\n",
			colorDim, i, colorReset,
			it.Kind, picker.Clean(it.Title()),
			colorDim, ref, colorReset)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	res := a.engine.Query(ctx, engine.Session{}, "")
	if err := a.engine.Delete(res, pos); err != nil {
		return err
	}
	fmt.Printf("%sRemoved%s %s\n", colorGreen, colorReset, res.Items[pos].Title())
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	n := a.engine.HistoryLen()
	a.engine.ClearHistory()
	fmt.Printf("%sCleared%s %d history items\n", colorGreen, colorReset, n)
	return nil
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/launcher/internal/engine"
	"github.com/runger/launcher/internal/picker"
	"github.com/runger/launcher/internal/search"
)

var (
	searchJSON  bool
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search applications and executables",
	GroupID: groupCore,
	Long: `Search installed applications and executables on $PATH.

Applications match on their name, localized name and generic name;
executables match on their file name. Results are ranked by match
quality, with recently launched items first among equals.

Examples:
  launcher search fire              # Applications and programs matching "fire"
  launcher search --json term       # Output as JSON
  launcher search -n 5 '$ ht'       # A leading $ is ignored`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")

	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Kind      string  `json:"kind"`
	Name      string  `json:"name"`
	Detail    string  `json:"detail,omitempty"`
	Path      string  `json:"path,omitempty"`
	Score     float64 `json:"score"`
	InHistory bool    `json:"in_history,omitempty"`
}

type searchResponse struct {
	Results    []searchOutput `json:"results"`
	Total      int            `json:"total"`
	Truncated  bool           `json:"truncated"`
	Incomplete bool           `json:"incomplete,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	query := args[0]
	if engine.SearchText(query) == "" {
		return errors.New("query is empty")
	}

	res := a.engine.Query(ctx, engine.Session{}, query)
	out := searchResponse{Total: len(res.Items), Incomplete: res.Err != nil}
	items := res.Items
	if searchLimit > 0 && len(items) > searchLimit {
		items = items[:searchLimit]
		out.Truncated = true
	}
	for i := range items {
		it := &items[i]
		o := searchOutput{
			Kind:      it.Kind.String(),
			Name:      it.Title(),
			Detail:    it.Detail(),
			Score:     it.Score,
			InHistory: it.InHistory,
		}
		if it.Kind == search.KindPath {
			o.Path = it.Path
			o.Detail = ""
		} else if entry := a.index.Snapshot().Entry(it.ID); entry != nil {
			o.Path = entry.Path
		}
		out.Results = append(out.Results, o)
	}

	if searchJSON {
		if out.Results == nil {
			out.Results = []searchOutput{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	width := termWidth()
	for _, o := range out.Results {
		marker := " "
		if o.InHistory {
			marker = colorYellow + "*" + colorReset
		}
		line := fmt.Sprintf("%s %s%-7s%s %s", marker, colorDim, o.Kind, colorReset, picker.Clean(o.Name))
		if o.Detail != "" {
			line += "  " + colorDim + picker.Clean(o.Detail) + colorReset
		}
		if o.Path != "" {
			path := o.Path
			if width > 0 {
				path = picker.MiddleTruncate(path, max(width/2, 20))
			}
			line += "  " + colorCyan + path + colorReset
		}
		fmt.Println(line)
	}
	if out.Truncated {
		fmt.Printf("%s(%d more)%s\n", colorDim, out.Total-len(out.Results), colorReset)
	}
	if out.Incomplete {
		fmt.Fprintf(os.Stderr, "%sWarning:%s %v\n", colorYellow, colorReset, res.Err)
	}
	return nil
}

// joinArgs rebuilds input split by the shell.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

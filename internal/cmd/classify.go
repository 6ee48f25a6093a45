package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/launcher/internal/content"
)

var (
	classifyJSON    bool
	classifyOffline bool
)

var classifyCmd = &cobra.Command{
	Use:     "classify <text>...",
	Short:   "Show what the launcher makes of some input",
	GroupID: groupCore,
	Long: `Classify input the way the launcher does while typing: arithmetic,
unit and currency conversions, paths, URLs and shell commands.

Arguments are joined with spaces.

Examples:
  launcher classify 2+2*3           # 8
  launcher classify 10 km to mi     # 6.213712 mi
  launcher classify 20 usd          # converted to the default currency
  launcher classify ~/Documents     # Open ~/Documents
  launcher classify '$ htop'        # Run htop`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output as JSON")
	classifyCmd.Flags().BoolVar(&classifyOffline, "offline", false, "do not fetch currency rates")

	rootCmd.AddCommand(classifyCmd)
}

type classifyOutput struct {
	Kind   string  `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Value  float64 `json:"value,omitempty"`
	From   string  `json:"from,omitempty"`
	To     string  `json:"to,omitempty"`
	Action string  `json:"action,omitempty"`
	Target string  `json:"target,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if !classifyOffline {
		a.loadRatesWithin(ctx)
	}

	ready := a.engine.Classify(joinArgs(args))
	out := describeReady(ready)

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	switch ready.Kind {
	case content.ReadyNone:
		fmt.Printf("%s(nothing)%s\n", colorDim, colorReset)
	case content.ReadyError:
		fmt.Printf("%s%s%s\n", colorRed, out.Text, colorReset)
	default:
		fmt.Println(out.Text)
		if out.Action != "" {
			fmt.Printf("%s%s: %s%s\n", colorDim, out.Action, out.Target, colorReset)
		}
	}
	return nil
}

func describeReady(r content.Ready) classifyOutput {
	out := classifyOutput{Text: r.Text()}
	switch r.Kind {
	case content.ReadyNone:
		out.Kind = "none"
	case content.ReadyError:
		out.Kind = "error"
	case content.ReadyExpression:
		out.Kind = "expression"
		out.Value = r.Value
	case content.ReadyConversion:
		out.Kind = "conversion"
		out.Value = r.Value
		out.From = r.FromText
		out.To = r.ToText
	case content.ReadyAction:
		out.Kind = "action"
	}
	if action, target := r.Commit(); action != content.ActionNone {
		out.Action = action.String()
		out.Target = target
	}
	return out
}

// loadRatesWithin loads currency rates, giving up after the configured
// timeout. Failures are logged.
func (a *app) loadRatesWithin(ctx context.Context) {
	timeout := time.Duration(a.cfg.Content.RatesTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := a.loadRates(ctx); err != nil {
		a.logger.Warn("currency rates unavailable", "error", err)
	}
}

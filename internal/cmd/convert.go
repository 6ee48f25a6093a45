package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/launcher/internal/content"
)

var convertOffline bool

var convertCmd = &cobra.Command{
	Use:     "convert <value> <unit> [to] [unit]",
	Short:   "Convert a quantity and print the number",
	GroupID: groupCore,
	Long: `Convert a value between units or currencies and print only the
converted number, for use in scripts. Without a target unit the default
conversion is used (e.g. km to mi, currencies to the default currency).

Examples:
  launcher convert 10 km mi         # 6.213712
  launcher convert 10 km to mi      # same
  launcher convert 72 F             # 22.222222 (°C)
  launcher convert 20 usd eur`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertOffline, "offline", false, "do not fetch currency rates")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if _, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64); err != nil {
		return fmt.Errorf("not a number: %s", args[0])
	}
	text := args[0] + " " + args[1]
	switch len(args) {
	case 3:
		text += " to " + args[2]
	case 4:
		text += " " + args[2] + " " + args[3]
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if !convertOffline {
		a.loadRatesWithin(ctx)
	}

	ready := a.engine.Classify(text)
	switch ready.Kind {
	case content.ReadyConversion:
		fmt.Println(strconv.FormatFloat(ready.Value, 'f', 6, 64))
		return nil
	case content.ReadyError:
		return errors.New(ready.Message)
	default:
		return fmt.Errorf("not a conversion: %s", text)
	}
}

package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/earlysvahn/unitsense/internal/convert"
	"github.com/earlysvahn/unitsense/internal/widget"
)

func newConvertCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a value between two units",
		Example: `  unitsense convert 5 kilometer mile
  unitsense convert 100 Celsius Fahrenheit`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := convertArgs(args, category)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "unit category (inferred from FROM when empty)")
	return cmd
}

// convertArgs runs a conversion given as VALUE FROM TO. An empty category is
// inferred from the source unit.
func convertArgs(args []string, category string) (widget.ConversionResult, error) {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return widget.ConversionResult{}, fmt.Errorf("value %q is not a number", args[0])
	}

	var cat convert.Category
	if category == "" {
		var ok bool
		if cat, ok = convert.CategoryOf(args[1]); !ok {
			return widget.ConversionResult{}, fmt.Errorf("%w: %s", convert.ErrUnknownUnit, args[1])
		}
	} else if cat, err = convert.ParseCategory(category); err != nil {
		return widget.ConversionResult{}, err
	}

	return (&widget.Actions{}).Convert(convert.Request{Value: value, From: args[1], To: args[2], Category: cat})
}

func newUnitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "units [CATEGORY]",
		Short: "List categories and their units",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := convert.Categories()
			if len(args) == 1 {
				cat, err := convert.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cats = []convert.Category{cat}
			}
			printUnits(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func printUnits(w io.Writer, cats []convert.Category) {
	for _, c := range cats {
		fmt.Fprintf(w, "%s: %s\n", c, strings.Join(convert.Units(c), ", "))
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tagcalc/internal/eval"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [flags] query",
	Short: "List tag suggestions for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type suggestionOutput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Kind        string  `json:"kind"`
	Description string  `json:"description,omitempty"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	a := appFrom(cmd)
	stack, err := a.sources()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	res := stack.Tracker(a.cfg).Lookup(cmd.Context(), query)
	if res.Err != nil {
		return res.Err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		items := make([]suggestionOutput, 0, len(res.Suggestions))
		for _, s := range res.Suggestions {
			items = append(items, suggestionOutput{
				ID:          s.Tag.ID,
				Name:        s.Tag.Name,
				Value:       s.Tag.Value,
				Kind:        s.Tag.Kind.String(),
				Description: s.Description,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "pretty":
		if len(res.Suggestions) == 0 {
			if !quiet(cmd) {
				fmt.Fprintf(out, "no suggestions for %q\n", query)
			}
			return nil
		}
		for _, s := range res.Suggestions {
			fmt.Fprintf(out, "%-24s %-9s %s", s.Tag.Name, s.Tag.Kind, eval.FormatResult(s.Tag.Value))
			if s.Description != "" {
				fmt.Fprintf(out, "  %s", s.Description)
			}
			fmt.Fprintln(out)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

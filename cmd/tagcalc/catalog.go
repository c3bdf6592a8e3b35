package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tagcalc/internal/complete"
	"tagcalc/internal/eval"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the SQLite tag catalog",
	Long: `Catalog manages the tag database named by [catalog].path in tagcalc.toml
or by --db`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [flags] file.toml",
	Short: "Import [[tag]] entries from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List catalog entries",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove [flags] name...",
	Short: "Remove catalog entries by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogRemove,
}

func init() {
	catalogCmd.PersistentFlags().String("db", "", "catalog database (overrides [catalog].path)")
	catalogListCmd.Flags().String("format", "pretty", "output format (pretty|json)")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
}

func openCatalog(cmd *cobra.Command) (*complete.SQLiteCatalog, error) {
	path, err := cmd.Flags().GetString("db")
	if err != nil {
		return nil, fmt.Errorf("failed to get db flag: %w", err)
	}
	if path == "" {
		path = appFrom(cmd).cfg.Catalog.Path
	}
	if path == "" {
		return nil, errors.New("no catalog configured: set [catalog].path in tagcalc.toml or pass --db")
	}
	return complete.OpenSQLiteCatalog(path)
}

type importFile struct {
	Tags []complete.Candidate `toml:"tag"`
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	var data importFile
	meta, err := toml.DecodeFile(args[0], &data)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", args[0], err)
	}
	if !meta.IsDefined("tag") {
		return fmt.Errorf("%s: missing [[tag]] entries", args[0])
	}

	db, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	for i, c := range data.Tags {
		if err := db.Put(cmd.Context(), c); err != nil {
			return fmt.Errorf("%s: [[tag]] #%d: %w", args[0], i+1, err)
		}
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d tags\n", len(data.Tags))
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	db, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.All(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if entries == nil {
			entries = []complete.Candidate{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "pretty":
		for _, e := range entries {
			value := "-"
			if e.Value != nil {
				value = eval.FormatResult(*e.Value)
			}
			kind := e.Kind
			if kind == "" {
				kind = "variable"
			}
			fmt.Fprintf(out, "%-24s %-9s %s\n", e.Name, kind, value)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	db, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	for _, name := range args {
		if err := db.Delete(cmd.Context(), name); err != nil {
			return err
		}
	}
	return nil
}


package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/domain/services/theme"
)

func init() {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect and manage the theme registry (built-in and custom themes)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every registered theme",
		RunE:  runThemeList,
	}

	showCmd := &cobra.Command{
		Use:   "show <theme-id>",
		Short: "Print a theme's canonical JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runThemeShow,
	}

	importCmd := &cobra.Command{
		Use:   "import <theme-json-file>",
		Short: "Register a custom theme from a canonical JSON file and persist it",
		Args:  cobra.ExactArgs(1),
		RunE:  runThemeImport,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <theme-id>",
		Short: "Remove a custom theme (built-in themes cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE:  runThemeDelete,
	}

	themeCmd.AddCommand(listCmd, showCmd, importCmd, deleteCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	deps, _, err := buildOrchestratorDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	active := deps.Themes.GetActive()
	for _, th := range deps.Themes.List() {
		marker := " "
		if th.ID == active.ID {
			marker = "*"
		}
		kind := "custom"
		if th.Builtin {
			kind = "builtin"
		}
		fmt.Printf("%s %-24s %-8s %s\n", marker, th.ID, kind, th.Name)
	}
	return nil
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	deps, _, err := buildOrchestratorDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	data, err := deps.Themes.Export(args[0])
	if err != nil {
		return fmt.Errorf("exporting theme %q: %w", args[0], err)
	}
	fmt.Println(data)
	return nil
}

func runThemeImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	deps, store, err := buildOrchestratorDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	registered, err := deps.Themes.Import(string(data))
	if err != nil {
		return fmt.Errorf("registering theme: %w", err)
	}
	if err := store.Save(cmd.Context(), registered); err != nil {
		return fmt.Errorf("persisting theme %q: %w", registered.ID, err)
	}
	fmt.Printf("registered theme %q (%s)\n", registered.ID, registered.Name)
	return nil
}

func runThemeDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	deps, store, err := buildOrchestratorDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if err := deps.Themes.Delete(args[0]); err != nil {
		return fmt.Errorf("deleting theme %q: %w", args[0], err)
	}
	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing persisted theme %q: %w", args[0], err)
	}
	fmt.Printf("deleted theme %q\n", args[0])
	return nil
}

// themeBuiltinNames is used by the health subcommand to report what's available without
// needing a full Dependencies wire-up.
func themeBuiltinNames() []string {
	names := make([]string, 0, len(theme.Builtins()))
	for _, t := range theme.Builtins() {
		names = append(names, t.ID)
	}
	return names
}

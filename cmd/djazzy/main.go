package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"djazzy"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "djazzy <project-root>",
	Short:         "Scan a Django project for named URL routes",
	Long:          "Djazzy walks a Django project, parses urls.py files with tree-sitter, and writes the route names it finds to an incremental cache at <project-root>/.djazzy_cache.json.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runScan,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root, err := resolveProjectRoot(args[0])
	if err != nil {
		return err
	}

	res, err := djazzy.NewScanner(root).Scan(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Scanned %d urls.py file(s), %d route name(s) in %s (%d reused)\n",
		res.Files, res.Routes, time.Since(start).Round(time.Millisecond), res.Reused)
	fmt.Fprintf(os.Stderr, "Cache: %s\n", res.CachePath)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the djazzy version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(djazzy.Version)
	},
}

// resolveProjectRoot returns the absolute path of the project root argument.
func resolveProjectRoot(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

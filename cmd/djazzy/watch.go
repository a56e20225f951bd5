package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"djazzy"
	"djazzy/internal/watch"

	"github.com/spf13/cobra"
)

var flagDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch <project-root>",
	Short: "Rescan whenever a urls.py file changes",
	Long:  "Runs an initial scan, then watches the project for urls.py changes and rescans after each burst. Unchanged files are reused from the cache, so rescans stay cheap.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagDebounce, "debounce", 500, "coalescing window for change events in milliseconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveProjectRoot(args[0])
	if err != nil {
		return err
	}
	scanner := djazzy.NewScanner(root)

	rescan := func() {
		res, err := scanner.Scan(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "Rescanned: %d file(s), %d route name(s) (%d reused)\n",
			res.Files, res.Routes, res.Reused)
	}

	// Initial scan so the cache exists before the first change.
	res, err := scanner.Scan(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s (%d urls.py file(s), %d route name(s))\n",
		root, res.Files, res.Routes)

	w, err := watch.New(watch.Config{
		Root:     root,
		Debounce: time.Duration(flagDebounce) * time.Millisecond,
		OnChange: func(paths []string) {
			for _, p := range paths {
				fmt.Fprintf(os.Stderr, "Changed: %s\n", p)
			}
			rescan()
		},
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "Watch error: %s\n", err)
		},
	})
	if err != nil {
		return err
	}
	defer w.Close()

	stop := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		close(stop)
	}()

	if err := w.Run(stop); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch ID_OR_NAME",
	Short: "Watch a local-directory Store and reindex incrementally on change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s, err := c.GetStore(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		onReindex := func() {
			fmt.Printf("reindexed %s\n", s.Name)
		}
		onError := func(err error) {
			fmt.Fprintf(os.Stderr, "watch error on %s: %v\n", s.Name, err)
		}

		if err := c.Watch(ctx, s.ID, watchDebounce, onReindex, onError); err != nil {
			return err
		}

		fmt.Printf("watching %s (%s), press ctrl-c to stop\n", s.Name, s.Path)
		<-ctx.Done()
		return c.Unwatch(s.ID)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before reindexing")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/mvp-joe/project-cortex/internal/search"
)

var (
	searchStores []string
	searchMode   string
	searchLimit  int
	searchDetail string
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Run a hybrid search across one or more Stores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		storeIDs := make([]coreid.StoreID, 0, len(searchStores))
		for _, idOrName := range searchStores {
			s, err := c.GetStore(idOrName)
			if err != nil {
				return err
			}
			storeIDs = append(storeIDs, s.ID)
		}
		if len(storeIDs) == 0 {
			return fmt.Errorf("cortexctl: search requires at least one --store")
		}

		envelope, err := c.Search(context.Background(), search.Request{
			Query:    args[0],
			StoreIDs: storeIDs,
			Mode:     search.Mode(searchMode),
			Limit:    searchLimit,
			Detail:   search.DetailLevel(searchDetail),
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(envelope)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringSliceVar(&searchStores, "store", nil, "store id or name to search, may be repeated")
	searchCmd.Flags().StringVar(&searchMode, "mode", string(search.ModeHybrid), "vector | fts | hybrid")
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "maximum results")
	searchCmd.Flags().StringVar(&searchDetail, "detail", string(search.DetailMinimal), "minimal | contextual | full")
}

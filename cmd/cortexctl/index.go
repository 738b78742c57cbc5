package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-cortex/internal/registry"
)

var crawlMaxPages int

// indexCmd populates a Store's document store, dispatching to the job
// kind its registry.Kind calls for (spec §4.6's three job kinds are
// distinct operations, but this one command is the single "make this
// Store searchable" entry point SPEC_FULL.md §4.13 names).
var indexCmd = &cobra.Command{
	Use:   "index ID_OR_NAME",
	Short: "Populate (or repopulate) a Store's index",
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

		switch s.Kind {
		case registry.KindClonedRepo:
			j, err := c.StartCloneJob(s.ID, s.URL, s.Branch)
			if err != nil {
				return err
			}
			fmt.Printf("started clone job %s\n", j.ID)
		case registry.KindWebCollection:
			j, err := c.StartCrawlJob(s.ID, s.URL, crawlMaxPages)
			if err != nil {
				return err
			}
			fmt.Printf("started crawl job %s\n", j.ID)
		default:
			j, err := c.StartIndexJob(s.ID)
			if err != nil {
				return err
			}
			fmt.Printf("started index job %s\n", j.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&crawlMaxPages, "max-pages", 100, "crawl page budget (web-collection Stores)")
}

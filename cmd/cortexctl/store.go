package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-cortex/internal/registry"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage registered Stores",
}

var (
	storeKind   string
	storePath   string
	storeURL    string
	storeBranch string
	storeDesc   string
	storeTags   []string
)

var storeCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Register a new Store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		s, err := c.CreateStore(registry.Spec{
			Name:        args[0],
			Kind:        registry.Kind(storeKind),
			Path:        storePath,
			URL:         storeURL,
			Branch:      storeBranch,
			Description: storeDesc,
			Tags:        storeTags,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created store %s (%s)\n", s.ID, s.Name)
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered Stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContext(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		stores, err := c.ListStores(registry.Filter{})
		if err != nil {
			return err
		}
		for _, s := range stores {
			fmt.Printf("%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Kind, s.Status)
		}
		return nil
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete ID_OR_NAME",
	Short: "Delete a Store and all of its indexed data",
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
		if err := c.DeleteStore(s.ID); err != nil {
			return err
		}
		fmt.Printf("deleted store %s\n", s.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeCreateCmd, storeListCmd, storeDeleteCmd)

	storeCreateCmd.Flags().StringVar(&storeKind, "kind", string(registry.KindLocalDirectory), "local-directory | cloned-repo | web-collection")
	storeCreateCmd.Flags().StringVar(&storePath, "path", "", "source directory (local-directory, cloned-repo)")
	storeCreateCmd.Flags().StringVar(&storeURL, "url", "", "source url (cloned-repo, web-collection)")
	storeCreateCmd.Flags().StringVar(&storeBranch, "branch", "", "branch to check out (cloned-repo)")
	storeCreateCmd.Flags().StringVar(&storeDesc, "description", "", "human-readable description")
	storeCreateCmd.Flags().StringSliceVar(&storeTags, "tag", nil, "tag, may be repeated")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/project-cortex/internal/core"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cortexctl",
	Short: "Operate a cortex knowledge-indexing engine",
	Long: `cortexctl manages Stores (local directories, cloned repos, and
crawled web collections), their index/clone/crawl jobs, and hybrid
search over them.`,
}

func init() {
	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			_ = viper.ReadInConfig()
		}
	})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults per internal/core.DefaultOptions)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// openContext loads Options from --config (if given) and opens a
// internal/core.Context against it. Callers are responsible for closing
// it.
func openContext(cmd *cobra.Command) (*core.Context, error) {
	opts, err := core.LoadOptions(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("cortexctl: %w", err)
	}
	return core.Open(opts)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

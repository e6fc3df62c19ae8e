package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixflow-agent/packages/config"
	"fixflow-agent/packages/locate"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the symbol index cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		if indexRebuild {
			cfg.Locator.RebuildIndex = true
		}

		index, err := locate.LoadOrBuildIndex(cfg.Locator)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d symbol(s) indexed at %s\n",
			len(index), cfg.Locator.SymbolIndexPath)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "force a full rebuild even if a cache exists")
}

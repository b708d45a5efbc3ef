package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/vole/cmd/collect"
	"github.com/stratastor/vole/cmd/config"
	"github.com/stratastor/vole/cmd/push"
	"github.com/stratastor/vole/cmd/version"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vole",
		Short: "Vole: StrataSTOR ZFS statistics collector",
	}

	rootCmd.AddCommand(collect.NewCollectCmd())
	rootCmd.AddCommand(push.NewPushCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(config.NewConfigCmd())

	return rootCmd
}

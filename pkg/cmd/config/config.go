package configcmd

import (
	"cosbackup/internal/cmdutil"
	initcmd "cosbackup/pkg/cmd/config/init"
	"github.com/spf13/cobra"
)

func NewConfigCmd(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config <command>",
		Aliases: []string{"c"},
		Short:   "Manage cosbackup configuration",
	}

	cmd.AddCommand(initcmd.NewConfigInitCmd(f))
	return cmd
}

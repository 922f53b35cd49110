package list

import (
	"cosbackup/internal/cmdutil"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func NewListCmd(f *cmdutil.Factory) *cobra.Command {
	prefix := ""

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored backups",
		Long:    "List the backups stored under the configured prefix, newest first. Directory markers are skipped.",
		Example: "cosbackup list --prefix backups/db",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := f.BackupService()
			if err != nil {
				return err
			}

			cmdutil.StartLoading("Listing backups...")
			backups, err := svc.List(cmd.Context(), prefix)
			cmdutil.StopLoading()
			if err != nil {
				return err
			}

			writer := table.NewWriter()
			writer.AppendHeader(table.Row{"Key", "Size", "Last Modified", "ETag"})
			for _, next := range backups {
				writer.AppendRow(table.Row{
					next.Key,
					humanize.Bytes(uint64(next.Size)),
					next.LastModified.Local().Format("2006-01-02 15:04:05"),
					next.ETag,
				})
			}
			writer.AppendFooter(table.Row{fmt.Sprintf("%d backups", len(backups))})

			cmdutil.Print(writer.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Override the configured key prefix")
	return cmd
}

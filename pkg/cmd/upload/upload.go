package upload

import (
	"cosbackup/internal/cmdutil"
	"cosbackup/internal/service"
	"fmt"
	"github.com/spf13/cobra"
)

func NewUploadCmd(f *cmdutil.Factory) *cobra.Command {
	var prefix string
	var retention int

	cmd := &cobra.Command{
		Use:     "upload <path>",
		Short:   "Upload a file",
		Long:    "Upload a local file to the bucket under <prefix><file name>. When a retention limit is set, the oldest objects under the prefix are deleted until only that many remain.",
		Example: "cosbackup upload ./db-2024-06-01.sql.gz --prefix backups/db --retention 7",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := f.BackupService()
			if err != nil {
				return err
			}

			params := service.UploadParams{Path: args[0]}
			if cmd.Flags().Changed("prefix") {
				params.Prefix = &prefix
			}
			if cmd.Flags().Changed("retention") {
				params.Retention = &retention
			}

			result, err := svc.Upload(cmd.Context(), params)
			if err != nil {
				return err
			}

			cmdutil.PrintS(fmt.Sprintf("uploaded %s/%s (etag %s)", result.Bucket, result.Key, result.ETag))
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Override the configured key prefix")
	cmd.Flags().IntVarP(&retention, "retention", "r", 0, "Number of backups to keep, 0 keeps all (overrides config/env)")
	return cmd
}

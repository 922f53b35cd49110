package schedule

import (
	"context"
	"cosbackup/internal/cmdutil"
	"cosbackup/internal/scheduler"
	"cosbackup/internal/service"
	"fmt"
	"github.com/spf13/cobra"
	"time"
)

func NewScheduleCmd(f *cmdutil.Factory) *cobra.Command {
	var cronExpression, prefix string
	var retention int

	cmd := &cobra.Command{
		Use:     "schedule <path>",
		Short:   "Upload a file on a cron schedule",
		Long:    "Keep running and upload <path> every time the cron expression fires, applying the retention policy after each upload. Stop with Ctrl+C.",
		Example: "cosbackup schedule /var/backups/db.sql.gz --cron \"0 3 * * *\" --retention 7",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := scheduler.Validate(cronExpression, time.Now())
			if err != nil {
				return err
			}

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

			cmdutil.PrintS(fmt.Sprintf("first upload at %s", next.Format(time.RFC1123)))
			return scheduler.Run(cmd.Context(), scheduler.Job{
				Name:     "upload " + params.Path,
				Interval: cronExpression,
				Task: func(ctx context.Context) error {
					_, err := svc.Upload(ctx, params)
					return err
				},
			})
		},
	}

	cmd.Flags().StringVar(&cronExpression, "cron", "", "Cron expression, e.g \"0 3 * * *\" for every day at 03:00")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Override the configured key prefix")
	cmd.Flags().IntVarP(&retention, "retention", "r", 0, "Number of backups to keep, 0 keeps all (overrides config/env)")
	_ = cmd.MarkFlagRequired("cron")
	return cmd
}

package cmd

import (
	"cosbackup/internal/cmdutil"
	"cosbackup/internal/config"
	"cosbackup/logger"
	configcmd "cosbackup/pkg/cmd/config"
	"cosbackup/pkg/cmd/list"
	"cosbackup/pkg/cmd/schedule"
	"cosbackup/pkg/cmd/status"
	"cosbackup/pkg/cmd/upload"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return NewWithFactory(cmdutil.NewFactory())
}

func NewWithFactory(f *cmdutil.Factory) *cobra.Command {
	var logMode string
	cmd := &cobra.Command{
		Use:           "cosbackup",
		Short:         "cosbackup - upload backups to Tencent Cloud Object Storage",
		Long:          "Upload a local file to a COS bucket, keep only the newest N backups under a prefix and check bucket connectivity. Configuration comes from TENCENT_* environment variables, an optional .env file and config.json, in that order of precedence. config.json is looked up next to the executable, then in the working directory; pass --config to use another file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.InitLogger(logMode)
		},
	}

	cmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", config.DefaultPath(), "Path to the JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&f.EnvFile, "env-file", ".env", "Optional dotenv file with TENCENT_* variables")
	cmd.PersistentFlags().StringVar(&logMode, "log-mode", logger.ModeDevelopment, "Log output: development or production")

	cmd.AddCommand(upload.NewUploadCmd(f))
	cmd.AddCommand(status.NewStatusCmd(f))
	cmd.AddCommand(list.NewListCmd(f))
	cmd.AddCommand(schedule.NewScheduleCmd(f))
	cmd.AddCommand(configcmd.NewConfigCmd(f))
	return cmd
}

package status

import (
	"cosbackup/internal/cmdutil"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func NewStatusCmd(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check COS connection status",
		Long:  "Check that the configured bucket is reachable and count the backups stored under the configured prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := f.BackupService()
			if err != nil {
				return err
			}

			st, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}

			cmdutil.PrintS(fmt.Sprintf("Connection successful to bucket '%s' in %s (%s)", st.Bucket, st.Region, st.Endpoint))
			cmdutil.Print(fmt.Sprintf("Files found in prefix '%s': %d (%s)", st.Prefix, st.Objects, humanize.Bytes(uint64(st.TotalSize))))
			if st.Retention > 0 {
				cmdutil.Print(fmt.Sprintf("Retention: keep newest %d", st.Retention))
			} else {
				cmdutil.Print("Retention: unlimited")
			}
			return nil
		},
	}
}

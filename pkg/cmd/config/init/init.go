package initcmd

import (
	"cosbackup/internal/cmdutil"
	"cosbackup/internal/config"
	"cosbackup/internal/storage"
	"fmt"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"strconv"
	"strings"
)

func NewConfigInitCmd(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   "Write a config file",
		Long:    "Prompt for the COS credentials, region, bucket, prefix and retention and write them to the config file (--config). Environment variables still take precedence over the file.",
		Example: "cosbackup config init --config ./config.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			answers := []struct {
				prompt promptui.Prompt
				target *string
			}{
				{createPrompt("SecretId", "", validateRequired), &cfg.SecretID},
				{createMaskedPrompt("SecretKey", validateRequired), &cfg.SecretKey},
				{createPrompt("Region (e.g ap-guangzhou)", "", validateRequired), &cfg.Region},
				{createPrompt("Bucket (e.g backups-1250000000)", "", validateRequired), &cfg.Bucket},
				{createPrompt("Prefix", storage.DefaultPrefix, nil), &cfg.Prefix},
			}
			for _, next := range answers {
				value, err := next.prompt.Run()
				if err != nil {
					return err
				}
				*next.target = strings.TrimSpace(value)
			}

			retentionPrompt := createPrompt("Retention (0 keeps everything)", "0", validateRetention)
			value, err := retentionPrompt.Run()
			if err != nil {
				return err
			}
			cfg.Retention, _ = strconv.Atoi(strings.TrimSpace(value))

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.Save(f.ConfigPath, cfg); err != nil {
				return errors.Wrap(err, "failed to save config")
			}

			cmdutil.PrintS(fmt.Sprintf("Configuration written to %s", f.ConfigPath))
			return nil
		},
	}
}

func createPrompt(label, defaultValue string, validate promptui.ValidateFunc) promptui.Prompt {
	return promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: defaultValue != "",
		Validate:  validate,
	}
}

func createMaskedPrompt(label string, validate promptui.ValidateFunc) promptui.Prompt {
	return promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validate,
	}
}

func validateRequired(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return errors.New("value is required")
	}
	return nil
}

func validateRetention(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("retention must be a whole number")
	}
	if n < 0 {
		return errors.New("retention cannot be negative")
	}
	return nil
}

package commands

import (
	"os"

	"github.com/spf13/cobra"

	"sae/internal/app"
	"sae/internal/log"
)

var (
	configPath string
	logLevel   string
	username   string

	cfg     app.Config
	backend *log.Backend
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sae",
		Short: "Ephemeral peer-to-peer encrypted chat",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Root().PersistentFlags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("username") {
				cfg.Username = username
			}

			backend, err = log.New(os.Stderr, cfg.LogLevel)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (ERROR..DEBUG)")
	root.PersistentFlags().StringVarP(&username, "username", "u", "", "display name sent with messages")

	root.AddCommand(hostCmd(), connectCmd(), fingerprintCmd())
	return root.Execute()
}

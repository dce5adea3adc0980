package root

import (
	"module-keeper/internal/config"
	"module-keeper/internal/env"
	"module-keeper/internal/logger"

	"github.com/spf13/cobra"
)

// ConfigFile is the path given by --config, empty for the default search path
var ConfigFile string

var RootCmd = &cobra.Command{
	Use:   "module-keeper",
	Short: "Backend module manager",
	Long:  `module-keeper lists installed and available backend modules and prepares install/remove requests for the module client`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(ConfigFile); err != nil {
			return err
		}
		cfg := config.Get()
		logger.InitLogger(cfg.Log.Path, cfg.Log.Level, env.Daemon)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "config file (default ./config.yaml or ~/.module-keeper/config.yaml)")
}

// cmd/phonemall/main.go
package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appcfg "phonemall/internal/infra/config"
	"phonemall/internal/infra/logging"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:           "phonemall",
		Short:         "Used-phone storefront and back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(newServeCmd(), newSeedCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("phonemall failed")
		os.Exit(1)
	}
}

// loadConfig reads config and configures logging from it.
func loadConfig() (*appcfg.Config, error) {
	cfg, err := appcfg.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)
	return cfg, nil
}

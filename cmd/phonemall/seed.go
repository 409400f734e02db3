// cmd/phonemall/seed.go
package main

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"phonemall/internal/platform/di"
	"phonemall/internal/platform/seed"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load brands, categories and products from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			catalog, err := seed.Parse(f)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cont, err := di.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = cont.Close(context.Background()) }()

			res, err := seed.Loader{
				Brands:     cont.Console.BrandUC,
				Categories: cont.Console.CategoryUC,
				Products:   cont.Console.ProductUC,
			}.Load(ctx, catalog)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"file": file, "created": res.Created, "updated": res.Updated}).Info("seed complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog YAML file")
	return cmd
}

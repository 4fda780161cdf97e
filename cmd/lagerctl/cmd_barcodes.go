package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"lager_server/camera"
	"lager_server/config"
	"lager_server/database"
	"lager_server/services"
	"lager_server/storage"
	"lager_server/structs"
	"os"
	"path"

	"github.com/MonkyMars/gecho"
	"github.com/spf13/cobra"
)

type barcodeEnv struct {
	cfg      *structs.Config
	disk     storage.Disk
	logger   *gecho.Logger
	barcodes *services.BarcodeService
}

// bootBarcodes reads the environment and opens the configured disk.
func bootBarcodes(ctx context.Context) (*barcodeEnv, error) {
	cfg := config.Load()
	logger := config.NewLogger(cfg, false)

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &barcodeEnv{
		cfg:      cfg,
		disk:     disk,
		logger:   logger,
		barcodes: services.NewBarcodeService(logger, disk, cfg.Storage.BarcodeDir),
	}, nil
}

var barcodesCmd = &cobra.Command{
	Use:   "barcodes",
	Short: "Render and read EAN-13 barcodes",
}

// lagerctl barcodes render <ean>...
var barcodesRenderCmd = &cobra.Command{
	Use:   "render <ean>...",
	Short: "Write the barcode image for each EAN unless it already exists",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootBarcodes(cmd.Context())
		if err != nil {
			return err
		}
		bs := env.barcodes

		var errs []error
		for _, code := range args {
			rel, ok, err := bs.Resolve(cmd.Context(), code)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("%s: %w", code, err))
			case !ok:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: too short, skipped\n", code)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), bs.URL(rel))
			}
		}
		return errors.Join(errs...)
	},
}

// lagerctl barcodes sync
var barcodesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Render missing barcodes for every product in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := bootBarcodes(ctx)
		if err != nil {
			return err
		}
		bs, cfg, logger := env.barcodes, env.cfg, env.logger

		db, err := database.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		cfg.Cache.Enabled = false
		products := services.NewProductService(logger, db, services.NewCacheService(logger, cfg.Cache))

		all, err := products.ListAll(ctx)
		if err != nil {
			return err
		}

		rendered, skipped := 0, 0
		wanted := make(map[string]struct{}, len(all))
		for _, p := range all {
			rel, ok, err := bs.Resolve(ctx, p.EAN)
			switch {
			case err != nil:
				logger.Error("Failed to render barcode", gecho.Field("error", err), gecho.Field("id", p.ID))
			case ok:
				rendered++
				wanted[rel] = struct{}{}
			default:
				skipped++
			}
		}

		// Artifacts left behind by deleted products or edited EANs.
		files, err := env.disk.Files(ctx, cfg.Storage.BarcodeDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, ok := wanted[f]; !ok && path.Ext(f) == ".png" {
				fmt.Fprintf(cmd.OutOrStdout(), "unused: %s\n", f)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d products, %d barcodes present, %d skipped\n", len(all), rendered, skipped)
		return nil
	},
}

// lagerctl barcodes decode <image>
var barcodesDecodeCmd = &cobra.Command{
	Use:   "decode <image>",
	Short: "Read a barcode from a PNG or JPEG file, as the camera scan would",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		code, ok := camera.Decode(img)
		if !ok {
			return errors.New("no barcode found")
		}
		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	},
}

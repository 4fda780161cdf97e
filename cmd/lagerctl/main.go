package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lagerctl",
	Short: "Maintenance commands for the inventory server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	barcodesCmd.AddCommand(barcodesRenderCmd)
	barcodesCmd.AddCommand(barcodesSyncCmd)
	barcodesCmd.AddCommand(barcodesDecodeCmd)
	rootCmd.AddCommand(barcodesCmd)

	tagsCmd.AddCommand(tagsNormalizeCmd)
	rootCmd.AddCommand(tagsCmd)
}

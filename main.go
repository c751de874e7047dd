package main

import (
	"fmt"
	"os"

	"github.com/gonewx/configurator/pkg/app"
	"github.com/gonewx/configurator/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

func main() {
	var cfg app.Config

	cmd := &cobra.Command{
		Use:   "configurator",
		Short: "Interactive 3D product configurator",
		Long: `Shows the product model in an orbiting wireframe view.

Hover the tier buttons (or press 1-6) to switch configurations, click the
main assembly to rotate it, press T for the toolpath overlay, F11 for
fullscreen and F12 for a screenshot.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.ConfigPath, "config", "", "Config file (default: embedded data/configurator.yaml)")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().StringVar(&cfg.Tier, "tier", "", "Tier to apply at startup (1K, 1K+, 2K, 2K+, 3K, 3K+)")
	cmd.Flags().StringVar(&cfg.RemoteAddr, "remote", "", "Listen address for the WebSocket bridge, e.g. 127.0.0.1:8765")
	cmd.Flags().StringVar(&cfg.SnapshotDir, "snapshot-dir", "screenshots", "Directory for F12 screenshots (empty disables)")
	cmd.Flags().IntVar(&cfg.SnapshotMaxWidth, "snapshot-width", 0, "Downscale screenshots wider than this (0 keeps full size)")
	cmd.Flags().BoolVar(&cfg.NoSession, "no-session", false, "Do not restore or save the last session")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	embedded.Init(dataFS)

	a, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(a.WindowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

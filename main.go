package main

import (
	"fmt"
	"log"
	"os"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/glitch-lab/cmd"
	"github.com/rm-hull/glitch-lab/internal"
	"github.com/rm-hull/glitch-lab/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func initLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
	return logger
}

func main() {
	var debug bool
	var port int
	var poolSize int
	var frames int
	var delay float64
	var presetFile string
	var ro cmd.RenderOptions

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	var logger *logrus.Logger

	rootCmd := &cobra.Command{
		Use:   "glitch-lab",
		Long:  `Glitch effects pipeline with live preview`,
		Short: "Glitch effects pipeline",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger = initLogger(debug)
			internal.ShowVersion(logger)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfg.PresetDB, "db", cfg.PresetDB, "Path to preset database")

	addRenderFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&ro.Params.File, "params", "", "JSON file with effect parameters")
		c.Flags().StringVar(&ro.Params.Preset, "preset", "", "Name of a saved preset to apply")
		c.Flags().StringVar(&ro.Device, "device", cfg.Device.String(), "Device class: standard or compact")
		c.Flags().IntVar(&ro.DisplayWidth, "width", 0, "Output surface width (0 = working size)")
		c.Flags().IntVar(&ro.DisplayHeight, "height", 0, "Output surface height (0 = working size)")
		c.Flags().Int64Var(&ro.Seed, "seed", -1, "Random seed for stochastic effects (-1 = random)")
	}

	renderCmd := &cobra.Command{
		Use:   "render <input> <output.png>",
		Short: "Apply the effect pipeline to one image",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ro.Params.PresetDB = cfg.PresetDB
			return cmd.Render(args[0], args[1], ro, logger)
		},
	}
	addRenderFlags(renderCmd)

	animateCmd := &cobra.Command{
		Use:   "animate <input> <output.png>",
		Short: "Render repeated runs of the pipeline into an animated PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ro.Params.PresetDB = cfg.PresetDB
			return cmd.Animate(args[0], args[1], frames, delay, ro, logger)
		},
	}
	addRenderFlags(animateCmd)
	animateCmd.Flags().IntVar(&frames, "frames", 8, "Number of frames")
	animateCmd.Flags().Float64Var(&delay, "delay", 0.1, "Delay between frames in seconds")

	batchCmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Render every image in a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ro.Params.PresetDB = cfg.PresetDB
			return cmd.Batch(args[0], args[1], poolSize, ro, logger)
		},
	}
	addRenderFlags(batchCmd)
	batchCmd.Flags().IntVar(&poolSize, "pool", 4, "Number of concurrent workers")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP preview server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(cfg, port, debug, logger)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Evict sessions idle for longer than this")
	apiServerCmd.Flags().IntVar(&cfg.RefreshHz, "refresh", cfg.RefreshHz, "Preview refresh rate in Hz")

	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved presets",
	}
	presetCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved presets",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return cmd.PresetList(cfg.PresetDB, os.Stdout)
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print a preset as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return cmd.PresetShow(cfg.PresetDB, args[0], os.Stdout)
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return cmd.PresetDelete(cfg.PresetDB, args[0])
			},
		},
	)
	presetSaveCmd := &cobra.Command{
		Use:   "save <name> [--file <params.json>]",
		Short: "Save parameters under a name, replacing any existing preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.PresetSave(cfg.PresetDB, args[0], presetFile)
		},
	}
	presetSaveCmd.Flags().StringVar(&presetFile, "file", "-", "JSON parameter file (- for stdin)")
	presetCmd.AddCommand(presetSaveCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s (revision %s, dirty=%t)\n", versioninfo.Short(), versioninfo.Revision, versioninfo.DirtyBuild)
		},
	}

	rootCmd.AddCommand(renderCmd, animateCmd, batchCmd, apiServerCmd, presetCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keybench/config"
	"keybench/dataset"
	"keybench/detect"
	"keybench/eval"
	"keybench/logging"
	"keybench/transcode"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "keybench: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFlag   string
		manifestFlag string
		audioDirFlag string
		profilesFlag []string
		workersFlag  int
		timeoutFlag  int
		verboseFlag  bool
		debugFlag    bool
	)

	cmd := &cobra.Command{
		Use:           "keybench",
		Short:         "Score a musical key detector against a labeled dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("manifest") {
				cfg.Manifest = manifestFlag
			}
			if cmd.Flags().Changed("audio-dir") {
				cfg.AudioDir = audioDirFlag
			}
			if cmd.Flags().Changed("profiles") {
				cfg.Profiles = profilesFlag
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workersFlag
			}
			if cmd.Flags().Changed("timeout") {
				cfg.TimeoutSeconds = timeoutFlag
			}
			if verboseFlag {
				cfg.Verbose = true
			}
			if debugFlag {
				logging.SetLevel(logging.DebugLevel)
			}
			return run(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	cmd.Flags().StringVarP(&manifestFlag, "manifest", "m", "", "Manifest file mapping identifiers to expected keys")
	cmd.Flags().StringVarP(&audioDirFlag, "audio-dir", "a", "", "Directory holding the audio files")
	cmd.Flags().StringSliceVarP(&profilesFlag, "profiles", "p", nil, "Detector profiles to evaluate, in order")
	cmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Parallel detector workers per profile")
	cmd.Flags().IntVarP(&timeoutFlag, "timeout", "t", 0, "Per-track detector timeout in seconds (0 = none)")
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print exact-match lines too")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, cfg config.Config) error {
	tracks, err := dataset.Load(cfg.Manifest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Key Detection Accuracy ===")
	fmt.Fprintf(out, "Tracks: %d\n", len(tracks))

	runner := &eval.Runner{
		Tracks:   tracks,
		Detector: detect.NewChromaDetector(44100),
		Loader:   transcode.NewDecoder(nil),
		AudioDir: cfg.AudioDir,
		AudioExt: cfg.AudioExt,
		Verbose:  cfg.Verbose,
		Workers:  cfg.Workers,
		Timeout:  cfg.Timeout(),
		Out:      out,
	}

	_, err = runner.Run(cmd.Context(), cfg.Profiles)
	return err
}

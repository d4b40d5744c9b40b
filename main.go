package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"medviz/anatomy"
	"medviz/app"
	"medviz/catalog"
	"medviz/config"
	"medviz/log"
)

var (
	version = "1.0.0"

	configDirFlag string

	rootCmd = &cobra.Command{
		Use:   "medviz",
		Short: "medviz is a launcher for 3D medical visualization scripts",
		Long: `MedViz discovers visualization feature scripts, groups them by
anatomical system and launches them from a two-level menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("medviz must be run in a terminal")
			}

			cfg := config.LoadConfig()
			log.InitializeWithConfig(cfg.LogConfig())
			defer log.Close()

			return app.Run(context.Background(), cfg)
		},
	}

	classifyCmd = &cobra.Command{
		Use:   "classify [dir...]",
		Short: "Print how scripts would be grouped, without starting the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			log.InitializeWithConfig(cfg.LogConfig())
			defer log.Close()

			if len(args) > 0 {
				cfg.ScriptDirs = args
			}

			cat, err := catalog.Build(cfg)
			if err != nil {
				return err
			}

			for _, category := range anatomy.Categories {
				scripts := cat.Mapping[category]
				fmt.Printf("%s (%d)\n", category.Info().Name, len(scripts))
				for _, script := range scripts {
					kind := "unknown"
					if script.KindKnown {
						kind = script.Kind.Code()
					}
					fmt.Printf("  %-40s %s\n", script.Name, kind)
				}
			}
			if cat.Unclassified > 0 {
				fmt.Printf("\n%d script(s) matched no category and were excluded\n", cat.Unclassified)
			}
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of medviz",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("medviz version %s\n", version)
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the stored launch history and UI state",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()

			fmt.Print("This will clear the launch history and saved preferences. Continue? [y/N] ")
			var answer string
			fmt.Scanln(&answer)
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			statePath := filepath.Join(configDir, config.StateFileName)
			if err := os.Remove(statePath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove state file: %w", err)
			}
			fmt.Println("State cleared.")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"override the configuration directory (default ~/.medviz)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if configDirFlag != "" {
			os.Setenv("MEDVIZ_HOME", configDirFlag)
		}
	}

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

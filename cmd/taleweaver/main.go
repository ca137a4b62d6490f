// Taleweaver is an interactive text-adventure engine driven by a local
// Ollama model.
//
// It generates a world codex for a chosen theme, then runs the narrative
// loop: the player types actions, the engine generates scenes, tracks
// progression, and advances transitions automatically.
//
// Usage:
//
//	# Start a story with the default theme
//	taleweaver play
//
//	# Pick a theme and a config file
//	taleweaver play --theme cyberpunk --config ./taleweaver.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "taleweaver",
	Short: "Interactive text-adventure narrative engine",
	Long: `Taleweaver drives an interactive story with a local language model:
codex generation, scene generation, lore retrieval, and vector memory.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taleweaver %s\n", version)
	},
}

func main() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

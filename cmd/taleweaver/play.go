package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taleweaver/internal/config"
	"github.com/fyrsmithlabs/taleweaver/internal/engine"
	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"github.com/fyrsmithlabs/taleweaver/internal/logging"
	"github.com/fyrsmithlabs/taleweaver/internal/lore"
	"github.com/fyrsmithlabs/taleweaver/internal/memory"
)

var (
	playConfigPath string
	playTheme      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive story",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd.Context())
	},
}

func init() {
	playCmd.Flags().StringVar(&playConfigPath, "config", "taleweaver.yaml", "path to the config file")
	playCmd.Flags().StringVar(&playTheme, "theme", "fantasy", "narrative theme")
}

// runPlay wires the pipeline and runs the read-step-print loop. The loop is
// deliberately thin: all narrative logic lives behind the session's
// StartStory and Step entry points.
func runPlay(ctx context.Context) error {
	cfg, err := config.Load(playConfigPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	client, err := llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.ChatModel,
	}, logger.Named("llm"))
	if err != nil {
		return err
	}

	// Lore is an enrichment: a missing dataset disables retrieval but
	// never blocks the story.
	var loreCtx engine.LoreContext
	entries, err := lore.Load(cfg.Lore.DataDir, playTheme, logger.Named("lore"))
	if err != nil {
		logger.Warn("lore dataset unavailable, continuing without retrieval", zap.Error(err))
	} else {
		loreCtx = lore.NewRetriever(entries, logger.Named("lore"))
	}

	embedder, err := memory.NewOllamaEmbedder(memory.EmbedderConfig{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbedModel,
	})
	if err != nil {
		return err
	}

	store, err := memory.NewStore(memory.Config{Collection: cfg.Memory.Collection}, embedder, logger.Named("memory"))
	if err != nil {
		return err
	}

	session := engine.NewSession(client, store, loreCtx, engine.Config{
		ShortMemoryScenes: cfg.Story.ShortMemoryScenes,
		LongMemoryResults: cfg.Story.LongMemoryResults,
		LoreMaxResults:    cfg.Lore.MaxResults,
		MaxAutoDepth:      cfg.Story.MaxAutoDepth,
	}, logger.Named("session"))

	fmt.Printf("Génération du monde (%s)...\n\n", playTheme)
	start := session.StartStory(ctx, playTheme)
	printScene(start.Scene)

	codex, state := start.Codex, start.State
	lastChoices := start.Scene.Choices
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println("À bientôt.")
			return nil
		case "":
			continue
		}

		scene, newState := session.Step(ctx, resolveChoice(input, lastChoices), codex, state)
		state = newState
		lastChoices = scene.Choices
		printScene(scene)
	}

	return scanner.Err()
}

// resolveChoice maps a bare number onto the corresponding choice from the
// previous scene; anything else passes through as free text.
func resolveChoice(input string, choices []string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	return input
}

// printScene renders a scene to the terminal.
func printScene(scene engine.Scene) {
	fmt.Println(scene.SceneText)
	for i, choice := range scene.Choices {
		fmt.Printf("  %d. %s\n", i+1, choice)
	}
}

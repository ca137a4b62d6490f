package engine

import (
	"context"
	"strings"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"github.com/fyrsmithlabs/taleweaver/internal/memory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// engineTracer for OpenTelemetry instrumentation.
var engineTracer = otel.Tracer("taleweaver.engine")

// SceneMemory is the long-term recall store the session writes scenes to.
// *memory.Store satisfies it; a nil memory disables long-term recall.
type SceneMemory interface {
	Add(ctx context.Context, text string, meta memory.Metadata) error
	Search(ctx context.Context, query string, k int) ([]memory.Record, error)
}

// Config tunes the orchestration pipeline.
type Config struct {
	// ShortMemoryScenes is how many recent scenes feed the short memory.
	// Default: 3
	ShortMemoryScenes int

	// LongMemoryResults is how many vector-search hits feed the long
	// memory. Default: 5
	LongMemoryResults int

	// LoreMaxResults bounds the lexical-retrieval context size. Default: 5
	LoreMaxResults int

	// MaxAutoDepth caps consecutive auto-continuation turns. The story
	// pauses after this many automatic advances regardless of the
	// decider's output. Default: 3
	MaxAutoDepth int
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ShortMemoryScenes == 0 {
		c.ShortMemoryScenes = 3
	}
	if c.LongMemoryResults == 0 {
		c.LongMemoryResults = 5
	}
	if c.LoreMaxResults == 0 {
		c.LoreMaxResults = 5
	}
	if c.MaxAutoDepth == 0 {
		c.MaxAutoDepth = 3
	}
}

// StoryStart is the result of starting a new story.
type StoryStart struct {
	Codex Codex
	State State
	Scene Scene
}

// Session orchestrates one interactive story. It owns the session memory
// and the generation components; StartStory and Step are the only entry
// points the UI layer calls.
//
// The pipeline is synchronous and single-threaded: every generation call is
// a blocking round trip and each one depends on the previous one's output.
// A Session must not be used from multiple goroutines.
type Session struct {
	codexGen *CodexGenerator
	sceneGen *SceneGenerator
	intent   *IntentClassifier
	decider  *AutoContinueDecider
	memory   SceneMemory
	config   Config
	logger   *zap.Logger
}

// NewSession wires the pipeline. lore and mem may be nil, which disables
// lexical retrieval and long-term recall respectively.
func NewSession(client llm.Client, mem SceneMemory, lore LoreContext, config Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	config.ApplyDefaults()

	return &Session{
		codexGen: NewCodexGenerator(client, logger.Named("codex")),
		sceneGen: NewSceneGenerator(client, lore, config.LoreMaxResults, logger.Named("scene")),
		intent:   NewIntentClassifier(client, logger.Named("intent")),
		decider:  NewAutoContinueDecider(client, logger.Named("autocontinue")),
		memory:   mem,
		config:   config,
		logger:   logger,
	}
}

// StartStory initializes a new story: it generates the codex, creates the
// initial state, and produces the opening scene with no player input and no
// memories. The opening scene's text becomes the first history entry.
//
// Like every pipeline operation, StartStory degrades instead of failing:
// generation problems surface as sentinel-valued codex or scene.
func (s *Session) StartStory(ctx context.Context, theme string) StoryStart {
	ctx, span := engineTracer.Start(ctx, "Session.StartStory")
	defer span.End()
	span.SetAttributes(attribute.String("theme", theme))

	codex := s.codexGen.Generate(ctx, theme)
	state := NewState(codex)

	scene := s.sceneGen.Generate(ctx, codex, state, "", "", "")
	if scene.SceneText != "" {
		state.History = append(state.History, HistoryEntry{
			SceneText:    scene.SceneText,
			Consequences: scene.Consequences,
		})
	}

	s.logger.Info("story started",
		zap.String("theme", codex.Theme),
		zap.Int("history", len(state.History)),
	)

	return StoryStart{Codex: codex, State: state, Scene: scene}
}

// Step runs the main pipeline for one player action and returns the scene
// to display plus the updated state.
//
// Auto-continuation is a bounded loop: when the decider chooses to advance,
// the pipeline runs again with empty input, superseding the intermediate
// scene. At most MaxAutoDepth automatic advances follow the player's turn,
// so a step performs at most MaxAutoDepth+1 scene generations.
//
// An out-of-game input returns the fixed redirect scene and the state
// unmodified.
func (s *Session) Step(ctx context.Context, input string, codex Codex, state State) (Scene, State) {
	ctx, span := engineTracer.Start(ctx, "Session.Step")
	defer span.End()

	for depth := 0; ; depth++ {
		// Empty input only occurs on auto-continuation turns and is
		// implicitly in-game; the classifier is never consulted for it.
		if strings.TrimSpace(input) != "" {
			if s.intent.Classify(ctx, input) == IntentOutOfGame {
				span.SetAttributes(attribute.Bool("out_of_game", true))
				return outOfGameScene(), state
			}
		}

		shortMemory := strings.Join(state.RecentSceneTexts(s.config.ShortMemoryScenes), memorySeparator)

		longMemory := ""
		if strings.TrimSpace(input) != "" {
			longMemory = s.recallLongMemory(ctx, input)
		}

		scene := s.sceneGen.Generate(ctx, codex, state, input, shortMemory, longMemory)

		newState := state.Apply(scene.Consequences)

		if scene.SceneText != "" {
			s.memorize(ctx, scene.SceneText, newState)
			newState.History = append(newState.History, HistoryEntry{
				SceneText:    scene.SceneText,
				Consequences: scene.Consequences,
			})
		}

		decision := s.decider.Decide(ctx, scene, newState, codex)

		if decision != DecisionAutoContinue || depth >= s.config.MaxAutoDepth {
			span.SetAttributes(attribute.Int("auto_depth", depth))
			return scene, newState
		}

		s.logger.Info("auto-continuing story", zap.Int("depth", depth+1))
		input = ""
		state = newState
	}
}

// recallLongMemory searches the vector memory for scenes similar to the
// input. Failures degrade to no recall.
func (s *Session) recallLongMemory(ctx context.Context, input string) string {
	if s.memory == nil {
		return ""
	}

	records, err := s.memory.Search(ctx, input, s.config.LongMemoryResults)
	if err != nil {
		s.logger.Warn("long-term recall failed", zap.Error(err))
		return ""
	}

	texts := make([]string, 0, len(records))
	for _, r := range records {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, memorySeparator)
}

// memorize appends the scene text to the vector memory with the new state's
// progression metadata. Failures are logged and swallowed: memory is an
// enrichment, not a dependency of the pipeline.
func (s *Session) memorize(ctx context.Context, sceneText string, newState State) {
	if s.memory == nil {
		return
	}

	flags := make(map[string]any, len(newState.Flags))
	for k, v := range newState.Flags {
		flags[k] = v
	}

	err := s.memory.Add(ctx, sceneText, memory.Metadata{
		MilestoneIndex: newState.MilestoneIndex,
		Flags:          flags,
	})
	if err != nil {
		s.logger.Warn("failed to memorize scene", zap.Error(err))
	}
}

// outOfGameScene is the fixed scene for out-of-universe requests.
func outOfGameScene() Scene {
	return Scene{
		SceneText: OutOfGameText,
		Choices:   []string{},
	}
}

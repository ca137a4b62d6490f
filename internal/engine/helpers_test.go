package engine_test

import (
	"context"
	"strings"
	"sync"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
)

// callKind identifies which pipeline component issued a chat call, based on
// its system prompt.
type callKind string

const (
	callCodex        callKind = "codex"
	callScene        callKind = "scene"
	callIntent       callKind = "intent"
	callAutoContinue callKind = "autocontinue"
	callUnknown      callKind = "unknown"
)

func kindOf(msgs []llm.Message) callKind {
	if len(msgs) == 0 || msgs[0].Role != llm.RoleSystem {
		return callUnknown
	}
	system := msgs[0].Content
	switch {
	case strings.Contains(system, "narration interactive"):
		return callCodex
	case strings.Contains(system, "moteur narratif"):
		return callScene
	case strings.Contains(system, "ReAct"):
		return callIntent
	case strings.Contains(system, "décision"):
		return callAutoContinue
	default:
		return callUnknown
	}
}

// recordedCall keeps a chat call for later inspection.
type recordedCall struct {
	kind   callKind
	prompt string
}

// stubClient scripts responses per call kind and records every call.
type stubClient struct {
	mu        sync.Mutex
	responses map[callKind]string
	errs      map[callKind]error
	calls     []recordedCall
}

func newStubClient() *stubClient {
	return &stubClient{
		responses: map[callKind]string{},
		errs:      map[callKind]error{},
	}
}

func (c *stubClient) respond(kind callKind, response string) *stubClient {
	c.responses[kind] = response
	return c
}

func (c *stubClient) fail(kind callKind, err error) *stubClient {
	c.errs[kind] = err
	return c
}

func (c *stubClient) Chat(_ context.Context, msgs []llm.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind := kindOf(msgs)
	prompt := ""
	if len(msgs) > 0 {
		prompt = msgs[len(msgs)-1].Content
	}
	c.calls = append(c.calls, recordedCall{kind: kind, prompt: prompt})

	if err, ok := c.errs[kind]; ok {
		return "", err
	}
	return c.responses[kind], nil
}

func (c *stubClient) countCalls(kind callKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, call := range c.calls {
		if call.kind == kind {
			n++
		}
	}
	return n
}

func (c *stubClient) lastPrompt(kind callKind) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.calls) - 1; i >= 0; i-- {
		if c.calls[i].kind == kind {
			return c.calls[i].prompt
		}
	}
	return ""
}

// validSceneJSON is a well-formed scene response for scripting stubs.
const validSceneJSON = `{
  "scene_text": "La porte grince et s'ouvre sur un couloir sombre.",
  "choices": ["Entrer", "Reculer"],
  "consequences": {
    "milestone_progress": false,
    "flags": {},
    "inventory_add": []
  }
}`

// validCodexJSON is a well-formed codex response for scripting stubs.
const validCodexJSON = `{
  "pitch": "Un royaume au bord du gouffre.",
  "univers": "Les Terres Brisées, un continent fracturé par une ancienne guerre magique.",
  "personnages": ["Elara", "Borin"],
  "lieux": ["Tour d'ivoire", "Forge du village"],
  "milestones": ["Trouver la carte", "Traverser la faille", "Forger la clé", "Sceller le gouffre"]
}`

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/engine/save"
	"github.com/0xtyls/n-r-ai/types"
)

// Persona configures the LLM agent's role-play and model parameters.
// Loaded from a YAML file so personas can be swapped without a rebuild.
type Persona struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// LoadPersona reads a persona definition from a YAML file.
func LoadPersona(path string) (Persona, error) {
	p := Persona{Model: "gemini-2.0-flash", Temperature: 0.7}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("ai: read persona: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("ai: parse persona %s: %w", path, err)
	}
	return p, nil
}

// LLMAgent asks a generative model to pick an action index from the legal
// list. The model only ever chooses among engine-enumerated actions, so a
// hallucinated move cannot enter the game.
type LLMAgent struct {
	Engine  *engine.Engine
	Persona Persona

	client *genai.Client
	model  *genai.GenerativeModel
}

// NewLLMAgent creates an agent backed by the Gemini API. The key comes from
// the GEMINI_API_KEY environment variable.
func NewLLMAgent(ctx context.Context, e *engine.Engine, persona Persona) (*LLMAgent, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ai: GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}
	name := persona.Model
	if name == "" {
		name = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(persona.Temperature)
	model.ResponseMIMEType = "application/json"
	return &LLMAgent{Engine: e, Persona: persona, client: client, model: model}, nil
}

// Close releases the underlying API client.
func (a *LLMAgent) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

type llmPick struct {
	Pick      int    `json:"pick"`
	Rationale string `json:"rationale"`
}

// Act summarizes the state and legal actions, asks the model for a strict
// JSON {"pick": i, "rationale": "..."} reply, and returns the chosen
// action. Out-of-range picks are errors, never coerced.
func (a *LLMAgent) Act(ctx context.Context, s *types.GameState) (types.Action, error) {
	actions := a.Engine.LegalActions(s)
	if len(actions) == 0 {
		return types.Action{}, fmt.Errorf("ai: no legal actions (game over?)")
	}
	if len(actions) == 1 {
		return actions[0], nil
	}

	prompt, err := a.buildPrompt(s, actions)
	if err != nil {
		return types.Action{}, err
	}
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return types.Action{}, fmt.Errorf("ai: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return types.Action{}, fmt.Errorf("ai: empty model response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return types.Action{}, fmt.Errorf("ai: unexpected response part %T", resp.Candidates[0].Content.Parts[0])
	}

	pick, err := parsePick(string(text))
	if err != nil {
		return types.Action{}, err
	}
	if pick.Pick < 0 || pick.Pick >= len(actions) {
		return types.Action{}, fmt.Errorf("ai: model pick %d out of range [0,%d)", pick.Pick, len(actions))
	}
	return actions[pick.Pick], nil
}

func (a *LLMAgent) buildPrompt(s *types.GameState, actions []types.Action) (string, error) {
	snap, err := save.Encode(s)
	if err != nil {
		return "", fmt.Errorf("ai: encode state: %w", err)
	}
	acts, err := json.Marshal(actions)
	if err != nil {
		return "", fmt.Errorf("ai: encode actions: %w", err)
	}

	persona := strings.TrimSpace(a.Persona.Description)
	if persona == "" {
		persona = "a calm, methodical survivor"
	}

	var b strings.Builder
	b.WriteString("You are playing a cooperative survival board game aboard a derelict ship.\n")
	b.WriteString("Role-play this persona while trying to win: " + persona + "\n\n")
	b.WriteString("Current state (JSON):\n")
	b.Write(snap)
	b.WriteString("\n\nLegal actions, indexed from 0 (JSON):\n")
	b.Write(acts)
	b.WriteString("\n\nReply with strict JSON only: {\"pick\": <index>, \"rationale\": <short string>}")
	return b.String(), nil
}

// parsePick decodes the model reply, tolerating stray text around the JSON
// object.
func parsePick(content string) (llmPick, error) {
	var pick llmPick
	if err := json.Unmarshal([]byte(content), &pick); err == nil {
		return pick, nil
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return pick, fmt.Errorf("ai: model returned non-JSON content")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &pick); err != nil {
		return pick, fmt.Errorf("ai: parse model reply: %w", err)
	}
	return pick, nil
}

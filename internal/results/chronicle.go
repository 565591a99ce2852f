package results

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/chronicle.txt
var chroniclePrompt string

var chronicleTmpl = template.Must(template.New("chronicle").Parse(chroniclePrompt))

// Entry is a short narrative of a round.
type Entry struct {
	Title string `yaml:"title"`
	Text  string `yaml:"entry"`
}

// Chronicler writes the narrative for a summary.
type Chronicler interface {
	Chronicle(ctx context.Context, s Summary) (Entry, error)
	Close()
}

// Local writes a plain entry without any model.
type Local struct{}

func (Local) Close() {}

func (Local) Chronicle(_ context.Context, s Summary) (Entry, error) {
	title := fmt.Sprintf("Round %d ledger", s.Round)
	if s.Items == 0 {
		return Entry{Title: title, Text: "Left with empty pockets. The shopkeeper shrugs."}, nil
	}
	best := "nothing remarkable"
	if s.Best != nil {
		best = s.Best.Name
	}
	text := fmt.Sprintf("Kept %d item(s); the pick of the lot was %s. Gained %d charm, %d knowledge, %d talent and %d wealth.",
		s.Items, best, s.Collected.Charm, s.Collected.Knowledge, s.Collected.Talent, s.Collected.Wealth)
	return Entry{Title: title, Text: text}, nil
}

// Gemini asks a Gemini model for the entry.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini connects to the Gemini API.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Chronicle(ctx context.Context, s Summary) (Entry, error) {
	prompt, err := renderPrompt(s)
	if err != nil {
		return Entry{}, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Entry{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Entry{}, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Entry{}, fmt.Errorf("unexpected response type from Gemini")
	}
	return parseEntry(string(text))
}

// WithFallback returns the model's entry, or the local one if the model
// fails.
func WithFallback(ctx context.Context, c Chronicler, s Summary) Entry {
	e, err := c.Chronicle(ctx, s)
	if err == nil {
		return e
	}
	slog.Warn("chronicle failed, using local entry", "error", err)
	e, _ = Local{}.Chronicle(ctx, s)
	return e
}

func renderPrompt(s Summary) (string, error) {
	best := "none"
	if s.Best != nil {
		best = s.Best.Name
	}
	var buf bytes.Buffer
	data := struct {
		Summary
		Best  string
		Lines []Line
	}{Summary: s, Best: best, Lines: s.Highlights}
	if err := chronicleTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseEntry(raw string) (Entry, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var e Entry
	if err := yaml.Unmarshal([]byte(clean), &e); err != nil {
		return Entry{}, fmt.Errorf("failed to parse chronicle YAML: %v\nOutput was: %s", err, clean)
	}
	if e.Text == "" {
		return Entry{}, fmt.Errorf("chronicle YAML has no entry")
	}
	return e, nil
}

// Package formgen builds form schemas from natural-language prompts and
// wraps the LLM text helpers used while filling forms. Every operation
// degrades to a local heuristic when no LLM is configured or the call fails.
package formgen

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/jackzampolin/formassist/internal/providers"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(promptFS, "prompts/*.tmpl"))

// render executes the prompt template name with data.
func render(name string, data any) string {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		panic(fmt.Sprintf("formgen: prompt %s: %v", name, err))
	}
	return strings.TrimSpace(buf.String())
}

// LLMSource yields the LLM to use, or nil when none is configured.
// *providers.Registry satisfies it.
type LLMSource interface {
	DefaultLLM() providers.LLMClient
}

// Static wraps a single client as an LLMSource. A nil client means no LLM.
func Static(client providers.LLMClient) LLMSource { return staticSource{client} }

type staticSource struct{ client providers.LLMClient }

func (s staticSource) DefaultLLM() providers.LLMClient { return s.client }

func clientFrom(src LLMSource) providers.LLMClient {
	if src == nil {
		return nil
	}
	return src.DefaultLLM()
}

// chatText sends a single user prompt and returns the trimmed reply.
func chatText(ctx context.Context, client providers.LLMClient, prompt string) (string, error) {
	res, err := client.Chat(ctx, &providers.ChatRequest{
		Messages:  []providers.Message{{Role: "user", Content: prompt}},
		RequestID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(providers.StripCodeFences(res.Content))
	if out == "" {
		return "", fmt.Errorf("%s returned an empty reply", client.Name())
	}
	return out, nil
}

// chatJSON requests structured output matching schema and decodes it into out.
func chatJSON(ctx context.Context, client providers.LLMClient, name string, schema map[string]any, system, user string, out any) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal %s schema: %w", name, err)
	}
	format, err := providers.JSONSchemaFormat(name, raw)
	if err != nil {
		return err
	}

	var msgs []providers.Message
	if system != "" {
		msgs = append(msgs, providers.Message{Role: "system", Content: system})
	}
	msgs = append(msgs, providers.Message{Role: "user", Content: user})

	res, err := client.Chat(ctx, &providers.ChatRequest{
		Messages:       msgs,
		ResponseFormat: format,
		RequestID:      uuid.NewString(),
	})
	if err != nil {
		return err
	}

	data := []byte(res.ParsedJSON)
	if len(data) == 0 {
		data = []byte(providers.StripCodeFences(res.Content))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s output: %w", name, err)
	}
	return nil
}

// pairsSchema describes a list of {name, value} pairs. Pairs are used instead
// of an open object so the schema stays valid under strict mode.
var pairsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"value": map[string]any{"type": "string"},
		},
		"required":             []string{"name", "value"},
		"additionalProperties": false,
	},
}

type pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/almashriq/backoffice/modules/catalog/domain/aggregates/item"
	"github.com/almashriq/backoffice/modules/sheetimport/domain/importing"
)

// maxCatalogChunk bounds how many catalog lines go into one prompt.
const maxCatalogChunk = 200

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI scores similarity through a chat-completion call. On any failure it
// falls back to the local heuristic so reconciliation never blocks on the
// remote service.
type OpenAI struct {
	client   chatCompleter
	model    string
	timeout  time.Duration
	fallback *Local
	log      *logrus.Logger
}

func NewOpenAI(client chatCompleter, model string, timeout time.Duration, log *logrus.Logger) *OpenAI {
	return &OpenAI{
		client:   client,
		model:    model,
		timeout:  timeout,
		fallback: NewLocal(),
		log:      log,
	}
}

type scoredMatch struct {
	PartNumber string  `json:"part_number"`
	Similarity float64 `json:"similarity"`
}

func (o *OpenAI) Score(ctx context.Context, description, partNumber string, items []item.Item) ([]importing.Candidate, error) {
	if len(items) > maxCatalogChunk {
		items = items[:maxCatalogChunk]
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You compare a quoted item against a parts catalog. " +
					"Reply with JSON: {\"matches\": [{\"part_number\": string, \"similarity\": number 0..1}]}. " +
					"Only include catalog entries that plausibly denote the same physical item.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(description, partNumber, items),
			},
		},
	})
	if err != nil {
		o.logFallback(err)
		return o.fallback.Score(ctx, description, partNumber, items)
	}
	if len(resp.Choices) == 0 {
		o.logFallback(fmt.Errorf("empty completion"))
		return o.fallback.Score(ctx, description, partNumber, items)
	}

	var parsed struct {
		Matches []scoredMatch `json:"matches"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		o.logFallback(err)
		return o.fallback.Score(ctx, description, partNumber, items)
	}

	byPart := make(map[string]item.Item, len(items))
	for _, itm := range items {
		byPart[itm.PartNumber()] = itm
	}

	candidates := make([]importing.Candidate, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		itm, ok := byPart[strings.ToUpper(strings.TrimSpace(m.PartNumber))]
		if !ok {
			continue
		}
		if m.Similarity < 0 || m.Similarity > 1 {
			continue
		}
		candidates = append(candidates, importing.Candidate{
			ItemID:     itm.ID(),
			PartNumber: itm.PartNumber(),
			Similarity: m.Similarity,
		})
	}
	return candidates, nil
}

func buildPrompt(description, partNumber string, items []item.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quoted item:\ndescription: %s\n", description)
	if partNumber != "" {
		fmt.Fprintf(&b, "part number: %s\n", partNumber)
	}
	b.WriteString("\nCatalog:\n")
	for _, itm := range items {
		fmt.Fprintf(&b, "- part_number: %s | description: %s\n", itm.PartNumber(), itm.Description())
	}
	return b.String()
}

func (o *OpenAI) logFallback(err error) {
	if o.log != nil {
		o.log.WithError(err).Warn("openai scorer failed, falling back to local similarity")
	}
}

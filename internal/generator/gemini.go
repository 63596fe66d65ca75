package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultRegion = "us-east1"
	defaultModel  = "gemini-2.5-flash"
)

const cluePrompt = `You are a crossword editor. Create one clue per entry for a crossword puzzle.
Follow American crossword conventions: question mark for double-meanings, fill-in-the-blanks, say/for example/for one/e.g., abbreviated clues with '.' for abbreviated words, foreign language clue for foreign language word, quotations for expressions, no answer in clue, etc.
For each entry, do the following:
1. Write out 15 distinct clues, sometimes utilizing the crossword conventions listed above.
2. Go through them one by one, and answer each of these questions to determine if it should be eliminated:
	a. Does the clue really make sense when you think hard about it?
	b. Are there words or references that too many people won't know?
	c. Is the clue too difficult?
	d. Does the clue contain part of the answer directly in it? (not allowed)
3. Choose one from the remaining options, usually choosing a normal good clue, but occasionally choosing a more clever one. Also, try to avoid doing too many one-word clues.
4. Determine if the clue works grammatically, i.e. does the clue tense or plurality match the answer? If not, adjust it before submitting.

Respond ONLY with JSON of the form {"clues": [{"id": "...", "clue": "..."}]}, one object per entry, no commentary and no markdown.

Entries (JSON):
`

// GeminiCluer writes clues with Gemini on Vertex AI. It is the model
// half of the generation pipeline; the filler never needs it.
type GeminiCluer struct {
	client    *genai.Client
	modelName string
}

// NewGeminiCluer creates a cluer using Application Default
// Credentials. Set GOOGLE_APPLICATION_CREDENTIALS to the service
// account key file path.
func NewGeminiCluer(ctx context.Context, projectID, region string) (*GeminiCluer, error) {
	if region == "" {
		region = defaultRegion
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiCluer{
		client:    client,
		modelName: defaultModel,
	}, nil
}

// Clues asks the model for one clue per entry and checks nothing is
// missing. Answers are sent without grid coordinates; the model only
// needs the words.
func (g *GeminiCluer) Clues(ctx context.Context, entries []Entry) (map[string]string, error) {
	compact, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: cluePrompt + string(compact)},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	var out struct {
		Clues []struct {
			ID   string `json:"id"`
			Clue string `json:"clue"`
		} `json:"clues"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w\nraw response: %s", err, text)
	}

	clues := make(map[string]string, len(out.Clues))
	for _, c := range out.Clues {
		if c.ID != "" && c.Clue != "" {
			clues[c.ID] = c.Clue
		}
	}
	for _, e := range entries {
		if clues[e.ID] == "" {
			return nil, fmt.Errorf("missing clue for entry %s", e.ID)
		}
	}
	return clues, nil
}

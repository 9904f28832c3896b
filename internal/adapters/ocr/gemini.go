// Package ocr classifies a photo of a tile rack into a letter multiset,
// grounded on lborie-crossword's GeminiClient/AnalyzeImage pair. It
// plays the external "camera capture, OCR classifier" role spec.md
// assumes upstream of solve's hand input, without hardcoding
// any particular vision provider's SDK beyond the one the pack shows.
package ocr

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/ports"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

const rackPrompt = `Analyse cette photo d'un plateau de tuiles de lettres.

Identifie chaque tuile visible et renvoie exactement ce JSON :
{
  "letters": ["A", "E", "I", ...]
}

Règles :
- Une entrée par tuile, dans l'ordre où elles apparaissent de gauche à droite.
- Chaque lettre est un caractère A-Z majuscule.
- Ignore les tuiles illisibles plutôt que de deviner.
- Réponds UNIQUEMENT avec le JSON, sans commentaire ni markdown.`

type rackResponse struct {
	Letters []string `json:"letters"`
}

// GeminiTileClassifier wraps a genai.Client scoped to Vertex AI, turning
// a rack photo into a domain.Multiset.
type GeminiTileClassifier struct {
	client    *genai.Client
	modelName string
}

var _ ports.TileClassifier = (*GeminiTileClassifier)(nil)

// NewGeminiTileClassifier creates a client using Application Default
// Credentials, same as lborie-crossword's NewGeminiClient.
func NewGeminiTileClassifier(ctx context.Context, projectID, region string) (*GeminiTileClassifier, error) {
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
	return &GeminiTileClassifier{client: client, modelName: defaultModel}, nil
}

// ClassifyRack sends imageData to Gemini and returns the hand it reads
// off the tiles, as a domain.Multiset ready for CoreSolver.Solve.
func (g *GeminiTileClassifier) ClassifyRack(ctx context.Context, imageData []byte, mimeType string) (domain.Multiset, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: rackPrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return domain.Multiset{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return domain.Multiset{}, fmt.Errorf("empty gemini response")
	}

	var rack rackResponse
	if err := json.Unmarshal([]byte(text), &rack); err != nil {
		return domain.Multiset{}, fmt.Errorf("parse rack JSON: %w\nraw response: %s", err, text)
	}
	if len(rack.Letters) == 0 {
		return domain.Multiset{}, fmt.Errorf("no letters recognized in rack photo")
	}

	letters := make([]domain.Letter, 0, len(rack.Letters))
	for _, s := range rack.Letters {
		if len(s) != 1 {
			return domain.Multiset{}, fmt.Errorf("gemini returned non-single-character letter %q", s)
		}
		l, err := domain.NewLetter(s[0])
		if err != nil {
			return domain.Multiset{}, fmt.Errorf("rack letter: %w", err)
		}
		letters = append(letters, l)
	}
	return domain.NewMultiset(letters), nil
}

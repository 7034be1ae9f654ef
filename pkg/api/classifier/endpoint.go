package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maccessmap/backend/config"
	"github.com/maccessmap/backend/pkg/api"
)

type Endpoint struct {
	token string
	model string

	apiGenerator api.Generator
}

func New(cfg config.ClassifierConfigs) *Endpoint {
	url := cfg.URL
	if url == "" {
		url = "https://api-inference.huggingface.co"
	}

	model := cfg.Model
	if model == "" {
		model = "facebook/bart-large-mnli"
	}

	return &Endpoint{
		token:        cfg.Token,
		model:        model,
		apiGenerator: api.NewGenerator(strings.TrimRight(url, "/")),
	}
}

func (e *Endpoint) Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	candidates := make([]any, 0, len(labels))
	for _, l := range labels {
		candidates = append(candidates, l)
	}

	resp, err := e.apiGenerator.New("/models/%s", e.model).
		Body(api.JSON{
			"inputs": text,
			"parameters": map[string]any{
				"candidate_labels": candidates,
				"multi_label":      true,
			},
		}).
		POST(ctx, api.OAuth2("Bearer", e.token))
	if err != nil {
		return nil, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, errors.New("unexpected classifier response")
	}

	if resp.Code != 200 {
		message, _ := body.GetString("error")
		return nil, fmt.Errorf("classifier returned %d: %s", resp.Code, message)
	}

	rawLabels, err := body.GetArray("labels")
	if err != nil {
		return nil, err
	}

	rawScores, err := body.GetArray("scores")
	if err != nil {
		return nil, err
	}

	if len(rawLabels) != len(rawScores) {
		return nil, errors.New("mismatched labels and scores")
	}

	result := make([]LabelScore, 0, len(rawLabels))
	for i := range rawLabels {
		label, ok := rawLabels[i].(string)
		if !ok {
			return nil, fmt.Errorf("invalid label type %T", rawLabels[i])
		}

		score, ok := rawScores[i].(float64)
		if !ok {
			return nil, fmt.Errorf("invalid score type %T", rawScores[i])
		}

		result = append(result, LabelScore{Label: label, Score: score})
	}

	return result, nil
}

package classifier

import "context"

type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// IEndpoint scores a text against candidate labels with a hosted zero-shot
// classification model.
type IEndpoint interface {
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/customHttpClient"
	"github.com/clauselens/clauselens/pkg/logger_i"
)

// NoEntityLabel is the sentinel the token-classification model emits for
// tokens carrying no legal category.
const NoEntityLabel = "O"

// Classifier assigns one legal category per clause text. The token-level
// model runs in an external inference service; this client batches requests
// and aggregates the per-token labels locally.
type Classifier interface {
	Classify(ctx context.Context, clauses []string) ([]string, error)
}

type serviceClassifier struct {
	baseURL    string
	httpClient *http.Client
	batchSize  int
	logger     *logger_i.Logger
}

// NewServiceClassifier builds a classifier backed by the token-classification
// inference service at baseURL.
func NewServiceClassifier(baseURL string, batchSize int) Classifier {
	if batchSize <= 0 {
		batchSize = config.ClassifierBatchSize
	}
	return &serviceClassifier{
		baseURL:    baseURL,
		httpClient: customHttpClient.NewPooledClient(config.ClassifierTimeout),
		batchSize:  batchSize,
		logger:     logger_i.NewLogger("Clause Classifier"),
	}
}

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyResponse struct {
	// One slice of token labels per input text, in input order.
	TokenLabels [][]string `json:"token_labels"`
}

// Classify labels every clause, order-preserving. A model-service failure
// fails the whole call - silent mislabeling is worse than a failed job.
func (c *serviceClassifier) Classify(ctx context.Context, clauses []string) ([]string, error) {
	labels := make([]string, 0, len(clauses))

	for i := 0; i < len(clauses); i += c.batchSize {
		end := min(i+c.batchSize, len(clauses))
		batchLabels, err := c.classifyBatch(ctx, clauses[i:end])
		if err != nil {
			return nil, fmt.Errorf("classification batch %d-%d: %w", i, end, err)
		}
		labels = append(labels, batchLabels...)
	}
	return labels, nil
}

func (c *serviceClassifier) classifyBatch(ctx context.Context, batch []string) ([]string, error) {
	body, err := json.Marshal(classifyRequest{Texts: batch})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier service returned %d", resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}
	if len(parsed.TokenLabels) != len(batch) {
		return nil, fmt.Errorf("classifier returned %d results for %d texts", len(parsed.TokenLabels), len(batch))
	}

	labels := make([]string, len(batch))
	for i, tokens := range parsed.TokenLabels {
		labels[i] = AggregateTokenLabels(tokens)
	}
	return labels, nil
}

// AggregateTokenLabels reduces per-token predictions to one clause label:
// majority vote over non-"O" tokens, ties broken by the label seen earliest
// in token order. All-"O" clauses fall back to "Other".
func AggregateTokenLabels(tokenLabels []string) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, label := range tokenLabels {
		if label == NoEntityLabel {
			continue
		}
		if _, ok := firstSeen[label]; !ok {
			firstSeen[label] = i
		}
		counts[label]++
	}

	if len(counts) == 0 {
		return config.FallbackClauseLabel
	}

	best := ""
	for label, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && firstSeen[label] < firstSeen[best]) {
			best = label
		}
	}
	return best
}

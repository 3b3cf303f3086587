// internal/matching/history.go
package matching

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// HistoryRecorder indexes served match queries into Elasticsearch for
// offline analytics. Strictly best effort: indexing failures are logged and
// never affect the match response.
type HistoryRecorder struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewHistoryRecorder(client *elasticsearch.Client, index string, log logger.Logger) *HistoryRecorder {
	return &HistoryRecorder{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "match-history"}),
	}
}

type matchHistoryDoc struct {
	RequesterID string    `json:"requesterId"`
	MatchCount  int       `json:"matchCount"`
	TopScore    float64   `json:"topScore"`
	Threshold   float64   `json:"threshold"`
	ServedAt    time.Time `json:"servedAt"`
}

// Record indexes one served match query.
func (r *HistoryRecorder) Record(ctx context.Context, requesterID string, threshold float64, matches []models.PotentialMatch) {
	if r == nil || r.client == nil {
		return
	}

	doc := matchHistoryDoc{
		RequesterID: requesterID,
		MatchCount:  len(matches),
		Threshold:   threshold,
		ServedAt:    time.Now().UTC(),
	}
	if len(matches) > 0 {
		doc.TopScore = matches[0].CompatibilityScore
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return
	}

	req := esapi.IndexRequest{
		Index: r.index,
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		r.logger.WithError(err).Warn("match history indexing failed", map[string]interface{}{"requesterId": requesterID})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		r.logger.Warn("match history indexing rejected", map[string]interface{}{
			"requesterId": requesterID,
			"status":      res.Status(),
		})
	}
}

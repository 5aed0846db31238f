package text

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// RemoteCorrector calls a hosted speller model. Any failure returns the
// input unchanged: a missing correction never blocks the pipeline.
type RemoteCorrector struct {
	endpoint string
	client   *http.Client
}

func NewRemoteCorrector(endpoint string) *RemoteCorrector {
	return &RemoteCorrector{endpoint: endpoint, client: &http.Client{Timeout: 10 * time.Second}}
}

func (c *RemoteCorrector) Correct(text string) string {
	b, _ := json.Marshal(map[string]string{"text": text})
	resp, err := c.client.Post(strings.TrimRight(c.endpoint, "/")+"/correct", "application/json", bytes.NewReader(b))
	if err != nil {
		slog.Warn("speller unavailable", "err", err)
		return text
	}
	defer resp.Body.Close()
	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Text == "" {
		return text
	}
	return out.Text
}

// RemoteToxicity calls a hosted toxicity classifier and applies a
// confidence threshold. Failures degrade to "not toxic".
type RemoteToxicity struct {
	endpoint  string
	threshold float64
	client    *http.Client
}

func NewRemoteToxicity(endpoint string, threshold float64) *RemoteToxicity {
	if threshold <= 0 {
		threshold = 0.7
	}
	return &RemoteToxicity{endpoint: endpoint, threshold: threshold, client: &http.Client{Timeout: 10 * time.Second}}
}

func (c *RemoteToxicity) IsToxic(text string) bool {
	b, _ := json.Marshal(map[string]string{"text": text})
	resp, err := c.client.Post(strings.TrimRight(c.endpoint, "/")+"/toxicity", "application/json", bytes.NewReader(b))
	if err != nil {
		slog.Warn("toxicity check unavailable", "err", err)
		return false
	}
	defer resp.Body.Close()
	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	return out.Score >= c.threshold
}

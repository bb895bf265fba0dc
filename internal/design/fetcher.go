package design

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Fetcher resolves a reference into a node tree.
type Fetcher interface {
	Fetch(ctx context.Context, ref Reference) (*Node, error)
}

// HTTPFetcher talks to the design service's REST nodes endpoint.
type HTTPFetcher struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// DefaultBaseURL is the production design-service endpoint.
const DefaultBaseURL = "https://api.figma.com"

// NewHTTPFetcher creates a fetcher for the given service endpoint. An empty
// baseURL selects the production endpoint; the transport's default timeout
// behavior is kept as-is.
func NewHTTPFetcher(baseURL, token string, logger *zap.Logger) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{
		baseURL: baseURL,
		token:   token,
		client:  http.DefaultClient,
		logger:  logger,
	}
}

// nodesResponse mirrors the service's GET /v1/files/{key}/nodes payload.
type nodesResponse struct {
	Nodes map[string]struct {
		Document *Node `json:"document"`
	} `json:"nodes"`
}

// Fetch retrieves the subtree rooted at ref.NodeID. Any transport or
// decode problem is returned as an error; callers treat all of them the
// same way as an empty response.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref Reference) (*Node, error) {
	endpoint := fmt.Sprintf("%s/v1/files/%s/nodes?ids=%s", f.baseURL, ref.DocumentKey, ref.NodeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build nodes request: %w", err)
	}
	req.Header.Set("X-Design-Token", f.token)

	f.logger.Debug("fetching design nodes",
		zap.String("document", ref.DocumentKey),
		zap.String("node", ref.NodeID))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nodes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch nodes: unexpected status %d", resp.StatusCode)
	}

	var payload nodesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode nodes response: %w", err)
	}

	entry, ok := payload.Nodes[ref.NodeID]
	if !ok || entry.Document == nil {
		return nil, fmt.Errorf("node %s not found in document %s", ref.NodeID, ref.DocumentKey)
	}

	f.logger.Debug("fetched design subtree",
		zap.String("root", entry.Document.Name),
		zap.Int("nodes", entry.Document.CountNodes()))

	return entry.Document, nil
}

package design

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrBadReference marks a reference string that cannot be resolved into a
// (documentKey, nodeID) pair. It is one of the two fatal errors in the
// system; everything else is recoverable.
var ErrBadReference = errors.New("unresolvable design reference")

// Reference identifies a subtree of a design document.
type Reference struct {
	DocumentKey string
	NodeID      string
}

func (r Reference) String() string {
	return r.DocumentKey + "/" + r.NodeID
}

// ParseReference accepts either the short "documentKey/nodeId" form or a
// full design-service URL with a node-id query parameter. URL node ids use
// "-" where the API uses ":", so "2606-6342" normalizes to "2606:6342".
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrBadReference)
	}

	if strings.Contains(raw, "://") {
		return parseReferenceURL(raw)
	}

	key, node, ok := strings.Cut(raw, "/")
	if !ok || key == "" || node == "" {
		return Reference{}, fmt.Errorf("%w: want documentKey/nodeId, got %q", ErrBadReference, raw)
	}
	return Reference{DocumentKey: key, NodeID: normalizeNodeID(node)}, nil
}

func parseReferenceURL(raw string) (Reference, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %v", ErrBadReference, err)
	}

	// Path shape: /file/<documentKey>/<slug> or /design/<documentKey>/<slug>
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || (parts[0] != "file" && parts[0] != "design") {
		return Reference{}, fmt.Errorf("%w: unrecognized document URL %q", ErrBadReference, raw)
	}
	key := parts[1]

	node := u.Query().Get("node-id")
	if key == "" || node == "" {
		return Reference{}, fmt.Errorf("%w: URL %q has no node-id", ErrBadReference, raw)
	}
	return Reference{DocumentKey: key, NodeID: normalizeNodeID(node)}, nil
}

func normalizeNodeID(id string) string {
	return strings.ReplaceAll(id, "-", ":")
}

// Package materialize turns non-skipped generation results into artifact
// files and records every group, generated or skipped, in the metadata
// store. Writes are keyed by the derived component name and are
// last-write-wins: a later run with the same name silently overwrites.
package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"uiforge/internal/protocol"
	"uiforge/internal/store"
)

// Request is the orchestrator's write order for one component group.
type Request struct {
	RunID        string
	DerivedName  string
	SourceID     string
	Category     string
	VariantCount int
	Generation   protocol.GenerationResult
}

// MetadataStore is the slice of the store the writer needs.
type MetadataStore interface {
	Insert(ctx context.Context, rec store.GenerationRecord) error
}

// Writer materializes artifacts under an output directory.
type Writer struct {
	outDir string
	meta   MetadataStore
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a writer rooted at outDir. meta may be nil, in which
// case only files are written.
func NewWriter(outDir string, meta MetadataStore, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{outDir: outDir, meta: meta, logger: logger, now: time.Now}
}

// Write performs the materialization contract for one group: for a
// non-skipped result exactly one artifact write plus at most one
// stylesheet write; for a skipped result a metadata marker only, never an
// artifact body.
func (w *Writer) Write(ctx context.Context, req Request) error {
	gen := req.Generation

	if !gen.Skipped {
		if err := os.MkdirAll(w.outDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		artifactPath := filepath.Join(w.outDir, req.DerivedName+".tsx")
		if err := os.WriteFile(artifactPath, []byte(ensureTrailingNewline(gen.ArtifactBody)), 0644); err != nil {
			return fmt.Errorf("write artifact %s: %w", artifactPath, err)
		}
		w.logger.Info("wrote artifact", zap.String("path", artifactPath))

		if gen.StyleSheetBody != "" {
			stylePath := filepath.Join(w.outDir, req.DerivedName+".css")
			if err := os.WriteFile(stylePath, []byte(ensureTrailingNewline(gen.StyleSheetBody)), 0644); err != nil {
				return fmt.Errorf("write stylesheet %s: %w", stylePath, err)
			}
			w.logger.Info("wrote stylesheet", zap.String("path", stylePath))
		}
	} else {
		w.logger.Info("group skipped, metadata marker only",
			zap.String("name", req.DerivedName),
			zap.String("reason", gen.Reason))
	}

	if w.meta == nil {
		return nil
	}
	return w.meta.Insert(ctx, store.GenerationRecord{
		RunID:        req.RunID,
		DerivedName:  req.DerivedName,
		SourceID:     req.SourceID,
		Category:     req.Category,
		GeneratedAt:  w.now(),
		UsageExample: gen.UsageExample,
		VariantCount: req.VariantCount,
		Skipped:      gen.Skipped,
		Reason:       gen.Reason,
	})
}

// DeriveName converts an element display name into the artifact file stem:
// non-alphanumerics are stripped and word-initial letters capitalized, so
// "nav bar 2" becomes "NavBar2". The mapping is deterministic; collisions
// overwrite (last write wins).
func DeriveName(display string) string {
	var b strings.Builder
	wordStart := true
	for _, r := range display {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			wordStart = true
			continue
		}
		if wordStart && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		wordStart = false
	}
	if b.Len() == 0 {
		return "Component"
	}
	return b.String()
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

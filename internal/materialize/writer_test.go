package materialize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"uiforge/internal/protocol"
	"uiforge/internal/store"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Button 1", "Button1"},
		{"nav bar 2", "NavBar2"},
		{"submit button", "SubmitButton"},
		{"hero/CTA-primary", "HeroCTAPrimary"},
		{"  spaced   out  ", "SpacedOut"},
		{"émail input", "ÉmailInput"},
		{"***", "Component"},
		{"", "Component"},
	}

	for _, tt := range tests {
		if got := DeriveName(tt.in); got != tt.want {
			t.Fatalf("DeriveName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type memStore struct {
	records []store.GenerationRecord
}

func (m *memStore) Insert(ctx context.Context, rec store.GenerationRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func TestWrite_Generated(t *testing.T) {
	dir := t.TempDir()
	meta := &memStore{}
	w := NewWriter(dir, meta, nil)

	err := w.Write(context.Background(), Request{
		RunID:        "run-1",
		DerivedName:  "Button1",
		SourceID:     "10:2",
		Category:     "button",
		VariantCount: 2,
		Generation: protocol.GenerationResult{
			ArtifactBody:   "export const Button1 = () => null;",
			StyleSheetBody: ".button1 {}",
			UsageExample:   "<Button1 />",
		},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, "Button1.tsx"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(body) != "export const Button1 = () => null;\n" {
		t.Fatalf("artifact body = %q", body)
	}
	if _, err := os.Stat(filepath.Join(dir, "Button1.css")); err != nil {
		t.Fatalf("stylesheet not written: %v", err)
	}

	if len(meta.records) != 1 {
		t.Fatalf("metadata records = %d, want 1", len(meta.records))
	}
	rec := meta.records[0]
	if rec.Skipped || rec.DerivedName != "Button1" || rec.VariantCount != 2 || rec.UsageExample != "<Button1 />" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestWrite_SkippedWritesMetadataOnly(t *testing.T) {
	dir := t.TempDir()
	meta := &memStore{}
	w := NewWriter(dir, meta, nil)

	err := w.Write(context.Background(), Request{
		RunID:       "run-1",
		DerivedName: "IconA",
		SourceID:    "10:4",
		Category:    "icon",
		Generation:  protocol.GenerationResult{Skipped: true, Reason: "plain vector"},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("skipped group wrote files: %v", entries)
	}
	if len(meta.records) != 1 || !meta.records[0].Skipped || meta.records[0].Reason != "plain vector" {
		t.Fatalf("records = %+v", meta.records)
	}
}

func TestWrite_LastWriteWins(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil, nil)

	for _, body := range []string{"first", "second"} {
		err := w.Write(context.Background(), Request{
			DerivedName: "Card",
			Generation:  protocol.GenerationResult{ArtifactBody: body},
		})
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	got, err := os.ReadFile(filepath.Join(dir, "Card.tsx"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second\n" {
		t.Fatalf("artifact = %q, want the later write", got)
	}
}

func TestWrite_SkippedDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil, nil)

	if err := w.Write(context.Background(), Request{
		DerivedName: "Card",
		Generation:  protocol.GenerationResult{ArtifactBody: "keep me"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(context.Background(), Request{
		DerivedName: "Card",
		Generation:  protocol.GenerationResult{Skipped: true, Reason: "later run skipped"},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "Card.tsx"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "keep me\n" {
		t.Fatalf("artifact = %q, skip must never touch artifacts", got)
	}
}

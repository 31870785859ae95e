package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/openpermit/openpermit/internal/presentation/tui"
	documents "github.com/openpermit/openpermit/pkg/adapters/loam"
	"github.com/openpermit/openpermit/pkg/domain"
)

// loadDocuments reads node documents from files and directories.
func loadDocuments(ctx context.Context, paths []string) ([]documents.Entry, error) {
	return documents.New(documents.ReadOnly()).Expand(ctx, paths)
}

// loadCrosswalk reads a crosswalk file through its JSON field names.
func loadCrosswalk(ctx context.Context, path string) (domain.Crosswalk, error) {
	doc, err := documents.New(documents.ReadOnly()).Load(ctx, path)
	if err != nil {
		return domain.Crosswalk{}, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return domain.Crosswalk{}, err
	}
	var cw domain.Crosswalk
	if err := json.Unmarshal(data, &cw); err != nil {
		return domain.Crosswalk{}, fmt.Errorf("%s: %w", path, err)
	}
	return cw, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMarkdown renders markdown for a terminal and prints it as-is otherwise.
func printMarkdown(w io.Writer, markdown string) error {
	render := tui.NewRenderer()
	out, err := render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

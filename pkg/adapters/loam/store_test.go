package loam_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openpermit/openpermit/pkg/adapters/loam"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNode(t *testing.T) *domain.Node {
	t.Helper()
	n := domain.NewNode("urn:openpermit:deck", domain.NodeTypeComponent, map[string]any{"name": "Deck"})
	n.AddAttribute("material", "wood")
	require.NoError(t, n.AddRelationship(domain.RelationshipRequires, "urn:irc:r507", nil))
	return n
}

func TestStore_SaveAndLoadNode(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := loam.New()

	for _, name := range []string{"deck.json", "deck.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			orig := sampleNode(t)
			require.NoError(t, store.SaveNode(ctx, path, orig))
			assert.FileExists(t, path)

			loaded, err := store.LoadNode(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, orig.ID(), loaded.ID())
			assert.Equal(t, orig.Type(), loaded.Type())
			assert.Equal(t, "wood", loaded.Attributes()["material"])
			assert.True(t, loaded.HasRelationship(domain.RelationshipRequires, "urn:irc:r507"))
			assert.Equal(t, orig.Metadata().Created, loaded.Metadata().Created)
		})
	}
}

func TestStore_ReadsHandWrittenFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := map[string]string{
		"a.json": `{"@id":"a","@type":"StandardNode"}`,
		"b.yaml": "\"@id\": b\n\"@type\": RequirementNode\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	store := loam.New(loam.ReadOnly())

	doc, err := store.Load(ctx, filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "b", doc["@id"])

	entries, err := store.List(ctx, dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(dir, "a.json"), entries[0].Path)
	assert.Equal(t, "StandardNode", entries[0].Document["@type"])
	assert.Equal(t, filepath.Join(dir, "b.yaml"), entries[1].Path)
}

func TestStore_Expand(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	nodes := filepath.Join(root, "nodes")
	require.NoError(t, os.MkdirAll(nodes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nodes, "x.json"), []byte(`{"@id":"x","@type":"T"}`), 0o644))
	single := filepath.Join(root, "single.json")
	require.NoError(t, os.WriteFile(single, []byte(`{"@id":"s","@type":"T"}`), 0o644))

	entries, err := loam.New(loam.ReadOnly()).Expand(ctx, []string{single, nodes})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "s", entries[0].Document["@id"])
	assert.Equal(t, "x", entries[1].Document["@id"])

	_, err = loam.New(loam.ReadOnly()).Expand(ctx, []string{filepath.Join(root, "absent.json")})
	assert.Error(t, err)
}

func TestStore_ReadOnlyRejectsSave(t *testing.T) {
	store := loam.New(loam.ReadOnly())
	err := store.SaveNode(context.Background(), filepath.Join(t.TempDir(), "n.json"), sampleNode(t))
	assert.ErrorContains(t, err, "read-only")
}

func TestStore_LoadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := loam.New(loam.ReadOnly())

	_, err := store.Load(ctx, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"@type":"T"}`), 0o644))
	_, err = store.LoadNode(ctx, filepath.Join(dir, "bad.json"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

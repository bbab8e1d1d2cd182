package bitwarden

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvinuesa/kaspwarden/internal/model"
)

func testRecords() []model.Record {
	return []model.Record{
		{Name: "Reminder", Kind: model.KindNote, Text: "Buy milk\nand eggs"},
		{Login: "nobody"},
		{Name: "ExampleSite", Kind: model.KindLogin, URL: "https://example.com", Login: "alice", Password: "s3cr3t"},
		{Name: "Skype", Kind: model.KindLogin, Login: "bob"},
	}
}

func TestGenerate(t *testing.T) {
	result, err := Generate(slices.Values(testRecords()), GeneratorOptions{Provider: newFixedProvider()})
	require.NoError(t, err)

	export := result.Export
	assert.False(t, export.Encrypted)
	assert.Equal(t, []Folder{}, export.Folders)
	assert.Equal(t, 1, result.Skipped)

	require.Len(t, export.Items, 3)
	assert.Equal(t, "Reminder", export.Items[0].Name)
	assert.Equal(t, "ExampleSite", export.Items[1].Name)
	assert.Equal(t, "Skype", export.Items[2].Name)

	assert.Equal(t, map[ItemType]int{ItemTypeLogin: 2, ItemTypeSecureNote: 1}, export.CountByType())
}

func TestGenerate_UniqueIDsAndDates(t *testing.T) {
	result, err := Generate(slices.Values(testRecords()), DefaultOptions())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, item := range result.Export.Items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		assert.Equal(t, item.CreationDate, item.RevisionDate)
		assert.Nil(t, item.DeletedDate)
	}
}

func TestGenerate_Empty(t *testing.T) {
	result, err := Generate(slices.Values([]model.Record(nil)), GeneratorOptions{})
	require.NoError(t, err)

	assert.NotNil(t, result.Export.Items)
	assert.Empty(t, result.Export.Items)
	assert.Zero(t, result.Skipped)
}

func TestGenerate_StructureIsRepeatable(t *testing.T) {
	first, err := Generate(slices.Values(testRecords()), DefaultOptions())
	require.NoError(t, err)
	second, err := Generate(slices.Values(testRecords()), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, second.Export.Items, len(first.Export.Items))
	for i := range first.Export.Items {
		a, b := first.Export.Items[i], second.Export.Items[i]
		a.ID, a.CreationDate, a.RevisionDate = "", "", ""
		b.ID, b.CreationDate, b.RevisionDate = "", "", ""
		assert.Equal(t, a, b)
	}
}

func TestExport_CountByType_Nil(t *testing.T) {
	var export *Export
	assert.Empty(t, export.CountByType())
}

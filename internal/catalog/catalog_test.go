package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-maturity/backend/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db)
}

func TestLoadDefault(t *testing.T) {
	svc := newTestService(t)
	n, err := svc.LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	aiTrust, err := svc.Find("", "ai_trust")
	require.NoError(t, err)
	assert.Len(t, aiTrust, 2)

	emergentTrust, err := svc.Find("emergents", "ai_trust")
	require.NoError(t, err)
	require.Len(t, emergentTrust, 1)
	assert.Equal(t, "GenAI ROI Measurement Framework", emergentTrust[0].Title)

	talent, err := svc.Find("", "talent")
	require.NoError(t, err)
	require.Len(t, talent, 1)
	assert.Nil(t, talent[0].TargetArchetype)
}

func TestFindRejectsUnknownFilters(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Find("pioneers", "")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = svc.Find("", "culture")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestLoadFromCSVSkipsInvalidRowsAndResetsCache(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadDefault()
	require.NoError(t, err)

	before, err := svc.Find("leaders", "")
	require.NoError(t, err)
	assert.Len(t, before, 1)

	path := filepath.Join(t.TempDir(), "resources.csv")
	content := "title,description,content_type,target_archetype,target_dimension,content_url\n" +
		"Scaling Playbook,How leaders scale,best_practice,leaders,adoption_scaling,\n" +
		"Bad Type,Nope,podcast,,,\n" +
		"Bad Archetype,Nope,insight,pioneers,,\n" +
		"Leader Insight,Another,insight,Leaders,,https://example.test/x\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := svc.LoadFromCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := svc.Find("leaders", "")
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Nil(t, after[0].ContentURL)
	require.NotNil(t, after[1].ContentURL)
	assert.Equal(t, "https://example.test/x", *after[1].ContentURL)
}

func TestLoadFromCSVMissingFile(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadFromCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestCountSurfacesStorageError(t *testing.T) {
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"), true)
	require.NoError(t, err)
	svc := NewService(db)
	require.NoError(t, db.Close())

	_, err = svc.Count()
	assert.ErrorContains(t, err, "count resources")
}

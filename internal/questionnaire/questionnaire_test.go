package questionnaire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
)

func TestDefaultCoversEveryDimension(t *testing.T) {
	questions, err := Default()
	require.NoError(t, err)
	assert.Len(t, questions, 21)

	perDimension := make(map[string]int)
	for _, q := range questions {
		perDimension[q.Dimension]++
	}
	for _, d := range scoring.Dimensions {
		assert.Equal(t, 3, perDimension[string(d)], "dimension %s", d)
	}
	assert.Equal(t, "strategy", questions[0].Dimension)
	assert.Equal(t, 1, questions[0].QuestionOrder)
}

func TestParseRejectsUnknownDimension(t *testing.T) {
	_, err := Parse([]byte("dimensions:\n  culture:\n    - Do you like it?\n"))
	require.Error(t, err)
}

func TestParseSkipsBlankEntries(t *testing.T) {
	questions, err := Parse([]byte("dimensions:\n  data:\n    - ' '\n    - Catalogued?\n"))
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].QuestionOrder)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "q.db"), true)
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dimensions:\n  talent:\n    - One\n    - Two\n"), 0o644))

	n, err := Seed(db, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = Seed(db, path)
	require.NoError(t, err)

	count, err := db.CountQuestions()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

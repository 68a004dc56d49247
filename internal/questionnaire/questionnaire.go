package questionnaire

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
)

//go:embed default.yaml
var defaultQuestionnaire []byte

type document struct {
	Dimensions map[string][]string `yaml:"dimensions"`
}

// Default returns the built-in question bank.
func Default() ([]store.Question, error) {
	return Parse(defaultQuestionnaire)
}

// Load reads a question bank from a YAML file.
func Load(path string) ([]store.Question, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read questionnaire: %w", err)
	}
	return Parse(data)
}

// Parse decodes the questionnaire document. Question order follows the order of each
// dimension's list, starting at 1.
func Parse(data []byte) ([]store.Question, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal questionnaire: %w", err)
	}
	if len(doc.Dimensions) == 0 {
		return nil, fmt.Errorf("questionnaire has no dimensions")
	}
	byDimension := make(map[scoring.Dimension][]string, len(doc.Dimensions))
	for name, texts := range doc.Dimensions {
		dim, err := scoring.ParseDimension(name)
		if err != nil {
			return nil, err
		}
		byDimension[dim] = append(byDimension[dim], texts...)
	}

	var questions []store.Question
	for _, dim := range scoring.Dimensions {
		texts := byDimension[dim]
		order := 0
		for _, text := range texts {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			order++
			questions = append(questions, store.Question{
				Dimension:     string(dim),
				QuestionText:  text,
				QuestionOrder: order,
			})
		}
	}
	return questions, nil
}

// Seed loads the question bank at path (or the built-in one when path is empty) into db.
func Seed(db *store.Database, path string) (int, error) {
	var (
		questions []store.Question
		err       error
	)
	if strings.TrimSpace(path) == "" {
		questions, err = Default()
	} else {
		questions, err = Load(path)
	}
	if err != nil {
		return 0, err
	}
	if err := db.UpsertQuestions(questions); err != nil {
		return 0, fmt.Errorf("store questions: %w", err)
	}
	return len(questions), nil
}

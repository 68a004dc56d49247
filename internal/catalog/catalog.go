package catalog

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
)

//go:embed default_resources.csv
var defaultResources []byte

// Content types accepted in the resource catalog.
const (
	ContentCaseStudy    = "case_study"
	ContentBestPractice = "best_practice"
	ContentInsight      = "insight"
	ContentFramework    = "framework"
)

// ErrInvalidFilter is returned when a lookup names an unknown archetype or dimension.
var ErrInvalidFilter = errors.New("invalid resource filter")

// Service manages resource catalog persistence and lookup.
type Service struct {
	db      *store.Database
	cache   map[string][]store.Resource
	cacheMu sync.RWMutex
}

func NewService(db *store.Database) *Service {
	return &Service{
		db:    db,
		cache: make(map[string][]store.Resource),
	}
}

// LoadDefault replaces the catalog with the built-in resource list.
func (s *Service) LoadDefault() (int, error) {
	return s.load(bytes.NewReader(defaultResources))
}

// LoadFromCSV ingests the provided CSV and replaces the stored catalog.
func (s *Service) LoadFromCSV(path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fmt.Errorf("resource catalog path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open resource catalog: %w", err)
	}
	defer file.Close()
	return s.load(bufio.NewReader(file))
}

func (s *Service) load(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var resources []store.Resource
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read resource row: %w", err)
		}
		line++
		if len(row) == 0 || (line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "title")) {
			continue
		}
		resource, err := parseRow(row)
		if err != nil {
			logrus.WithError(err).WithField("line", line).Warn("skip resource row")
			continue
		}
		resources = append(resources, resource)
	}

	if err := s.db.ReplaceResources(resources); err != nil {
		return 0, err
	}

	s.cacheMu.Lock()
	s.cache = make(map[string][]store.Resource)
	s.cacheMu.Unlock()

	return len(resources), nil
}

func parseRow(row []string) (store.Resource, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	res := store.Resource{
		Title:       field(0),
		Description: field(1),
		ContentType: strings.ToLower(field(2)),
	}
	if res.Title == "" || res.Description == "" {
		return store.Resource{}, errors.New("title and description are required")
	}
	if !ValidContentType(res.ContentType) {
		return store.Resource{}, fmt.Errorf("unknown content type %q", res.ContentType)
	}
	if value := field(3); value != "" {
		archetype, err := scoring.ParseArchetype(value)
		if err != nil {
			return store.Resource{}, err
		}
		target := string(archetype)
		res.TargetArchetype = &target
	}
	if value := field(4); value != "" {
		dimension, err := scoring.ParseDimension(value)
		if err != nil {
			return store.Resource{}, err
		}
		target := string(dimension)
		res.TargetDimension = &target
	}
	if value := field(5); value != "" {
		res.ContentURL = &value
	}
	return res, nil
}

// ValidContentType reports whether value is an accepted content type.
func ValidContentType(value string) bool {
	switch value {
	case ContentCaseStudy, ContentBestPractice, ContentInsight, ContentFramework:
		return true
	default:
		return false
	}
}

// Count returns the number of stored catalog entries.
func (s *Service) Count() (int, error) {
	if s == nil {
		return 0, nil
	}
	count, err := s.db.CountResources()
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return int(count), nil
}

// Find returns resources matching the optional archetype and dimension filters.
func (s *Service) Find(archetype, dimension string) ([]store.Resource, error) {
	var query store.ResourceQuery
	if strings.TrimSpace(archetype) != "" {
		parsed, err := scoring.ParseArchetype(archetype)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		query.Archetype = string(parsed)
	}
	if strings.TrimSpace(dimension) != "" {
		parsed, err := scoring.ParseDimension(dimension)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		query.Dimension = string(parsed)
	}

	key := query.Archetype + "|" + query.Dimension
	if cached, ok := s.lookupCache(key); ok {
		return cached, nil
	}
	rows, err := s.db.ListResources(query)
	if err != nil {
		return nil, err
	}
	s.storeCache(key, rows)
	return rows, nil
}

func (s *Service) lookupCache(key string) ([]store.Resource, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	rows, ok := s.cache[key]
	return rows, ok
}

func (s *Service) storeCache(key string, rows []store.Resource) {
	s.cacheMu.Lock()
	s.cache[key] = rows
	s.cacheMu.Unlock()
}

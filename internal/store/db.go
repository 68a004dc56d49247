package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"genai-maturity/backend/internal/scoring"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   *sync.Mutex
	inTx bool
}

// Open initializes the database for the given driver. For SQLite the DSN is a file path.
func Open(driver, dsn string, silent bool) (*Database, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := OpenDialector(dialector, silent)
	if err != nil {
		return nil, err
	}
	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDialector wraps an already configured dialector without migrating.
func OpenDialector(dialector gorm.Dialector, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Database{gorm: db, mu: &sync.Mutex{}}, nil
}

func (d *Database) migrate() error {
	if err := d.gorm.AutoMigrate(&Question{}, &Assessment{}, &Response{}, &Recommendation{}, &BusinessQuery{}, &Resource{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if d.gorm.Dialector.Name() == DriverSQLite {
		if err := d.gorm.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			logrus.WithError(err).Warn("enable WAL mode")
		}
		if err := d.gorm.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
			logrus.WithError(err).Warn("set synchronous pragma")
		}
	}
	if err := applyIndexes(d.gorm); err != nil {
		return fmt.Errorf("apply indexes: %w", err)
	}
	return nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithContext returns a handle whose queries are bound to ctx.
func (d *Database) WithContext(ctx context.Context) *Database {
	return &Database{gorm: d.gorm.WithContext(ctx), mu: d.mu, inTx: d.inTx}
}

// Transaction runs fn inside a single transaction. Any error rolls back every write made through tx.
func (d *Database) Transaction(fn func(tx *Database) error) error {
	unlock := d.lock()
	defer unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		return fn(&Database{gorm: tx, mu: d.mu, inTx: true})
	})
}

// writes are serialized; inside a transaction the lock is already held
func (d *Database) lock() func() {
	if d.inTx {
		return func() {}
	}
	d.mu.Lock()
	return d.mu.Unlock
}

// CreateAssessment inserts a new assessment row.
func (d *Database) CreateAssessment(a *Assessment) error {
	if a == nil {
		return errors.New("assessment is nil")
	}
	unlock := d.lock()
	defer unlock()
	return d.gorm.Create(a).Error
}

// GetAssessment retrieves an assessment by ID.
func (d *Database) GetAssessment(id uint) (*Assessment, error) {
	var a Assessment
	if err := d.gorm.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAssessmentScores writes the score columns and archetype of a in one statement.
func (d *Database) SaveAssessmentScores(a *Assessment) error {
	if a == nil {
		return errors.New("assessment is nil")
	}
	unlock := d.lock()
	defer unlock()
	a.UpdatedAt = time.Now()
	res := d.gorm.Model(&Assessment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"overall_maturity_score": a.OverallMaturityScore,
			"strategy_score":         a.StrategyScore,
			"talent_score":           a.TalentScore,
			"operating_model_score":  a.OperatingModelScore,
			"technology_score":       a.TechnologyScore,
			"data_score":             a.DataScore,
			"adoption_scaling_score": a.AdoptionScalingScore,
			"ai_trust_score":         a.AITrustScore,
			"archetype":              a.Archetype,
			"updated_at":             a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountQuestions returns the size of the question bank.
func (d *Database) CountQuestions() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Question{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListQuestions returns the question bank ordered by dimension declaration order, then question order.
func (d *Database) ListQuestions() ([]Question, error) {
	var questions []Question
	if err := d.gorm.Order("question_order ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	sortQuestions(questions)
	return questions, nil
}

// QuestionsByID loads the requested questions keyed by ID. Missing IDs are absent from the map.
func (d *Database) QuestionsByID(ids []uint) (map[uint]Question, error) {
	result := make(map[uint]Question, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []Question
	if err := d.gorm.Where("id IN ?", uniqueIDs(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, q := range rows {
		result[q.ID] = q
	}
	return result, nil
}

// UpsertQuestions inserts questions or refreshes the text of existing (dimension, order) pairs.
func (d *Database) UpsertQuestions(questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	unlock := d.lock()
	defer unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dimension"}, {Name: "question_order"}},
		DoUpdates: clause.AssignmentColumns([]string{"question_text"}),
	}).Create(&questions).Error
}

// InsertResponses appends response rows.
func (d *Database) InsertResponses(responses []Response) error {
	if len(responses) == 0 {
		return nil
	}
	unlock := d.lock()
	defer unlock()
	return d.gorm.CreateInBatches(responses, 250).Error
}

// ListResponses returns every response stored for an assessment in insertion order.
func (d *Database) ListResponses(assessmentID uint) ([]Response, error) {
	var rows []Response
	if err := d.gorm.Where("assessment_id = ?", assessmentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ScoredResponses joins stored responses with their question dimension.
func (d *Database) ScoredResponses(assessmentID uint) ([]scoring.Response, error) {
	var rows []struct {
		Dimension     string
		ResponseValue int
	}
	err := d.gorm.Table("assessment_responses AS r").
		Select("q.dimension AS dimension, r.response_value AS response_value").
		Joins("JOIN assessment_questions q ON q.id = r.question_id").
		Where("r.assessment_id = ?", assessmentID).
		Order("r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Response{Dimension: scoring.Dimension(row.Dimension), Value: row.ResponseValue})
	}
	return out, nil
}

// InsertRecommendations appends recommendation rows, preserving slice order in their IDs.
func (d *Database) InsertRecommendations(recs []Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	unlock := d.lock()
	defer unlock()
	return d.gorm.Create(&recs).Error
}

// ListRecommendations returns the recommendations for an assessment in insertion order.
func (d *Database) ListRecommendations(assessmentID uint) ([]Recommendation, error) {
	var rows []Recommendation
	if err := d.gorm.Where("assessment_id = ?", assessmentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateBusinessQuery inserts a business query row.
func (d *Database) CreateBusinessQuery(q *BusinessQuery) error {
	if q == nil {
		return errors.New("business query is nil")
	}
	unlock := d.lock()
	defer unlock()
	return d.gorm.Create(q).Error
}

// ListBusinessQueries returns the business queries for an assessment in insertion order.
func (d *Database) ListBusinessQueries(assessmentID uint) ([]BusinessQuery, error) {
	var rows []BusinessQuery
	if err := d.gorm.Where("assessment_id = ?", assessmentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceResources swaps the resource catalog with the provided slice.
func (d *Database) ReplaceResources(resources []Resource) error {
	unlock := d.lock()
	defer unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Resource{}).Error; err != nil {
			return err
		}
		if len(resources) == 0 {
			return nil
		}
		return tx.CreateInBatches(resources, 250).Error
	})
}

// CountResources returns the number of catalog entries.
func (d *Database) CountResources() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Resource{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ResourceQuery filters the resource catalog. Empty fields are ignored.
type ResourceQuery struct {
	Archetype string
	Dimension string
}

// ListResources returns catalog entries matching every supplied filter.
func (d *Database) ListResources(opts ResourceQuery) ([]Resource, error) {
	query := d.gorm.Model(&Resource{})
	if opts.Archetype != "" {
		query = query.Where("target_archetype = ?", opts.Archetype)
	}
	if opts.Dimension != "" {
		query = query.Where("target_dimension = ?", opts.Dimension)
	}
	var rows []Resource
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func sortQuestions(questions []Question) {
	rank := func(q Question) int {
		if idx := scoring.Dimension(q.Dimension).Index(); idx >= 0 {
			return idx
		}
		return len(scoring.Dimensions)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return rank(questions[i]) < rank(questions[j])
	})
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_assessment_responses_assessment_question ON assessment_responses(assessment_id, question_id)",
		"CREATE INDEX IF NOT EXISTS idx_recommendations_assessment_category ON recommendations(assessment_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_resources_archetype_dimension ON resources(target_archetype, target_dimension)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

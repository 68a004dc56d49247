package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"genai-maturity/backend/internal/ai"
	"genai-maturity/backend/internal/assessment"
	"genai-maturity/backend/internal/catalog"
	"genai-maturity/backend/internal/questionnaire"
	"genai-maturity/backend/internal/scoring"
	"genai-maturity/backend/internal/store"
)

const requestIDHeader = "X-Request-ID"

// Config defines server dependencies.
type Config struct {
	DBDriver       string
	DBDSN          string
	SilentDB       bool
	AllowedOrigins []string
	SeedOnStart    bool
	QuestionsPath  string
	ResourcesPath  string
	AIConfig       ai.Config
	DisableAI      bool
}

// Server wires HTTP handlers with persistence and scoring.
type Server struct {
	db             *store.Database
	service        *assessment.Service
	catalog        *catalog.Service
	summarizer     ai.Summarizer
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, errors.New("database dsn required")
	}
	driver := cfg.DBDriver
	if driver == "" {
		driver = store.DriverSQLite
	}
	db, err := store.Open(driver, cfg.DBDSN, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	resources := catalog.NewService(db)
	if cfg.SeedOnStart {
		if err := seedReferenceData(db, resources, cfg.QuestionsPath, cfg.ResourcesPath); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	var summarizer ai.Summarizer
	if cfg.DisableAI {
		logrus.Info("AI summaries disabled via configuration")
	} else if client, err := ai.NewClient(cfg.AIConfig); err == nil {
		summarizer = client
		logrus.WithField("model", cfg.AIConfig.Model).Info("AI summaries enabled")
	} else if errors.Is(err, ai.ErrDisabled) {
		logrus.Info("AI summaries disabled - no API key configured, using template narratives")
	} else {
		_ = db.Close()
		return nil, fmt.Errorf("ai client: %w", err)
	}

	return &Server{
		db:             db,
		service:        assessment.NewService(db, resources, summarizer),
		catalog:        resources,
		summarizer:     summarizer,
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Close releases the database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

func seedReferenceData(db *store.Database, resources *catalog.Service, questionsPath, resourcesPath string) error {
	count, err := questionnaire.Seed(db, questionsPath)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	logrus.WithField("questions", count).Info("questionnaire seeded")

	existing, err := db.CountResources()
	if err != nil {
		return fmt.Errorf("count resources: %w", err)
	}
	var loaded int
	switch {
	case strings.TrimSpace(resourcesPath) != "":
		loaded, err = resources.LoadFromCSV(resourcesPath)
	case existing == 0:
		loaded, err = resources.LoadDefault()
	default:
		logrus.WithField("resources", existing).Info("resource catalog already populated")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed resources: %w", err)
	}
	logrus.WithField("resources", loaded).Info("resource catalog seeded")
	return nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()
	r.Use(requestID())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/config", s.handleConfig)
		api.GET("/questions", s.handleListQuestions)
		api.POST("/assessments", s.handleCreateAssessment)
		api.GET("/assessments/:id", s.handleGetAssessment)
		api.POST("/assessments/:id/responses", s.handleSubmitResponses)
		api.POST("/assessments/:id/recommendations", s.handleGenerateRecommendations)
		api.GET("/assessments/:id/results", s.handleResults)
		api.GET("/assessments/:id/summary", s.handleSummary)
		api.POST("/business-queries", s.handleCreateBusinessQuery)
		api.GET("/resources", s.handleResources)
	}

	return r, nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}

func (s *Server) handleConfig(c *gin.Context) {
	questions, err := s.db.WithContext(c.Request.Context()).CountQuestions()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	resources, err := s.catalog.Count()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dimensions":         scoring.Dimensions,
		"archetypes":         scoring.Archetypes,
		"questions":          questions,
		"resources":          resources,
		"ai_summary_enabled": s.summarizer != nil && s.summarizer.Enabled(),
	})
}

func (s *Server) handleListQuestions(c *gin.Context) {
	questions, err := s.service.ListQuestions(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuestionsFromModel(questions))
}

func (s *Server) handleCreateAssessment(c *gin.Context) {
	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	record, err := s.service.CreateAssessment(c.Request.Context(), assessment.NewAssessment{
		GCCName:                      req.GCCName,
		ContactEmail:                 req.ContactEmail,
		AnnualProductivityUpliftment: *req.AnnualProductivityUpliftment,
		AttritionRate:                *req.AttritionRate,
		GenAIUseCasesDeveloped:       *req.GenAIUseCasesDeveloped,
	})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AssessmentFromModel(*record))
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	record, err := s.service.GetAssessment(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, AssessmentFromModel(*record))
}

func (s *Server) handleSubmitResponses(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	var req SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	inputs := make([]assessment.ResponseInput, 0, len(req.Responses))
	for _, item := range req.Responses {
		inputs = append(inputs, assessment.ResponseInput{QuestionID: item.QuestionID, Value: item.ResponseValue})
	}
	record, err := s.service.SubmitResponses(c.Request.Context(), id, inputs)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, AssessmentFromModel(*record))
}

func (s *Server) handleGenerateRecommendations(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	recs, err := s.service.GenerateRecommendations(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RecommendationsFromModel(recs))
}

func (s *Server) handleResults(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	results, err := s.service.GetResults(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ResultsFromModel(results))
}

func (s *Server) handleSummary(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	summary, err := s.service.Summary(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryFromModel(id, summary))
}

func (s *Server) handleCreateBusinessQuery(c *gin.Context) {
	var req CreateBusinessQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	query, err := s.service.CreateBusinessQuery(c.Request.Context(), assessment.NewBusinessQuery{
		AssessmentID:   req.AssessmentID,
		QueryText:      req.QueryText,
		TargetFunction: req.TargetFunction,
	})
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, BusinessQueryFromModel(*query))
}

func (s *Server) handleResources(c *gin.Context) {
	rows, err := s.service.Resources(c.Query("archetype"), c.Query("dimension"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ResourcesFromModel(rows))
}

func (s *Server) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrNotFound):
		s.renderError(c, http.StatusNotFound, err)
	case errors.Is(err, assessment.ErrInvalidInput), errors.Is(err, scoring.ErrInvalidResponseValue):
		s.renderError(c, http.StatusBadRequest, err)
	default:
		s.renderError(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}

package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/fields"
	"resume-analyzer/internal/pitch"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
	"resume-analyzer/internal/skills"
	"resume-analyzer/internal/taxonomy"
)

// DefaultUserID owns analyses submitted without a user.
const DefaultUserID = "anonymous"

// Service runs the extraction pipeline and persists its results.
type Service struct {
	Repo         Repo
	Store        object.ObjectStore
	Taxonomy     *taxonomy.Taxonomy
	Fields       *fields.Extractor
	Detector     skills.Detector
	Generator    *recommendations.Generator
	Pitch        *pitch.Service
	DefaultCount int

	now func() time.Time
}

// NewService wires the pipeline with the embedded taxonomy and catalog.
// store and pitchSvc may be nil.
func NewService(repo Repo, store object.ObjectStore, gen *recommendations.Generator, pitchSvc *pitch.Service) *Service {
	if gen == nil {
		gen = recommendations.NewGenerator(nil, nil)
	}
	return &Service{
		Repo:         repo,
		Store:        store,
		Taxonomy:     taxonomy.Default(),
		Fields:       fields.NewExtractor(),
		Detector:     skills.SubstringDetector{},
		Generator:    gen,
		Pitch:        pitchSvc,
		DefaultCount: recommendations.DefaultCount,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Analyze extracts fields, skills, track, level, recommendations and pitch
// from text and stores the result. Only persistence failures are returned.
func (s *Service) Analyze(ctx context.Context, in Input) (Analysis, error) {
	metrics.IncAnalysisStarted()
	start := time.Now()

	analysis := s.Build(ctx, in)
	if err := s.Repo.Create(ctx, analysis); err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.persist_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": analysis.ID,
			"user_id":     analysis.UserID,
			"err":         err.Error(),
		})
		return Analysis{}, fmt.Errorf("persist analysis id=%s: %w", analysis.ID, err)
	}

	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.IncAnalysisTrack(string(analysis.Classification.Track))
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"analysis_id": analysis.ID,
		"user_id":     analysis.UserID,
		"track":       analysis.Classification.Track,
		"level":       analysis.Classification.Level,
		"skills":      len(analysis.Record.Skills),
		"pages":       analysis.Record.PageCount,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return analysis, nil
}

// Build runs the pipeline without persisting anything.
func (s *Service) Build(ctx context.Context, in Input) Analysis {
	tax := s.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	extractor := s.Fields
	if extractor == nil {
		extractor = fields.NewExtractor()
	}
	detector := s.Detector
	if detector == nil {
		detector = skills.SubstringDetector{}
	}
	gen := s.Generator
	if gen == nil {
		gen = recommendations.NewGenerator(nil, nil)
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = DefaultUserID
	}
	pages := in.PageCount
	if pages < 1 {
		pages = 1
	}
	count := in.ResourceCount
	if count == 0 {
		count = s.DefaultCount
	}

	contact := extractor.Extract(in.Text, in.FileName)
	found := detector.Detect(in.Text, tax)
	classification := skills.ClassifyText(in.Text, found, tax)
	bundle := gen.Bundle(classification.Track, classification.RecommendedSkills, count)

	return Analysis{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   in.FileName,
		StorageKey: in.StorageKey,
		Record: Record{
			Name:      contact.Name,
			Email:     contact.Email,
			Phone:     contact.Phone,
			PageCount: pages,
			Skills:    found,
		},
		Classification:  classification,
		Recommendations: bundle,
		Pitch:           s.Pitch.Pitch(ctx, in.Text),
		CreatedAt:       s.clock(),
	}
}

// AnalyzeDocument keeps the upload in the object store, extracts its text and
// runs Analyze. Unsupported formats wrap extract.ErrUnsupported; documents
// that cannot be parsed wrap ErrUnreadable.
func (s *Service) AnalyzeDocument(ctx context.Context, userID, fileName, mimeType string, r io.Reader, count int) (Analysis, error) {
	if strings.TrimSpace(fileName) == "" {
		return Analysis{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(userID) == "" {
		userID = DefaultUserID
	}

	var (
		doc        extract.Document
		storageKey string
		err        error
	)
	if s.Store != nil {
		var sniffed string
		storageKey, _, sniffed, err = s.Store.Save(ctx, userID, fileName, r)
		if err != nil {
			if errors.Is(err, util.ErrInvalidFileName) {
				return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return Analysis{}, fmt.Errorf("store upload: %w", err)
		}
		if strings.TrimSpace(mimeType) == "" {
			mimeType = sniffed
		}
		doc, err = extract.FromStore(ctx, s.Store, storageKey, mimeType, fileName)
	} else {
		var raw []byte
		raw, err = io.ReadAll(r)
		if err != nil {
			return Analysis{}, fmt.Errorf("read upload: %w", err)
		}
		doc, err = extract.FromBytes(ctx, raw, mimeType, fileName)
	}
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Analysis{}, err
		}
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	return s.Analyze(ctx, Input{
		UserID:        userID,
		FileName:      fileName,
		Text:          doc.Text,
		PageCount:     doc.PageCount,
		ResourceCount: count,
		StorageKey:    storageKey,
	})
}

// AnalyzeBytes is AnalyzeDocument for an in-memory payload.
func (s *Service) AnalyzeBytes(ctx context.Context, userID, fileName, mimeType string, data []byte, count int) (Analysis, error) {
	return s.AnalyzeDocument(ctx, userID, fileName, mimeType, bytes.NewReader(data), count)
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if _, err := uuid.Parse(analysisID); err != nil {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now()
}

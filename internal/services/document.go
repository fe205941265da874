package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/draftwell/grantdocs/internal/apierr"
	"github.com/draftwell/grantdocs/internal/docgen"
	"github.com/draftwell/grantdocs/internal/gdocs"
	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/repos"
	"github.com/draftwell/grantdocs/internal/templates"
	"github.com/draftwell/grantdocs/internal/types"
)

type BuildRequest struct {
	Program  string            `json:"program"`
	DocType  string            `json:"docType"`
	Title    string            `json:"title"`
	FolderID string            `json:"folderId"`
	Data     map[string]string `json:"data"`
}

type BuildResult struct {
	BuildID    uuid.UUID `json:"buildId"`
	DocumentID string    `json:"documentId"`
	URL        string    `json:"url"`
}

type DocumentService interface {
	// Build runs the whole pipeline synchronously.
	Build(ctx context.Context, req BuildRequest) (*BuildResult, error)
	// StartBuild validates the request and records a pending build without
	// touching the remote service.
	StartBuild(ctx context.Context, req BuildRequest) (*types.DocumentBuild, error)
	// RunBuild executes a previously recorded build.
	RunBuild(ctx context.Context, buildID uuid.UUID) (*BuildResult, error)
	// Resume re-runs only the part of a failed build that comes after the
	// already-applied content: cell population and/or the folder move.
	Resume(ctx context.Context, buildID uuid.UUID) (*BuildResult, error)
	GetBuild(ctx context.Context, buildID uuid.UUID) (*types.DocumentBuild, error)
}

var buildTracer = otel.Tracer("github.com/draftwell/grantdocs/internal/services")

type documentService struct {
	db        *gorm.DB
	log       *logger.Logger
	registry  *templates.Registry
	docs      gdocs.Service
	buildRepo repos.DocumentBuildRepo
	styles    docgen.StyleConfig
}

func NewDocumentService(db *gorm.DB, baseLog *logger.Logger, registry *templates.Registry, docsService gdocs.Service, buildRepo repos.DocumentBuildRepo, styles docgen.StyleConfig) DocumentService {
	serviceLog := baseLog.With("service", "DocumentService")
	return &documentService{
		db:        db,
		log:       serviceLog,
		registry:  registry,
		docs:      docsService,
		buildRepo: buildRepo,
		styles:    styles,
	}
}

func (s *documentService) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	build, err := s.StartBuild(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, build)
}

func (s *documentService) StartBuild(ctx context.Context, req BuildRequest) (*types.DocumentBuild, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apierr.WithPhase(apierr.PhasePlan, apierr.Validation(errors.New("title is required")))
	}
	if req.Program == "" || req.DocType == "" {
		return nil, apierr.WithPhase(apierr.PhasePlan, apierr.Validation(errors.New("program and docType are required")))
	}
	// Fail fast on an unknown template pair before any remote side effects.
	if _, err := s.registry.Get(req.Program, req.DocType); err != nil {
		return nil, apierr.WithPhase(apierr.PhasePlan, err)
	}

	build := &types.DocumentBuild{
		ID:       uuid.New(),
		Program:  req.Program,
		DocType:  req.DocType,
		Title:    strings.TrimSpace(req.Title),
		FolderID: req.FolderID,
		Status:   types.BuildPending,
		Data:     types.JSONData(req.Data),
	}
	if err := s.buildRepo.Create(ctx, nil, build); err != nil {
		return nil, fmt.Errorf("record build: %w", err)
	}
	return build, nil
}

func (s *documentService) RunBuild(ctx context.Context, buildID uuid.UUID) (*BuildResult, error) {
	build, err := s.loadBuild(ctx, buildID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, build)
}

func (s *documentService) GetBuild(ctx context.Context, buildID uuid.UUID) (*types.DocumentBuild, error) {
	return s.loadBuild(ctx, buildID)
}

func (s *documentService) loadBuild(ctx context.Context, buildID uuid.UUID) (*types.DocumentBuild, error) {
	build, err := s.buildRepo.GetByID(ctx, nil, buildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("build %s not found", buildID))
		}
		return nil, fmt.Errorf("load build %s: %w", buildID, err)
	}
	return build, nil
}

func (s *documentService) run(ctx context.Context, build *types.DocumentBuild) (*BuildResult, error) {
	build.Status = types.BuildRunning
	build.Error = ""
	if err := s.buildRepo.Update(ctx, nil, build); err != nil {
		return nil, fmt.Errorf("mark build running: %w", err)
	}
	result, err := s.execute(ctx, build, false)
	return s.finish(ctx, build, result, err)
}

func (s *documentService) Resume(ctx context.Context, buildID uuid.UUID) (*BuildResult, error) {
	build, err := s.loadBuild(ctx, buildID)
	if err != nil {
		return nil, err
	}
	if build.Status != types.BuildFailed {
		return nil, apierr.Validation(fmt.Errorf("build %s is %s, only failed builds can be resumed", buildID, build.Status))
	}
	if build.DocumentID == "" {
		return nil, apierr.Validation(fmt.Errorf("build %s failed before a document was created, rebuild instead", buildID))
	}
	switch build.Phase {
	case apierr.PhaseSnapshot, apierr.PhasePopulate, apierr.PhaseMove:
	default:
		return nil, apierr.Validation(fmt.Errorf("build %s failed during %q, its content batch may be incomplete; rebuild instead", buildID, build.Phase))
	}

	build.Status = types.BuildRunning
	build.Error = ""
	if err := s.buildRepo.Update(ctx, nil, build); err != nil {
		return nil, fmt.Errorf("mark build running: %w", err)
	}
	result, err := s.execute(ctx, build, true)
	return s.finish(ctx, build, result, err)
}

func (s *documentService) finish(ctx context.Context, build *types.DocumentBuild, result *BuildResult, err error) (*BuildResult, error) {
	if err != nil {
		ae := apierr.From(err)
		build.Status = types.BuildFailed
		build.Phase = ae.Phase
		build.Error = ae.Error()
		if updateErr := s.buildRepo.Update(ctx, nil, build); updateErr != nil {
			s.log.Error("Failed to record build failure", "build_id", build.ID, "error", updateErr)
		}
		s.log.Error("Build failed", "build_id", build.ID, "phase", ae.Phase, "error", err)
		return nil, err
	}
	build.Status = types.BuildComplete
	build.Phase = ""
	build.DocumentID = result.DocumentID
	build.URL = result.URL
	if updateErr := s.buildRepo.Update(ctx, nil, build); updateErr != nil {
		s.log.Error("Failed to record build completion", "build_id", build.ID, "error", updateErr)
	}
	s.log.Info("Build complete", "build_id", build.ID, "document_id", result.DocumentID)
	return result, nil
}

// phaseSpan runs one remote build phase inside a trace span named after the
// phase, recording the build id and any failure on the span.
func (s *documentService) phaseSpan(ctx context.Context, phase string, buildID uuid.UUID, fn func(context.Context) error) error {
	ctx, span := buildTracer.Start(ctx, "build."+phase,
		trace.WithAttributes(attribute.String("build.id", buildID.String())))
	defer span.End()
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	return err
}

// execute runs the build phases in their required order: header and content
// ops in one batch, then the global style pass, then (when tables exist)
// the snapshot round trip and the cell population batch, then the folder
// move. On resume the content phases are skipped; re-populating is safe
// because phase 2 only writes into cells that are still empty.
func (s *documentService) execute(ctx context.Context, build *types.DocumentBuild, resume bool) (*BuildResult, error) {
	tpl, err := s.registry.Get(build.Program, build.DocType)
	if err != nil {
		return nil, apierr.WithPhase(apierr.PhasePlan, err)
	}
	data := tpl.MergeData(build.DataMap())

	// Rendering is a pure function of (template, data), so a resume replans
	// and recovers the same table specs the original pass produced.
	planner := docgen.NewPlanner(s.styles, 1, data)
	planner.PlanHeader(build.Title)
	planner.PlanSections(tpl.Sections)
	plan := planner.Plan()

	docID := build.DocumentID
	if !resume {
		err = s.phaseSpan(ctx, apierr.PhaseCreate, build.ID, func(ctx context.Context) error {
			var createErr error
			docID, createErr = s.docs.Create(ctx, build.Title)
			return createErr
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhaseCreate, err)
		}
		build.DocumentID = docID
		if err := s.buildRepo.Update(ctx, nil, build); err != nil {
			s.log.Warn("Failed to record document id", "build_id", build.ID, "error", err)
		}
		err = s.phaseSpan(ctx, apierr.PhaseContent, build.ID, func(ctx context.Context) error {
			return s.docs.BatchMutate(ctx, docID, plan.Ops)
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhaseContent, err)
		}
		err = s.phaseSpan(ctx, apierr.PhaseStyle, build.ID, func(ctx context.Context) error {
			return s.docs.BatchMutate(ctx, docID, docgen.GlobalStyleOps(s.styles, plan.End))
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhaseStyle, err)
		}
	}

	populate := len(plan.Tables) > 0 && (!resume || build.Phase == apierr.PhaseSnapshot || build.Phase == apierr.PhasePopulate)
	if populate {
		var shape *gdocs.Shape
		err = s.phaseSpan(ctx, apierr.PhaseSnapshot, build.ID, func(ctx context.Context) error {
			var snapErr error
			shape, snapErr = s.docs.Structure(ctx, docID)
			return snapErr
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhaseSnapshot, err)
		}
		cellOps, err := docgen.PlanTableCells(plan.Tables, shape.Tables, data)
		if err != nil {
			var mismatch *docgen.StructuralMismatchError
			if errors.As(err, &mismatch) {
				return nil, apierr.WithPhase(apierr.PhasePopulate, apierr.StructuralMismatch(err))
			}
			return nil, apierr.WithPhase(apierr.PhasePopulate, err)
		}
		err = s.phaseSpan(ctx, apierr.PhasePopulate, build.ID, func(ctx context.Context) error {
			return s.docs.BatchMutate(ctx, docID, cellOps)
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhasePopulate, err)
		}
	}

	if build.FolderID != "" {
		err = s.phaseSpan(ctx, apierr.PhaseMove, build.ID, func(ctx context.Context) error {
			return s.docs.Move(ctx, docID, build.FolderID)
		})
		if err != nil {
			return nil, apierr.WithPhase(apierr.PhaseMove, err)
		}
	}

	return &BuildResult{
		BuildID:    build.ID,
		DocumentID: docID,
		URL:        s.docs.Link(docID),
	}, nil
}

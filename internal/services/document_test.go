package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/draftwell/grantdocs/internal/apierr"
	"github.com/draftwell/grantdocs/internal/docgen"
	"github.com/draftwell/grantdocs/internal/gdocs"
	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/repos"
	"github.com/draftwell/grantdocs/internal/templates"
	"github.com/draftwell/grantdocs/internal/types"
)

type fakeDocs struct {
	mu      sync.Mutex
	calls   []string
	batches [][]docgen.Op
	shape   *gdocs.Shape

	createErr    error
	structureErr error
	moveErr      error
	batchErrAt   int // 1-based batch call that should fail, 0 = never
	batchErr     error
}

func (f *fakeDocs) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDocs) Create(ctx context.Context, title string) (string, error) {
	f.record("create")
	if f.createErr != nil {
		return "", f.createErr
	}
	return "doc-1", nil
}

func (f *fakeDocs) BatchMutate(ctx context.Context, docID string, ops []docgen.Op) error {
	f.record("batch")
	f.mu.Lock()
	f.batches = append(f.batches, ops)
	n := len(f.batches)
	f.mu.Unlock()
	if f.batchErrAt != 0 && n == f.batchErrAt {
		return f.batchErr
	}
	return nil
}

func (f *fakeDocs) Structure(ctx context.Context, docID string) (*gdocs.Shape, error) {
	f.record("structure")
	if f.structureErr != nil {
		return nil, f.structureErr
	}
	return f.shape, nil
}

func (f *fakeDocs) Move(ctx context.Context, docID, folderID string) error {
	f.record("move")
	return f.moveErr
}

func (f *fakeDocs) Link(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)
}

// handlesFor fabricates a snapshot whose tables match the planned specs
// shape for shape, the way a healthy phase-1 round trip would.
func handlesFor(specs []docgen.TableSpec) []docgen.TableHandle {
	handles := make([]docgen.TableHandle, 0, len(specs))
	start := int64(100)
	for _, spec := range specs {
		rows := make([][]int64, spec.Rows)
		for r := range rows {
			cells := make([]int64, spec.Cols)
			for c := range cells {
				cells[c] = start
				start += 5
			}
			rows[r] = cells
		}
		handles = append(handles, docgen.TableHandle{Rows: rows})
	}
	return handles
}

func testTemplate() *docgen.Template {
	return &docgen.Template{
		Name:    "Test Summary",
		Program: "testprog",
		DocType: "summary",
		Sections: []docgen.Section{
			{Type: docgen.SectionHeader, Text: "Summary"},
			{Type: docgen.SectionParagraph, Text: "Prepared for {{applicant}}."},
			{Type: docgen.SectionTable, Headers: []string{"Item", "Amount"}, Rows: [][]string{{"Travel", "{{travel}}"}}},
		},
	}
}

func textOnlyTemplate() *docgen.Template {
	return &docgen.Template{
		Name:    "Test Note",
		Program: "testprog",
		DocType: "note",
		Sections: []docgen.Section{
			{Type: docgen.SectionParagraph, Text: "Just text."},
		},
	}
}

func newTestService(t *testing.T, fake *fakeDocs) (DocumentService, repos.DocumentBuildRepo) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.DocumentBuild{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	registry, err := templates.NewRegistry(log)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	registry.Register(testTemplate())
	registry.Register(textOnlyTemplate())
	repo := repos.NewDocumentBuildRepo(gdb, log)
	svc := NewDocumentService(gdb, log, registry, fake, repo, docgen.DefaultStyles())
	return svc, repo
}

// planSpecs replans the template the way the service will, so tests can
// hand the fake a structurally matching snapshot.
func planSpecs(t *testing.T, tpl *docgen.Template, title string, data map[string]string) []docgen.TableSpec {
	t.Helper()
	planner := docgen.NewPlanner(docgen.DefaultStyles(), 1, tpl.MergeData(data))
	planner.PlanHeader(title)
	planner.PlanSections(tpl.Sections)
	return planner.Plan().Tables
}

func TestBuild_PhaseOrder(t *testing.T) {
	fake := &fakeDocs{}
	specs := planSpecs(t, testTemplate(), "Q3 Summary", map[string]string{"applicant": "Ana", "travel": "$500"})
	fake.shape = &gdocs.Shape{Tables: handlesFor(specs)}

	svc, repo := newTestService(t, fake)
	result, err := svc.Build(context.Background(), BuildRequest{
		Program:  "testprog",
		DocType:  "summary",
		Title:    "Q3 Summary",
		FolderID: "folder-9",
		Data:     map[string]string{"applicant": "Ana", "travel": "$500"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.DocumentID != "doc-1" {
		t.Errorf("document id = %q", result.DocumentID)
	}
	if result.URL != "https://docs.google.com/document/d/doc-1/edit" {
		t.Errorf("url = %q", result.URL)
	}

	want := []string{"create", "batch", "batch", "structure", "batch", "move"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i, call := range want {
		if fake.calls[i] != call {
			t.Fatalf("calls = %v, want %v", fake.calls, want)
		}
	}

	// The populate batch substitutes runtime data into cell inserts.
	cellOps := fake.batches[2]
	found := false
	for _, op := range cellOps {
		if op.Text == "$500" {
			found = true
		}
	}
	if !found {
		t.Errorf("populate batch missing substituted cell text: %+v", cellOps)
	}

	build, err := repo.GetByID(context.Background(), nil, result.BuildID)
	if err != nil {
		t.Fatalf("load build: %v", err)
	}
	if build.Status != types.BuildComplete || build.Phase != "" {
		t.Errorf("build record = %s/%q", build.Status, build.Phase)
	}
	if build.DocumentID != "doc-1" || build.URL != result.URL {
		t.Errorf("build record doc = %q url = %q", build.DocumentID, build.URL)
	}
}

func TestBuild_NoTablesSkipsSnapshot(t *testing.T) {
	fake := &fakeDocs{}
	svc, _ := newTestService(t, fake)
	_, err := svc.Build(context.Background(), BuildRequest{
		Program: "testprog",
		DocType: "note",
		Title:   "A Note",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"create", "batch", "batch"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i, call := range want {
		if fake.calls[i] != call {
			t.Fatalf("calls = %v, want %v", fake.calls, want)
		}
	}
}

func TestBuild_Validation(t *testing.T) {
	fake := &fakeDocs{}
	svc, _ := newTestService(t, fake)

	_, err := svc.Build(context.Background(), BuildRequest{Program: "testprog", DocType: "note"})
	ae := apierr.From(err)
	if ae == nil || ae.Code != apierr.CodeValidation || ae.Phase != apierr.PhasePlan {
		t.Fatalf("missing title: got %v", err)
	}

	_, err = svc.Build(context.Background(), BuildRequest{Program: "nope", DocType: "nope", Title: "T"})
	ae = apierr.From(err)
	if ae == nil || ae.Code != apierr.CodeTemplateNotFound {
		t.Fatalf("unknown template: got %v", err)
	}

	if len(fake.calls) != 0 {
		t.Errorf("remote calls before validation passed: %v", fake.calls)
	}
}

func TestBuild_StructuralMismatch(t *testing.T) {
	fake := &fakeDocs{shape: &gdocs.Shape{}} // zero tables discovered
	svc, repo := newTestService(t, fake)
	result, err := svc.Build(context.Background(), BuildRequest{
		Program: "testprog",
		DocType: "summary",
		Title:   "Q3 Summary",
	})
	if err == nil {
		t.Fatalf("got result %+v, want mismatch", result)
	}
	ae := apierr.From(err)
	if ae.Code != apierr.CodeStructuralMismatch || ae.Phase != apierr.PhasePopulate {
		t.Fatalf("got %v", err)
	}
	var mismatch *docgen.StructuralMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("underlying mismatch not preserved: %v", err)
	}

	builds, err := repo.ListByStatus(context.Background(), nil, types.BuildFailed, 10)
	if err != nil || len(builds) != 1 {
		t.Fatalf("failed builds = %v, %v", builds, err)
	}
	if builds[0].Phase != apierr.PhasePopulate {
		t.Errorf("recorded phase = %q", builds[0].Phase)
	}
}

func TestResume_RerunsPopulateOnly(t *testing.T) {
	fake := &fakeDocs{structureErr: apierr.Transient(errors.New("backend unavailable"))}
	svc, _ := newTestService(t, fake)

	data := map[string]string{"applicant": "Ana", "travel": "$500"}
	_, err := svc.Build(context.Background(), BuildRequest{
		Program:  "testprog",
		DocType:  "summary",
		Title:    "Q3 Summary",
		FolderID: "folder-9",
		Data:     data,
	})
	ae := apierr.From(err)
	if ae == nil || ae.Phase != apierr.PhaseSnapshot {
		t.Fatalf("want snapshot failure, got %v", err)
	}
	buildID := findSingleBuild(t, svc)

	fake.structureErr = nil
	fake.shape = &gdocs.Shape{Tables: handlesFor(planSpecs(t, testTemplate(), "Q3 Summary", data))}
	fake.calls = nil

	result, err := svc.Resume(context.Background(), buildID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if result.DocumentID != "doc-1" {
		t.Errorf("document id = %q", result.DocumentID)
	}
	want := []string{"structure", "batch", "move"}
	if len(fake.calls) != len(want) {
		t.Fatalf("resume calls = %v, want %v", fake.calls, want)
	}
	for i, call := range want {
		if fake.calls[i] != call {
			t.Fatalf("resume calls = %v, want %v", fake.calls, want)
		}
	}

	build, err := svc.GetBuild(context.Background(), buildID)
	if err != nil {
		t.Fatalf("GetBuild: %v", err)
	}
	if build.Status != types.BuildComplete {
		t.Errorf("status = %s", build.Status)
	}
}

func TestResume_SkipsAlreadyFilledCells(t *testing.T) {
	data := map[string]string{"applicant": "Ana", "travel": "$500"}
	specs := planSpecs(t, testTemplate(), "Q3 Summary", data)
	fake := &fakeDocs{
		shape:      &gdocs.Shape{Tables: handlesFor(specs)},
		batchErrAt: 3, // the populate batch, after content and style
		batchErr:   apierr.Transient(errors.New("quota exhausted")),
	}
	svc, _ := newTestService(t, fake)

	_, err := svc.Build(context.Background(), BuildRequest{
		Program: "testprog",
		DocType: "summary",
		Title:   "Q3 Summary",
		Data:    data,
	})
	if apierr.From(err).Phase != apierr.PhasePopulate {
		t.Fatalf("want populate failure, got %v", err)
	}
	buildID := findSingleBuild(t, svc)

	// The fresh snapshot on resume reports three of the four cells already
	// holding text, as after a partially applied populate batch.
	fake.batchErrAt = 0
	fake.shape.Tables[0].Filled = [][]bool{{true, true}, {true, false}}
	fake.calls = nil
	fake.batches = nil

	if _, err := svc.Resume(context.Background(), buildID); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(fake.batches) != 1 {
		t.Fatalf("resume batches = %d", len(fake.batches))
	}
	ops := fake.batches[0]
	if len(ops) != 1 || ops[0].Text != "$500" {
		t.Fatalf("resume populate ops = %+v", ops)
	}
	if ops[0].Index != fake.shape.Tables[0].Rows[1][1]+1 {
		t.Fatalf("resume insert index = %d", ops[0].Index)
	}
}

func TestGetBuild_UnknownID(t *testing.T) {
	fake := &fakeDocs{}
	svc, _ := newTestService(t, fake)
	_, err := svc.GetBuild(context.Background(), uuid.New())
	ae := apierr.From(err)
	if ae == nil || ae.Code != apierr.CodeNotFound || ae.Status != http.StatusNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestResume_Guards(t *testing.T) {
	fake := &fakeDocs{}
	svc, repo := newTestService(t, fake)

	// Completed builds cannot be resumed.
	_, err := svc.Build(context.Background(), BuildRequest{Program: "testprog", DocType: "note", Title: "A Note"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buildID := findSingleBuild(t, svc)
	if _, err := svc.Resume(context.Background(), buildID); apierr.From(err).Code != apierr.CodeValidation {
		t.Fatalf("resume complete build: got %v", err)
	}

	// A build that died during its content batch cannot be resumed either:
	// the batch is atomic but we cannot know whether it applied.
	builds, _ := repo.ListByStatus(context.Background(), nil, types.BuildComplete, 1)
	build := builds[0]
	build.Status = types.BuildFailed
	build.Phase = apierr.PhaseContent
	if err := repo.Update(context.Background(), nil, build); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Resume(context.Background(), build.ID); apierr.From(err).Code != apierr.CodeValidation {
		t.Fatalf("resume content-phase failure: got %v", err)
	}
}

func findSingleBuild(t *testing.T, svc DocumentService) uuid.UUID {
	t.Helper()
	ds := svc.(*documentService)
	builds, err := ds.buildRepo.ListByStatus(context.Background(), nil, types.BuildComplete, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(builds) == 0 {
		builds, err = ds.buildRepo.ListByStatus(context.Background(), nil, types.BuildFailed, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
	}
	if len(builds) != 1 {
		t.Fatalf("builds = %d, want 1", len(builds))
	}
	return builds[0].ID
}

func TestWorker_ProcessesQueuedBuild(t *testing.T) {
	fake := &fakeDocs{}
	svc, repo := newTestService(t, fake)

	build, err := svc.StartBuild(context.Background(), BuildRequest{
		Program: "testprog",
		DocType: "note",
		Title:   "Queued Note",
	})
	if err != nil {
		t.Fatalf("StartBuild: %v", err)
	}

	log, _ := logger.New("development")
	worker := NewBuildWorker(log, svc, repo, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	if !worker.Enqueue(build.ID) {
		t.Fatal("enqueue refused")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.GetBuild(context.Background(), build.ID)
		if err != nil {
			t.Fatalf("GetBuild: %v", err)
		}
		if got.Status == types.BuildComplete {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("build never completed")
}

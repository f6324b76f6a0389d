package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/engine"
	"github.com/vocsched/timetable-api/internal/models"
	"github.com/vocsched/timetable-api/pkg/config"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
	"github.com/vocsched/timetable-api/pkg/jobs"
)

// Run lifecycle states reported by the run store.
const (
	RunStatusAccepted = "accepted"
	RunStatusRunning  = "running"
	RunStatusDone     = "done"
	RunStatusFailed   = "failed"
)

type sessionSource interface {
	ListSessions(ctx context.Context) ([]models.CourseSession, error)
}

type classroomSource interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error)
}

type instructorSource interface {
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error)
}

type scheduleSink interface {
	Clear(ctx context.Context) error
	InsertBatch(ctx context.Context, entries []models.GeneratedScheduleEntry) error
}

type runObserver interface {
	ObserveGeneration(preset, strategy, status string, penalty float64, elapsed time.Duration)
}

type searchCacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// TimetableService orchestrates timetable generation: load the catalog,
// build the domain model, run the evolutionary engine and persist the
// winning timetable.
type TimetableService struct {
	sessions    sessionSource
	classrooms  classroomSource
	instructors instructorSource
	schedules   scheduleSink

	cfg       config.SchedulerConfig
	observer  runObserver
	validator *validator.Validate
	logger    *zap.Logger

	queue       *jobs.Queue
	invalidator searchCacheInvalidator

	mu   sync.RWMutex
	runs map[string]*dto.GenerateTimetableResponse
}

// NewTimetableService constructs the timetable service. The observer may be
// nil when metrics are disabled.
func NewTimetableService(
	sessions sessionSource,
	classrooms classroomSource,
	instructors instructorSource,
	schedules scheduleSink,
	cfg config.SchedulerConfig,
	observer runObserver,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		sessions:    sessions,
		classrooms:  classrooms,
		instructors: instructors,
		schedules:   schedules,
		cfg:         cfg,
		observer:    observer,
		validator:   validate,
		logger:      logger,
		runs:        make(map[string]*dto.GenerateTimetableResponse),
	}
}

// AttachQueue wires the background queue used for async generation and
// returns the handler the queue must dispatch to.
func (s *TimetableService) AttachQueue(queue *jobs.Queue) {
	s.queue = queue
}

// AttachInvalidator wires the search cache so a finished run, sync or
// queued, immediately stops serving the previous timetable.
func (s *TimetableService) AttachInvalidator(inv searchCacheInvalidator) {
	s.invalidator = inv
}

// HandleJob executes one queued generation run. Used as the jobs.Handler of
// the generation queue.
func (s *TimetableService) HandleJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.GenerateTimetableRequest)
	if !ok {
		s.logger.Error("unexpected generation job payload", zap.String("job_id", job.ID))
		return nil
	}
	// Failures are recorded on the run itself; retrying a run that failed on
	// catalog state would only fail again.
	_, _ = s.execute(ctx, job.ID, req)
	return nil
}

// Generate runs the engine synchronously, or enqueues a background run when
// the request asks for async execution.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	if _, err := s.engineConfig(req); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	if req.Async {
		if s.queue == nil {
			return nil, appErrors.Clone(appErrors.ErrInternal, "background generation is not enabled")
		}
		s.storeRun(&dto.GenerateTimetableResponse{RunID: runID, Status: RunStatusAccepted})
		if err := s.queue.Enqueue(jobs.Job{ID: runID, Type: "generate_timetable", Payload: req}); err != nil {
			s.dropRun(runID)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation run")
		}
		return s.RunStatus(runID)
	}

	return s.execute(ctx, runID, req)
}

// RunStatus returns a snapshot of a known run.
func (s *TimetableService) RunStatus(runID string) (*dto.GenerateTimetableResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found")
	}
	snapshot := *run
	return &snapshot, nil
}

func (s *TimetableService) engineConfig(req dto.GenerateTimetableRequest) (engine.Config, error) {
	preset := req.Preset
	if preset == "" {
		preset = s.cfg.DefaultPreset
	}
	engCfg, ok := engine.Preset(preset)
	if !ok {
		return engine.Config{}, appErrors.Clone(appErrors.ErrUnknownPreset, "unknown generation preset: "+preset)
	}

	engCfg.Days = s.cfg.Days
	engCfg.SlotsPerDay = s.cfg.SlotsPerDay
	engCfg.LunchSlot = s.cfg.LunchSlot
	engCfg.ClosingSlot = s.cfg.ClosingSlot
	engCfg.Workers = s.cfg.Workers
	engCfg.Strategy = s.cfg.Strategy
	if req.Strategy != "" {
		engCfg.Strategy = req.Strategy
	}
	engCfg.Seed = req.Seed
	return engCfg, nil
}

func (s *TimetableService) execute(ctx context.Context, runID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	engCfg, err := s.engineConfig(req)
	if err != nil {
		return s.failRun(runID, req, err)
	}
	preset := req.Preset
	if preset == "" {
		preset = s.cfg.DefaultPreset
	}

	resp := &dto.GenerateTimetableResponse{
		RunID:    runID,
		Status:   RunStatusRunning,
		Preset:   preset,
		Strategy: engCfg.Strategy,
	}
	s.storeRun(resp)

	data, err := s.loadDataset(ctx)
	if err != nil {
		return s.failRun(runID, req, err)
	}

	eng := engine.New(data, engCfg, s.logger)
	result, err := eng.Run(ctx)
	if err != nil {
		return s.failRun(runID, req, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "optimization aborted"))
	}

	runCfg := eng.Config()
	records := engine.Flatten(data, &runCfg, result.Best)
	persisted, exportErr := engine.Export(ctx, &entrySink{repo: s.schedules}, records, s.cfg.ExportBatch, s.logger)
	if exportErr != nil {
		// The timetable itself is still valid; report the partial persist.
		s.logger.Warn("timetable persisted partially",
			zap.String("run_id", runID),
			zap.Int("persisted", persisted),
			zap.Int("records", len(records)),
			zap.Error(exportErr))
	}

	evaluator := engine.NewEvaluator(data, &runCfg)

	done := &dto.GenerateTimetableResponse{
		RunID:       runID,
		Status:      RunStatusDone,
		Preset:      preset,
		Strategy:    runCfg.Strategy,
		Penalty:     result.Penalty,
		Breakdown:   evaluator.Breakdown(result.Best.Genes),
		Runs:        result.Runs,
		Generations: result.Generations,
		ElapsedMs:   result.Elapsed.Milliseconds(),
		Records:     len(records),
		Persisted:   persisted,
	}
	s.storeRun(done)
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
	if s.observer != nil {
		s.observer.ObserveGeneration(preset, runCfg.Strategy, RunStatusDone, result.Penalty, result.Elapsed)
	}
	s.logger.Info("timetable generated",
		zap.String("run_id", runID),
		zap.String("preset", preset),
		zap.Float64("penalty", result.Penalty),
		zap.Int("records", len(records)),
		zap.Int("persisted", persisted))
	snapshot := *done
	return &snapshot, nil
}

func (s *TimetableService) loadDataset(ctx context.Context) (*engine.Dataset, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	rooms, err := s.classrooms.List(ctx, models.ClassroomFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	instructors, err := s.instructors.List(ctx, models.InstructorFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}
	return engine.BuildDataset(sessions, rooms, instructors)
}

func (s *TimetableService) failRun(runID string, req dto.GenerateTimetableRequest, err error) (*dto.GenerateTimetableResponse, error) {
	appErr := appErrors.FromError(err)
	failed := &dto.GenerateTimetableResponse{
		RunID:  runID,
		Status: RunStatusFailed,
		Preset: req.Preset,
		Error:  appErr.Message,
	}
	s.storeRun(failed)
	if s.observer != nil {
		s.observer.ObserveGeneration(req.Preset, req.Strategy, RunStatusFailed, 0, 0)
	}
	s.logger.Error("timetable generation failed", zap.String("run_id", runID), zap.Error(err))
	snapshot := *failed
	return &snapshot, appErr
}

func (s *TimetableService) storeRun(run *dto.GenerateTimetableResponse) {
	s.mu.Lock()
	s.runs[run.RunID] = run
	s.mu.Unlock()
}

func (s *TimetableService) dropRun(runID string) {
	s.mu.Lock()
	delete(s.runs, runID)
	s.mu.Unlock()
}

// entrySink adapts the schedule repository to the engine's export sink.
type entrySink struct {
	repo scheduleSink
}

func (e *entrySink) Clear(ctx context.Context) error {
	return e.repo.Clear(ctx)
}

func (e *entrySink) AppendBatch(ctx context.Context, records []engine.Record) error {
	entries := make([]models.GeneratedScheduleEntry, len(records))
	for i, r := range records {
		entries[i] = models.GeneratedScheduleEntry{
			SubjectCode:  r.SubjectCode,
			SubjectName:  r.SubjectName,
			RoomCode:     r.RoomCode,
			InstructorID: r.InstructorID,
			DayOfWeek:    r.Day,
			StartSlot:    r.Slot,
			Department:   r.Department,
			YearLevel:    r.YearLevel,
		}
	}
	return e.repo.InsertBatch(ctx, entries)
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"projector-crm-sync/config"
	"projector-crm-sync/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrImportAlreadyRunning = errors.New("import already running")
	ErrUnknownImportKind    = errors.New("unknown import kind")
)

const defaultImportLock = "crm_sync_import_job"

type ImportJobInput struct {
	Kind          string
	TriggerSource string
	LockName      string
	DryRun        bool
	RecordRun     bool
	// Settings overrides the environment; nil means config.LoadImportSettings.
	Settings *config.ImportSettings
}

// ImportJobSummary is everything one run produced.
type ImportJobSummary struct {
	RunKey   string          `json:"run_key"`
	Kind     string          `json:"kind"`
	DryRun   bool            `json:"dry_run"`
	Imports  []*ImportReport `json:"imports,omitempty"`
	Cleanup  *CleanupReport  `json:"cleanup,omitempty"`
	Duration float64         `json:"duration_seconds"`
}

func (s *ImportJobSummary) Counts() RunCounts {
	var c RunCounts
	for _, r := range s.Imports {
		c.Total += r.Total
		c.Success += r.Success
		c.Failed += r.Failed
	}
	if s.Cleanup != nil {
		c.Total += s.Cleanup.Checked
		c.Success += s.Cleanup.Valid
		c.Failed += s.Cleanup.Failed
		c.Deleted += s.Cleanup.Deleted
		c.Kept += s.Cleanup.Kept
	}
	return c
}

func (s *ImportJobSummary) WriteText(w io.Writer) {
	mode := ""
	if s.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "%s run %s%s finished in %.1fs\n", s.Kind, s.RunKey, mode, s.Duration)
	for _, r := range s.Imports {
		r.WriteSummary(w)
	}
	if s.Cleanup != nil {
		s.Cleanup.WriteSummary(w)
	}
}

func (s *ImportJobSummary) Text() string {
	var buf bytes.Buffer
	s.WriteText(&buf)
	return buf.String()
}

type ImportJobService struct {
	db       *gorm.DB
	store    Store
	runSvc   *ImportRunService
	logger   *zap.Logger
	sendMail func(to []string, subject, html string) error
}

func NewImportJobService(db *gorm.DB, logger *zap.Logger) *ImportJobService {
	if db == nil {
		db = config.DB
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportJobService{
		db:       db,
		store:    NewGormStore(db),
		runSvc:   NewImportRunService(db),
		logger:   logger,
		sendMail: config.SendMail,
	}
}

func validImportKind(kind string) bool {
	switch kind {
	case models.ImportKindMaster, models.ImportKindCases, models.ImportKindCleanup, models.ImportKindDuplicates:
		return true
	}
	return false
}

func (s *ImportJobService) Run(ctx context.Context, input *ImportJobInput) (*ImportJobSummary, *models.ImportRun, error) {
	if input == nil {
		return nil, nil, errors.New("input is nil")
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if !validImportKind(kind) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownImportKind, input.Kind)
	}

	settings := config.LoadImportSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}
	// Only the cleanup passes have a dry-run mode.
	dryRun := false
	if kind == models.ImportKindCleanup || kind == models.ImportKindDuplicates {
		dryRun = input.DryRun || settings.CleanupDryRun
	}

	lockName := strings.TrimSpace(input.LockName)
	if lockName == "" {
		lockName = defaultImportLock
	}
	release, err := s.acquireLock(ctx, lockName)
	if err != nil {
		return nil, nil, err
	}
	if release != nil {
		defer func() {
			if relErr := release(); relErr != nil {
				s.logger.Warn("failed to release import lock", zap.String("lock", lockName), zap.Error(relErr))
			}
		}()
	}

	trigger := strings.TrimSpace(input.TriggerSource)
	if trigger == "" {
		trigger = "cli"
	}

	var run *models.ImportRun
	runKey := uuid.NewString()
	if input.RecordRun {
		run, err = s.runSvc.Start(kind, trigger, dryRun)
		if err != nil {
			return nil, nil, err
		}
		runKey = run.RunKey
	}

	logger := s.logger.With(zap.String("run_key", runKey), zap.String("kind", kind))
	logger.Info("import run started", zap.String("trigger", trigger), zap.Bool("dry_run", dryRun))

	startTime := time.Now()
	summary := &ImportJobSummary{RunKey: runKey, Kind: kind, DryRun: dryRun}
	finalErr := s.execute(ctx, summary, settings, logger)
	summary.Duration = time.Since(startTime).Seconds()

	if run != nil {
		var markErr error
		if finalErr != nil {
			markErr = s.runSvc.MarkFailure(run.ID, summary.Counts(), summary.Text(), finalErr, summary.Duration)
		} else {
			markErr = s.runSvc.MarkSuccess(run.ID, summary.Counts(), summary.Text(), summary.Duration)
		}
		if markErr != nil {
			logger.Warn("failed to mark import run status", zap.Error(markErr))
		}
		if updated, err := s.runSvc.GetByID(run.ID); err == nil {
			run = updated
		}
	}

	if finalErr != nil {
		logger.Error("import run failed", zap.Error(finalErr))
	} else {
		counts := summary.Counts()
		logger.Info("import run finished",
			zap.Int("total", counts.Total),
			zap.Int("failed", counts.Failed),
			zap.Int("deleted", counts.Deleted),
			zap.Float64("duration_seconds", summary.Duration),
		)
	}

	if len(settings.ReportRecipients) > 0 {
		if err := s.mailSummary(settings.ReportRecipients, summary, finalErr); err != nil {
			logger.Warn("failed to send import report", zap.Error(err))
		}
	}
	return summary, run, finalErr
}

func (s *ImportJobService) execute(ctx context.Context, summary *ImportJobSummary, settings config.ImportSettings, logger *zap.Logger) error {
	reader := NewSheetReader(settings.DataDir, logger)
	load := func(names ...string) ([]*Sheet, error) {
		sheets := make([]*Sheet, len(names))
		for i, name := range names {
			sheet, err := reader.Load(name)
			if err != nil {
				return nil, err
			}
			sheets[i] = sheet
		}
		return sheets, nil
	}

	switch summary.Kind {
	case models.ImportKindMaster:
		sheets, err := load(SitesFile, ProjectorModelsFile, ProjectorsFile, AudisFile)
		if err != nil {
			return err
		}
		importer := NewMasterImporter(s.store, logger)
		summary.Imports = importer.ImportAll(ctx, MasterSheets{
			Sites:           sheets[0],
			ProjectorModels: sheets[1],
			Projectors:      sheets[2],
			Audis:           sheets[3],
		})

	case models.ImportKindCases:
		sheets, err := load(AudisFile, ProjectorsFile, DTRCasesFile, RMACasesFile)
		if err != nil {
			return err
		}
		xref := BuildCrossReferenceFromSheets(sheets[0], sheets[1], sheets[2], sheets[3])
		logger.Info("cross-reference built", zap.Int("serials", len(xref)))
		importer := NewCaseImporter(s.store, xref, settings.FallbackEmail, logger)
		summary.Imports = []*ImportReport{
			importer.ImportDTR(ctx, sheets[2]),
			importer.ImportRMA(ctx, sheets[3]),
		}

	case models.ImportKindCleanup:
		sheets, err := load(AudisFile, ProjectorsFile, DTRCasesFile, RMACasesFile)
		if err != nil {
			return err
		}
		xref := BuildCrossReferenceFromSheets(sheets[0], sheets[1], sheets[2], sheets[3])
		cleaner := NewOrphanCleaner(s.store, xref, CleanupOptions{
			DryRun: summary.DryRun,
			Relink: settings.CleanupRelink,
		}, logger)
		report, err := cleaner.Run(ctx)
		if err != nil {
			return err
		}
		summary.Cleanup = report

	case models.ImportKindDuplicates:
		report, err := NewDuplicateCleaner(s.store, summary.DryRun, logger).Run(ctx)
		if err != nil {
			return err
		}
		summary.Cleanup = report
	}
	return nil
}

// acquireLock takes the MySQL advisory lock on a pinned connection. GET_LOCK is
// owned by the session, so RELEASE_LOCK must run on the same connection, which
// stays checked out of the pool until release.
func (s *ImportJobService) acquireLock(ctx context.Context, lockName string) (func() error, error) {
	if s.db == nil || strings.TrimSpace(lockName) == "" {
		return nil, nil
	}

	lockCtx := persistentContext(ctx)

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(lockCtx)
	if err != nil {
		return nil, fmt.Errorf("pin lock connection: %w", err)
	}
	session := s.db.Session(&gorm.Session{NewDB: true, Context: lockCtx})
	session.Statement.ConnPool = conn

	var ok int
	if err := session.Raw("SELECT GET_LOCK(?, 0)", lockName).Scan(&ok).Error; err != nil {
		_ = conn.Close()
		return nil, err
	}
	if ok != 1 {
		_ = conn.Close()
		return nil, ErrImportAlreadyRunning
	}

	return func() error {
		defer conn.Close()
		var released int
		if err := session.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error; err != nil {
			return err
		}
		if released != 1 {
			return fmt.Errorf("release lock %q returned %d", lockName, released)
		}
		return nil
	}, nil
}

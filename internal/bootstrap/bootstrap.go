package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	curriculuminadapter "agencycheck/internal/modules/curriculum/adapter/in"
	curriculumoutadapter "agencycheck/internal/modules/curriculum/adapter/out"
	curriculumservice "agencycheck/internal/modules/curriculum/service"
	curriculumusecase "agencycheck/internal/modules/curriculum/usecase"
	exportinadapter "agencycheck/internal/modules/export/adapter/in"
	exportoutadapter "agencycheck/internal/modules/export/adapter/out"
	exportout "agencycheck/internal/modules/export/port/out"
	exportservice "agencycheck/internal/modules/export/service"
	exportusecase "agencycheck/internal/modules/export/usecase"
	journalinadapter "agencycheck/internal/modules/journal/adapter/in"
	journaldto "agencycheck/internal/modules/journal/dto"
	journaloutadapter "agencycheck/internal/modules/journal/adapter/out"
	journalservice "agencycheck/internal/modules/journal/service"
	journalusecase "agencycheck/internal/modules/journal/usecase"
	progressinadapter "agencycheck/internal/modules/progress/adapter/in"
	progressoutadapter "agencycheck/internal/modules/progress/adapter/out"
	progressdomain "agencycheck/internal/modules/progress/domain"
	progressservice "agencycheck/internal/modules/progress/service"
	progressusecase "agencycheck/internal/modules/progress/usecase"
	"agencycheck/internal/platform/clock"
	"agencycheck/internal/platform/config"
	"agencycheck/internal/platform/id"
	"agencycheck/internal/platform/logging"
	uiapp "agencycheck/internal/ui/app"
)

// Options are process-level settings that do not live in agencycheck.yaml.
type Options struct {
	// AsOf pins "now" for window resolution and new entries. Zero means the system clock.
	AsOf time.Time
	// LogOutput receives the process log. Nil means stderr.
	LogOutput io.Writer
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	JournalCLI    journalinadapter.CLIHandler
	CurriculumCLI curriculuminadapter.CLIHandler
	ProgressCLI   progressinadapter.CLIHandler
	ExportCLI     exportinadapter.CLIHandler
	HTTP          *progressinadapter.HTTPHandler
}

func New(cfg config.Config, opts Options) (*App, error) {
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)

	var clk clock.Clock = clock.SystemClock{}
	if !opts.AsOf.IsZero() {
		clk = clock.Fixed{At: opts.AsOf.UTC()}
	}
	ids := id.UUID{}

	curriculumUC := curriculumusecase.NewInteractor(curriculumservice.NewCurriculumService(
		curriculumoutadapter.NewYAMLCurriculumStore(cfg.CurriculumPath),
		logger.With("module", "curriculum"),
	))

	entryIndex, err := journaloutadapter.NewSQLiteEntryIndex(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new entry index: %w", err)
	}
	journalUC := journalusecase.NewInteractor(journalservice.NewJournalService(
		clk,
		ids,
		journaloutadapter.NewVaultEntryStore(cfg.DataPath),
		entryIndex,
		journaloutadapter.NewLegacyJSONReader(),
		logger.With("module", "journal"),
	))

	policies, err := parsePolicies(cfg.Report)
	if err != nil {
		return nil, err
	}
	defaultWindow, err := progressdomain.ParseWindowMode(cfg.Report.DefaultWindow)
	if err != nil {
		return nil, fmt.Errorf("report.default_window: %w", err)
	}
	cache, err := progressoutadapter.NewLRUReportCache(cfg.Report.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("new report cache: %w", err)
	}
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(
		clk,
		progressoutadapter.NewJournalEntrySource(journalUC),
		progressoutadapter.NewCurriculumRegistrySource(curriculumUC),
		cache,
		policies,
		logger.With("module", "progress"),
	), defaultWindow)

	exportUC := exportusecase.NewInteractor(exportservice.NewExportService(
		[]exportout.Renderer{
			exportoutadapter.NewJSONRenderer(),
			exportoutadapter.NewMarkdownRenderer(),
			exportoutadapter.NewXLSXRenderer(),
		},
		exportoutadapter.NewFileManifestStore(cfg.DataPath),
		exportoutadapter.NewGRPCHost(logging.ParseLevel(cfg.Log.Level) == slog.LevelDebug),
		exportoutadapter.NewProgressReportSource(progressUC),
		logger.With("module", "export"),
	))

	return &App{
		Config:        cfg,
		Logger:        logger,
		JournalCLI:    journalinadapter.NewCLIHandler(journalUC),
		CurriculumCLI: curriculuminadapter.NewCLIHandler(curriculumUC),
		ProgressCLI:   progressinadapter.NewCLIHandler(progressUC),
		ExportCLI:     exportinadapter.NewCLIHandler(exportUC),
		HTTP:          progressinadapter.NewHTTPHandler(progressUC, journalUC, curriculumUC, exportUC, logger.With("module", "http")),
	}, nil
}

func parsePolicies(cfg config.ReportConfig) (progressdomain.Policies, error) {
	theme, err := progressdomain.ParsePolicy(cfg.ThemePolicy)
	if err != nil {
		return progressdomain.Policies{}, fmt.Errorf("report.theme_policy: %w", err)
	}
	category, err := progressdomain.ParsePolicy(cfg.CategoryPolicy)
	if err != nil {
		return progressdomain.Policies{}, fmt.Errorf("report.category_policy: %w", err)
	}
	overall, err := progressdomain.ParsePolicy(cfg.OverallPolicy)
	if err != nil {
		return progressdomain.Policies{}, fmt.Errorf("report.overall_policy: %w", err)
	}
	return progressdomain.Policies{Theme: theme, Category: category, Overall: overall}, nil
}

// TUIOptions select what the terminal UI opens on.
type TUIOptions struct {
	SubjectID string
	Window    string
}

func RunTUI(app *App, opts TUIOptions) error {
	model := uiapp.NewModel(tuiJournal{app.JournalCLI}, app.ProgressCLI, app.ExportCLI, opts.SubjectID, opts.Window)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// tuiJournal adapts the CLI handler's positional arguments to the view's input struct.
type tuiJournal struct{ h journalinadapter.CLIHandler }

func (j tuiJournal) ListEntries(ctx context.Context, input journaldto.ListEntriesInput) ([]journaldto.EntryOutput, error) {
	return j.h.ListEntries(ctx, input.SubjectID, input.Limit)
}

func (j tuiJournal) ListSubjects(ctx context.Context) ([]journaldto.SubjectOutput, error) {
	return j.h.ListSubjects(ctx)
}

// Serve runs the HTTP API until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, app *App, addr string) error {
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.HTTP.Router(app.Config.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	app.Logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

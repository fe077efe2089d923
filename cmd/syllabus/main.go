package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/syllabus/internal/cli"
	"github.com/alexanderramin/syllabus/internal/config"
	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/llm"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	schemeRepo := repository.NewSQLiteSchemeRepo(database)
	chapterRepo := repository.NewSQLiteChapterRepo(database)
	planRepo := repository.NewSQLiteLessonPlanRepo(database)
	timetableRepo := repository.NewSQLiteTimetableRepo(database)
	examRepo := repository.NewSQLiteExamRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Local sources stand in for the remote scheme, period and exam feeds.
	schemes := service.NewLocalSchemeSource(schemeRepo, chapterRepo, planRepo, settingsRepo, cfg.SparsePayloads, observers...)
	periods := service.NewLocalPeriodSource(timetableRepo, planRepo, observers...)
	loader := service.NewSchemeLoader(schemes, cfg.TeacherID, cfg.LoadTimeout, observers...)

	opts := []service.OrchestratorOption{}
	if len(observers) > 0 {
		opts = append(opts, service.WithObserver(observers[0]))
	}
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		opts = append(opts, service.WithSuggestions(
			service.NewSuggestionService(llm.NewClient(cfg.LLM, observer), observers...)))
	}
	orch := service.NewOrchestrator(loader, periods, service.NewLocalExamSource(examRepo),
		service.NewLocalPlanWriter(uow, observers...), cfg.TeacherID, opts...)

	app := &cli.App{
		Planner:   orch,
		LoadState: loader,
		Plans:     service.NewLessonPlanService(planRepo, uow, observers...),
		Settings:  service.NewSettingsService(settingsRepo),
		Exams:     service.NewExamService(examRepo),
		Timetable: service.NewTimetableService(timetableRepo),
		Import:    service.NewImportService(uow, cfg.TeacherID, observers...),
		Periods:   periods,
		TeacherID: cfg.TeacherID,
	}

	// Forms only prompt on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

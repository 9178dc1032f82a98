package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/digitaldrywood/fitsession/internal/config"
	"github.com/digitaldrywood/fitsession/internal/database"
	"github.com/digitaldrywood/fitsession/internal/display"
	"github.com/digitaldrywood/fitsession/internal/fit"
	"github.com/digitaldrywood/fitsession/internal/google"
	"github.com/digitaldrywood/fitsession/internal/logger"
	"github.com/digitaldrywood/fitsession/internal/session"
)

func main() {
	var (
		verbose = flag.Bool("v", false, "Print every display update and debug logs")
		raw     = flag.Bool("raw", false, "Read the inserted stream without daily buckets")
		journal = flag.Int("journal", 0, "List the last N journaled inserts and exit")
	)
	flag.Parse()

	lg, err := logger.New(*verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		lg.Fatalw("failed to load configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *journal > 0 {
		if err := listJournal(ctx, cfg, *journal); err != nil {
			lg.Fatalw("failed to list journal", "error", err)
		}
		return
	}

	if err := run(ctx, cfg, lg, *verbose, *raw); err != nil {
		lg.Errorw("session finished with errors", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, verbose, raw bool) error {
	var extra []string
	if cfg.SpreadsheetID != "" {
		extra = append(extra, sheets.SpreadsheetsScope)
	}

	auth, err := google.NewAuth(cfg.CredentialsPath, cfg.TokenPath, cfg.OAuthRedirectURL, cfg.OAuthTimeout, log, extra...)
	if err != nil {
		return err
	}

	projectNumber := cfg.ProjectNumber
	if projectNumber == "" {
		projectNumber = auth.ProjectNumber()
	}

	term := display.NewTerminal(os.Stdout, verbose)
	opts := session.Options{
		Authorizer:    auth,
		History:       &lazyHistory{auth: auth, projectNumber: projectNumber, log: log},
		Display:       term,
		Capabilities:  fit.DefaultCapabilities(),
		Source:        fit.NewStepSource(cfg.PackageName, cfg.StreamName),
		Steps:         cfg.StepCount,
		ProjectNumber: projectNumber,
		RawRead:       raw,
		Logger:        log,
	}

	if cfg.JournalDir != "" {
		db, err := database.New(cfg.JournalDir)
		if err != nil {
			log.Warnw("journal disabled", "dir", cfg.JournalDir, "error", err)
		} else {
			defer db.Close()
			opts.Journal = db
		}
	}

	out, err := session.New(opts).Run(ctx)
	if flushErr := term.Flush(); flushErr != nil {
		log.Warnw("failed to write output", "error", flushErr)
	}
	if err != nil {
		return err
	}

	if cfg.SpreadsheetID != "" && out.ReadErr == nil {
		if err := export(ctx, auth, cfg, out.Response, log); err != nil {
			log.Warnw("sheet export failed", "error", err)
		}
	}

	return out.Err()
}

func export(ctx context.Context, auth *google.Auth, cfg *config.Config, resp *fit.ReadResponse, log *zap.SugaredLogger) error {
	service, err := auth.SheetsService(ctx)
	if err != nil {
		return err
	}
	n, err := google.NewSheetsExporter(service, cfg.SpreadsheetID, cfg.SheetRange).AppendBuckets(ctx, resp)
	if err != nil {
		return err
	}
	log.Infow("exported daily totals", "rows", n, "spreadsheet", cfg.SpreadsheetID)
	return nil
}

func listJournal(ctx context.Context, cfg *config.Config, limit int) error {
	if cfg.JournalDir == "" {
		return errors.New("FIT_JOURNAL_DIR is not set")
	}
	db, err := database.New(cfg.JournalDir)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.RecentInserts(ctx, limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		status := "ok"
		if rec.Error.Valid {
			status = rec.Error.String
		}
		fmt.Printf("%s  %s - %s  %d steps  %s\n",
			rec.DataSource,
			rec.Start.Local().Format(fit.TimeLayout),
			rec.End.Local().Format(fit.TimeLayout),
			rec.Steps,
			status)
	}
	return nil
}

// lazyHistory builds the fitness client on first use. The service needs a
// token, which may only exist once consent has completed.
type lazyHistory struct {
	auth          *google.Auth
	projectNumber string
	log           *zap.SugaredLogger

	once   sync.Once
	client *google.HistoryClient
	err    error
}

func (h *lazyHistory) get(ctx context.Context) (*google.HistoryClient, error) {
	h.once.Do(func() {
		service, err := h.auth.FitnessService(ctx)
		if err != nil {
			h.err = err
			return
		}
		h.client = google.NewHistoryClient(service, h.projectNumber, h.log)
	})
	return h.client, h.err
}

func (h *lazyHistory) InsertData(ctx context.Context, ds fit.DataSet) error {
	c, err := h.get(ctx)
	if err != nil {
		return err
	}
	return c.InsertData(ctx, ds)
}

func (h *lazyHistory) ReadData(ctx context.Context, req fit.ReadRequest) (*fit.ReadResponse, error) {
	c, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.ReadData(ctx, req)
}

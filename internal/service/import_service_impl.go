package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/averyhollis/fabline/internal/db"
	"github.com/averyhollis/fabline/internal/importer"
	"github.com/averyhollis/fabline/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	shop     *Shop
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, shop *Shop, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		shop:     shop,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportBacklog(ctx context.Context, filePath string) (res *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"file": filePath}
	defer func() { observe(ctx, s.observer, "import_backlog", startedAt, err, fields) }()

	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	res, err = s.importSchema(ctx, schema)
	if err != nil {
		return nil, err
	}
	fields["job_count"] = res.JobCount
	fields["alert_count"] = res.AlertCount
	return res, nil
}

func (s *importService) ImportFromSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "import_schema", startedAt, err, fields) }()

	res, err = s.importSchema(ctx, schema)
	if err != nil {
		return nil, err
	}
	fields["job_count"] = res.JobCount
	fields["alert_count"] = res.AlertCount
	return res, nil
}

// importSchema validates, converts, and persists a backlog in one
// transaction. Validation collects every problem before anything is written,
// so a bad file reports all its defects in one pass.
func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema, s.shop.Pipeline); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	backlog, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		jobRepo := repository.NewSQLiteJobRepo(tx)
		alertRepo := repository.NewSQLiteAlertRepo(tx)
		for i := range backlog.Jobs {
			if err := jobRepo.Create(ctx, &backlog.Jobs[i]); err != nil {
				return fmt.Errorf("importing job %q: %w", backlog.Jobs[i].JobNumber, err)
			}
		}
		for i := range backlog.Alerts {
			if err := alertRepo.Create(ctx, &backlog.Alerts[i]); err != nil {
				return fmt.Errorf("importing alert for job %s: %w", backlog.Alerts[i].JobID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		JobCount:   len(backlog.Jobs),
		AlertCount: len(backlog.Alerts),
	}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return fmt.Errorf("%s", b.String())
}

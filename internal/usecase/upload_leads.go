package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/xavierca1/lead-engine/internal/entity"
	"github.com/xavierca1/lead-engine/internal/infra/parser"
	"github.com/xavierca1/lead-engine/internal/infra/queue"
	"go.uber.org/zap"
)

type UploadLeadsOutput struct {
	Success    bool                    `json:"success"`
	Count      int                     `json:"count"`
	Rejected   int                     `json:"rejected"`
	Categories map[entity.Category]int `json:"categories"`
	Errors     []parser.RowError       `json:"errors,omitempty"`
	Message    string                  `json:"message"`
}

type UploadLeadsUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Rules     *entity.ScoringRules
	Publisher LeadEventPublisher // optional
	Logger    *zap.Logger
}

func NewUploadLeadsUseCase(
	repo entity.LeadRepositoryInterface,
	rules *entity.ScoringRules,
	publisher LeadEventPublisher,
	logger *zap.Logger,
) *UploadLeadsUseCase {
	return &UploadLeadsUseCase{
		Repo:      repo,
		Rules:     rules,
		Publisher: publisher,
		Logger:    logger.Named("upload"),
	}
}

// Execute parses, validates and scores every row, then stores the accepted
// rows in a single batch. Bad rows are counted and reported, never fatal.
func (uc *UploadLeadsUseCase) Execute(ctx context.Context, r io.Reader) (*UploadLeadsOutput, error) {
	parsed, err := parser.ParseLeads(r)
	if err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidCSV,
			Message: err.Error(),
		}
	}

	rowErrors := append([]parser.RowError(nil), parsed.Errors...)
	leads := make([]entity.Lead, 0, len(parsed.Rows))

	for _, row := range parsed.Rows {
		if errs := ValidateRawLead(row.Lead); len(errs) > 0 {
			rowErrors = append(rowErrors, parser.RowError{
				Row:     row.Line,
				Message: joinValidationErrors(errs),
			})
			continue
		}
		leads = append(leads, *entity.NewLead(row.Lead, uc.Rules))
	}

	if len(leads) == 0 && len(rowErrors) == 0 {
		return nil, &DomainError{
			Code:    CodeEmptyUpload,
			Message: "file contains no data rows",
		}
	}

	if len(leads) > 0 {
		if _, err := uc.Repo.InsertMany(ctx, leads); err != nil {
			return nil, &TechnicalError{
				Code:    CodeDatabase,
				Message: "failed to store leads",
				Err:     err,
			}
		}
	}

	categories := map[entity.Category]int{
		entity.CategoryHot:  0,
		entity.CategoryWarm: 0,
		entity.CategoryCold: 0,
	}
	for _, l := range leads {
		categories[l.Category]++
	}

	uc.publishHotLeads(ctx, leads)

	uc.Logger.Info("leads uploaded",
		zap.Int("accepted", len(leads)),
		zap.Int("rejected", len(rowErrors)),
		zap.Int("hot", categories[entity.CategoryHot]))

	return &UploadLeadsOutput{
		Success:    len(leads) > 0,
		Count:      len(leads),
		Rejected:   len(rowErrors),
		Categories: categories,
		Errors:     rowErrors,
		Message:    uploadMessage(len(leads), len(rowErrors)),
	}, nil
}

// Leads are already stored at this point, so a broker outage only costs the
// alert.
func (uc *UploadLeadsUseCase) publishHotLeads(ctx context.Context, leads []entity.Lead) {
	if uc.Publisher == nil {
		return
	}

	for _, l := range leads {
		if l.Category != entity.CategoryHot {
			continue
		}
		if err := uc.Publisher.PublishHotLead(ctx, queue.NewHotLeadPayload(l)); err != nil {
			uc.Logger.Error("failed to publish hot lead",
				zap.String("lead_id", l.ID),
				zap.Error(err))
		}
	}
}

func uploadMessage(accepted, rejected int) string {
	switch {
	case accepted == 0:
		return fmt.Sprintf("No leads uploaded, %d rows rejected", rejected)
	case rejected > 0:
		return fmt.Sprintf("Uploaded %d leads, %d rows rejected", accepted, rejected)
	default:
		return fmt.Sprintf("Successfully uploaded %d leads", accepted)
	}
}

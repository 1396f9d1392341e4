package service

import (
	"context"
	"fmt"
	"time"

	"github.com/growflow/backend/internal/domain"
	apperrors "github.com/growflow/backend/pkg/util"
)

// Spreadsheet rows are numbered from 1 with a header row, so data row i maps
// to spreadsheet row i+2.
const importRowOffset = 2

// Imported accounts start with a placeholder password; customers are expected
// to reset it before first login.
const defaultImportPassword = "changeme123"

// ImportService bulk-loads customers, optionally with quotes, from
// spreadsheet-shaped rows.
type ImportService struct {
	customers *CustomerService
	quotes    *QuoteService
}

// NewImportService constructs the service.
func NewImportService(customers *CustomerService, quotes *QuoteService) *ImportService {
	return &ImportService{customers: customers, quotes: quotes}
}

// ImportRow is one parsed spreadsheet row.
type ImportRow struct {
	FullName        string
	Phone           string
	Email           string
	City            string
	Community       string
	Landmark        string
	WasteType       domain.WasteType
	Frequency       domain.Frequency
	AgreedAmountUSD *domain.Amount
	AgreedAmountLRD *domain.Amount
	StartDate       *time.Time
	Notes           *string
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

// Import processes rows independently; one bad row never aborts the batch.
// Rows with an agreed amount also get a quote issued by the importing staff
// user.
func (s *ImportService) Import(ctx context.Context, staffID string, rows []ImportRow) *ImportResult {
	result := &ImportResult{}

	for i, row := range rows {
		rowNum := i + importRowOffset
		if err := s.importRow(ctx, staffID, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, importErrorMessage(err)))
			continue
		}
		result.Succeeded++
	}
	return result
}

func (s *ImportService) importRow(ctx context.Context, staffID string, row ImportRow) error {
	customer, err := s.customers.Register(ctx, RegisterInput{
		FullName:  row.FullName,
		Phone:     row.Phone,
		Email:     row.Email,
		Password:  defaultImportPassword,
		City:      row.City,
		Community: row.Community,
		Landmark:  row.Landmark,
		WasteType: row.WasteType,
		Frequency: row.Frequency,
	})
	if err != nil {
		return err
	}

	if row.AgreedAmountUSD == nil {
		return nil
	}
	startDate := time.Now()
	if row.StartDate != nil {
		startDate = *row.StartDate
	}
	_, _, err = s.quotes.IssueQuote(ctx, staffID, customer.ID, QuoteInput{
		AmountUSD: *row.AgreedAmountUSD,
		AmountLRD: row.AgreedAmountLRD,
		StartDate: startDate,
		Notes:     row.Notes,
	})
	return err
}

func importErrorMessage(err error) string {
	if domainErr := apperrors.ToDomainError(err); domainErr != nil {
		return domainErr.Message
	}
	return err.Error()
}

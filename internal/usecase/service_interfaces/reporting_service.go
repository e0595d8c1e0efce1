package service_interfaces

import (
	"context"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
)

// ReportingService serves read-only queries over committed log entries. It
// never mutates ledger state.
type ReportingService interface {
	History(ctx context.Context, accountID string) (commons.Response[models.AccountHistoryResponse], error)
	Summary(ctx context.Context) (commons.Response[models.TransactionSummaryResponse], error)
	ListTransactions(ctx context.Context) (commons.Response[[]models.TransactionRecord], error)
	GetTransaction(ctx context.Context, transactionID string) (commons.Response[models.TransactionRecord], error)
}

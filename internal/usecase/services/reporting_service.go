package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/repository/repo_interfaces"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/logger"
)

// ReportingService answers read-only queries over the transaction log. It
// only ever sees committed atomic units, so a reported record is never a mix
// of two postings.
type ReportingService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
}

func NewReportingService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
) *ReportingService {
	return &ReportingService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// History returns the account's transactions split the way tellers read a
// statement: entries where the account was debited, then entries where it
// was credited.
func (s *ReportingService) History(ctx context.Context, accountID string) (commons.Response[models.AccountHistoryResponse], error) {
	accountID = strings.TrimSpace(accountID)

	if _, err := s.accountRepo.GetByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			err = fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
			return commons.ErrorResponse[models.AccountHistoryResponse]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.AccountHistoryResponse]("failed to fetch history", "Unable to fetch history right now"), err
	}

	debits, err := s.transactionRepo.List(ctx, domain.TransactionFilter{FromAccountID: accountID})
	if err != nil {
		return commons.ErrorResponse[models.AccountHistoryResponse]("failed to fetch history", "Unable to fetch history right now"), err
	}
	credits, err := s.transactionRepo.List(ctx, domain.TransactionFilter{ToAccountID: accountID})
	if err != nil {
		return commons.ErrorResponse[models.AccountHistoryResponse]("failed to fetch history", "Unable to fetch history right now"), err
	}

	history := models.AccountHistoryResponse{
		Debit:  mapTransactionRecords(debits),
		Credit: mapTransactionRecords(credits),
	}
	return commons.SuccessResponse("History fetched", history), nil
}

func (s *ReportingService) Summary(ctx context.Context) (commons.Response[models.TransactionSummaryResponse], error) {
	total, err := s.transactionRepo.Aggregate(ctx, domain.TransactionFilter{})
	if err != nil {
		return commons.ErrorResponse[models.TransactionSummaryResponse]("failed to fetch summary", "Unable to fetch summary right now"), err
	}
	deposits, err := s.transactionRepo.Aggregate(ctx, domain.TransactionFilter{Type: domain.TransactionTypeDeposit})
	if err != nil {
		return commons.ErrorResponse[models.TransactionSummaryResponse]("failed to fetch summary", "Unable to fetch summary right now"), err
	}
	withdrawals, err := s.transactionRepo.Aggregate(ctx, domain.TransactionFilter{Type: domain.TransactionTypeWithdraw})
	if err != nil {
		return commons.ErrorResponse[models.TransactionSummaryResponse]("failed to fetch summary", "Unable to fetch summary right now"), err
	}
	transfers, err := s.transactionRepo.Aggregate(ctx, domain.TransactionFilter{Type: domain.TransactionTypeTransfer})
	if err != nil {
		return commons.ErrorResponse[models.TransactionSummaryResponse]("failed to fetch summary", "Unable to fetch summary right now"), err
	}

	summary := models.TransactionSummaryResponse{
		TotalTransactionsCount: total.Count,
		TotalDepositsCount:     deposits.Count,
		TotalWithdrawalsCount:  withdrawals.Count,
		TotalTransferCount:     transfers.Count,
		TotalWithdrawalsAmount: withdrawals.Sum.StringFixed(2),
		TotalDepositsAmount:    deposits.Sum.StringFixed(2),
		NetCashFlow:            deposits.Sum.Sub(withdrawals.Sum).StringFixed(2),
	}

	logger.Info("reporting service summary", logger.Fields{
		"totalTransactions": summary.TotalTransactionsCount,
		"netCashFlow":       summary.NetCashFlow,
	})
	return commons.SuccessResponse("Summary fetched", summary), nil
}

func (s *ReportingService) ListTransactions(ctx context.Context) (commons.Response[[]models.TransactionRecord], error) {
	transactions, err := s.transactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return commons.ErrorResponse[[]models.TransactionRecord]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	return commons.SuccessResponse("Transactions fetched", mapTransactionRecords(transactions)), nil
}

func (s *ReportingService) GetTransaction(ctx context.Context, transactionID string) (commons.Response[models.TransactionRecord], error) {
	txn, err := s.transactionRepo.GetByTransactionID(ctx, strings.TrimSpace(transactionID))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionRecord]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.TransactionRecord]("failed to fetch transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("Transaction fetched", mapTransactionRecord(txn)), nil
}

func mapTransactionRecords(transactions []domain.Transaction) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, len(transactions))
	for _, txn := range transactions {
		records = append(records, mapTransactionRecord(txn))
	}
	return records
}

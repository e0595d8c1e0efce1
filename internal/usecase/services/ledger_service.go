package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/repository/repo_interfaces"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/logger"
	"github.com/shopspring/decimal"
)

// LedgerService is the transaction engine: it validates posting requests and
// hands them to the repository as single atomic units. It keeps no state of
// its own beyond collaborator handles, so one instance serves concurrent
// callers.
type LedgerService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	clock           func() time.Time
}

func NewLedgerService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	clock func() time.Time,
) *LedgerService {
	if clock == nil {
		clock = time.Now
	}
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		clock:           clock,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionReceipt], error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionReceipt]("validation failed", err.Error()), err
	}

	accountID := strings.TrimSpace(req.AccountID)
	if err := s.accountExists(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionReceipt]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process deposit", "Unable to process deposit right now"), err
	}

	txn := domain.Transaction{
		Type:        domain.TransactionTypeDeposit,
		ToAccountID: &accountID,
		Amount:      req.Amount,
		Timestamp:   s.resolveTimestamp(req.Timestamp),
	}

	posted, balance, err := s.postWithRetry(ctx, txn, s.transactionRepo.PostDeposit)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionReceipt]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process deposit", "Unable to process deposit right now"), err
	}

	receipt := mapTransactionReceipt(posted, balance)
	logger.Info("ledger service deposit success", logger.Fields{
		"transactionId": posted.TransactionID,
		"accountId":     accountID,
	})
	return commons.SuccessResponse("Deposit successful", receipt), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionReceipt], error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionReceipt]("validation failed", err.Error()), err
	}

	accountID := strings.TrimSpace(req.AccountID)
	if err := s.accountExists(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionReceipt]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process withdrawal", "Unable to process withdrawal right now"), err
	}

	txn := domain.Transaction{
		Type:          domain.TransactionTypeWithdraw,
		FromAccountID: &accountID,
		Amount:        req.Amount,
		Timestamp:     s.resolveTimestamp(req.Timestamp),
	}

	posted, balance, err := s.postWithRetry(ctx, txn, s.transactionRepo.PostWithdrawal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			return commons.ErrorResponse[models.TransactionReceipt]("Insufficient balance", err.Error()), err
		case errors.Is(err, domain.ErrAccountNotFound):
			return commons.ErrorResponse[models.TransactionReceipt]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process withdrawal", "Unable to process withdrawal right now"), err
	}

	receipt := mapTransactionReceipt(posted, balance)
	logger.Info("ledger service withdraw success", logger.Fields{
		"transactionId": posted.TransactionID,
		"accountId":     accountID,
	})
	return commons.SuccessResponse("Withdrawal successful", receipt), nil
}

func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionReceipt], error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionReceipt]("validation failed", err.Error()), err
	}

	fromAccountID := strings.TrimSpace(req.FromAccountID)
	toAccountID := strings.TrimSpace(req.ToAccountID)

	if err := s.accountExists(ctx, fromAccountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionReceipt]("Debit account not found"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process transfer", "Unable to process transfer right now"), err
	}
	if err := s.accountExists(ctx, toAccountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionReceipt]("Credit account not found"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process transfer", "Unable to process transfer right now"), err
	}

	txn := domain.Transaction{
		Type:          domain.TransactionTypeTransfer,
		FromAccountID: &fromAccountID,
		ToAccountID:   &toAccountID,
		Amount:        req.Amount,
		Timestamp:     s.resolveTimestamp(req.Timestamp),
	}

	posted, balance, err := s.postWithRetry(ctx, txn, s.transactionRepo.PostTransfer)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			return commons.ErrorResponse[models.TransactionReceipt]("Insufficient balance", err.Error()), err
		case errors.Is(err, domain.ErrAccountNotFound):
			return commons.ErrorResponse[models.TransactionReceipt]("Debit or credit account not found"), err
		}
		return commons.ErrorResponse[models.TransactionReceipt]("failed to process transfer", "Unable to process transfer right now"), err
	}

	receipt := mapTransactionReceipt(posted, balance)
	logger.Info("ledger service transfer success", logger.Fields{
		"transactionId": posted.TransactionID,
		"fromAccountId": fromAccountID,
		"toAccountId":   toAccountID,
	})
	return commons.SuccessResponse("Transfer successful", receipt), nil
}

func (s *LedgerService) accountExists(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.GetByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
		}
		return err
	}
	return nil
}

// postWithRetry executes one posting attempt per candidate transaction id.
// Only an identifier collision is retried; every other failure has already
// rolled back and is returned as-is.
func (s *LedgerService) postWithRetry(
	ctx context.Context,
	txn domain.Transaction,
	post func(context.Context, domain.Transaction) (domain.Transaction, decimal.Decimal, error),
) (domain.Transaction, decimal.Decimal, error) {
	var err error
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		txn.TransactionID = newTransactionID()

		var posted domain.Transaction
		var balance decimal.Decimal
		posted, balance, err = post(ctx, txn)
		if err == nil {
			return posted, balance, nil
		}
		if !errors.Is(err, commons.ErrDuplicateRecord) {
			return domain.Transaction{}, decimal.Zero, err
		}
	}
	return domain.Transaction{}, decimal.Zero, fmt.Errorf("%w: transaction id after %d attempts", domain.ErrIdentifierSpaceExhausted, maxIdentifierAttempts)
}

func (s *LedgerService) resolveTimestamp(override *time.Time) time.Time {
	if override == nil {
		return s.clock().UTC()
	}
	logger.Info("ledger service caller supplied timestamp override", logger.Fields{
		"timestamp": override.UTC(),
	})
	return override.UTC()
}

func mapTransactionRecord(txn domain.Transaction) models.TransactionRecord {
	record := models.TransactionRecord{
		TransactionID:   txn.TransactionID,
		TransactionType: string(txn.Type),
		Amount:          txn.Amount.StringFixed(2),
		Timestamp:       txn.Timestamp.UTC().Format(time.RFC3339),
	}
	if txn.FromAccountID != nil {
		record.FromAccountID = *txn.FromAccountID
	}
	if txn.ToAccountID != nil {
		record.ToAccountID = *txn.ToAccountID
	}
	return record
}

func mapTransactionReceipt(txn domain.Transaction, balance decimal.Decimal) models.TransactionReceipt {
	return models.TransactionReceipt{
		TransactionRecord: mapTransactionRecord(txn),
		UpdatedBalance:    balance.StringFixed(2),
	}
}

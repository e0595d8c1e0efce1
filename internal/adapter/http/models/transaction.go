package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/domain"
	"github.com/shopspring/decimal"
)

// Timestamp is optional on every posting request. When absent the engine
// stamps server time; when present it is honored as an audited backfill
// override.

type DepositRequest struct {
	AccountID string          `json:"account_no"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

func (r DepositRequest) Validate() error {
	if !isNineDigits(r.AccountID) {
		return fmt.Errorf("account_no must be exactly 9 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

type WithdrawRequest struct {
	AccountID string          `json:"account_no"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

func (r WithdrawRequest) Validate() error {
	if !isNineDigits(r.AccountID) {
		return fmt.Errorf("account_no must be exactly 9 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     *time.Time      `json:"timestamp,omitempty"`
}

func (r TransferRequest) Validate() error {
	// Compare the trimmed ids: the engine posts trimmed values, so padded
	// input must not slip past the same-account check.
	from := strings.TrimSpace(r.FromAccountID)
	to := strings.TrimSpace(r.ToAccountID)

	if !isNineDigits(from) {
		return fmt.Errorf("from_account_id must be exactly 9 digits")
	}
	if !isNineDigits(to) {
		return fmt.Errorf("to_account_id must be exactly 9 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if from == to {
		return domain.ErrSameAccountTransfer
	}
	return nil
}

type TransactionRecord struct {
	TransactionID   string `json:"transaction_id"`
	TransactionType string `json:"transaction_type"`
	FromAccountID   string `json:"from_account_id,omitempty"`
	ToAccountID     string `json:"to_account_id,omitempty"`
	Amount          string `json:"amount"`
	Timestamp       string `json:"timestamp"`
}

// TransactionReceipt is the posting result: the created log entry plus the
// balance of the mutated account (the debited side for transfers).
type TransactionReceipt struct {
	TransactionRecord
	UpdatedBalance string `json:"updated_balance"`
}

type AccountHistoryResponse struct {
	Debit  []TransactionRecord `json:"debit"`
	Credit []TransactionRecord `json:"credit"`
}

type TransactionSummaryResponse struct {
	TotalTransactionsCount int64  `json:"total_transactions_count"`
	TotalDepositsCount     int64  `json:"total_deposits_count"`
	TotalWithdrawalsCount  int64  `json:"total_withdrawals_count"`
	TotalTransferCount     int64  `json:"total_transfer_count"`
	TotalWithdrawalsAmount string `json:"total_withdrawals_amount"`
	TotalDepositsAmount    string `json:"total_deposits_amount"`
	NetCashFlow            string `json:"net_cash_flow"`
}

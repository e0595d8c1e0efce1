package service_interfaces

import (
	"context"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
)

// LedgerService is the narrow contract the external API layer calls to move
// money. Every operation is one atomic unit against the ledger store.
type LedgerService interface {
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionReceipt], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionReceipt], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionReceipt], error)
}

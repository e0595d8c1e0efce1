package service_interfaces

import (
	"context"

	"github.com/Hasan-Saju/Bank-Teller-App/internal/adapter/http/models"
	"github.com/Hasan-Saju/Bank-Teller-App/internal/commons"
)

type AccountService interface {
	OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	ListAccountsForOwner(ctx context.Context, ownerID string) (commons.Response[[]models.AccountResponse], error)
}

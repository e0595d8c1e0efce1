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
	"github.com/Hasan-Saju/Bank-Teller-App/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	registry    service_interfaces.Registry
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	registry service_interfaces.Registry,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		registry:    registry,
	}
}

func (s *AccountService) OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service open account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	productID := strings.TrimSpace(req.ProductID)

	ownerOK, err := s.registry.OwnerExists(ctx, ownerID)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}
	productOK, err := s.registry.ProductExists(ctx, productID)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}
	if !ownerOK || !productOK {
		err := fmt.Errorf("invalid client_id or product_id")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	var created domain.Account
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		account := domain.Account{
			AccountID: newAccountID(),
			OwnerID:   ownerID,
			ProductID: productID,
			Balance:   decimal.Zero,
		}

		created, err = s.accountRepo.Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, commons.ErrDuplicateRecord) {
			return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
		}
	}
	if err != nil {
		err = fmt.Errorf("%w: account id after %d attempts", domain.ErrIdentifierSpaceExhausted, maxIdentifierAttempts)
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", err.Error()), err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId": created.AccountID,
		"ownerId":   created.OwnerID,
	})
	return commons.SuccessResponse("Account opened", mapAccountResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByAccountID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			err = fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
			return commons.ErrorResponse[models.AccountResponse]("Account does not exist"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to fetch account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("Account fetched", mapAccountResponse(account)), nil
}

func (s *AccountService) ListAccountsForOwner(ctx context.Context, ownerID string) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.ListByOwnerID(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to fetch accounts", "Unable to fetch accounts right now"), err
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, mapAccountResponse(account))
	}
	return commons.SuccessResponse("Accounts fetched", responses), nil
}

func mapAccountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountID: account.AccountID,
		OwnerID:   account.OwnerID,
		ProductID: account.ProductID,
		Balance:   account.Balance.StringFixed(2),
		CreatedAt: account.CreatedAt.UTC().Format(time.RFC3339),
	}
}

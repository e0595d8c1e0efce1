package models

import (
	"errors"
	"strings"
)

type OpenAccountRequest struct {
	OwnerID   string `json:"client_id"`
	ProductID string `json:"product_id"`
}

func (r OpenAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OwnerID) == "" {
		errs = append(errs, "client_id is required")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		errs = append(errs, "product_id is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	AccountID string `json:"account_id"`
	OwnerID   string `json:"client_id"`
	ProductID string `json:"product_id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

func isNineDigits(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 9 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}

package domain

import "errors"

var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInsufficientFunds = errors.New("insufficient balance")
var ErrSameAccountTransfer = errors.New("debit and credit account cannot be the same")
var ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")
var ErrOperationTimeout = errors.New("operation timed out waiting for account lock")

package ledgerxgo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInternalServer = errors.New("internal server error")
	// ErrServiceBusy is returned by the limit middleware when an operation
	// cannot acquire its concurrency slot within the configured timeout.
	ErrServiceBusy = errors.New("service busy")
)

type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	ID string `json:"id"`
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("account `%s` does not exist", e.ID)
}

type ErrAlreadyExists struct {
	ID string `json:"id"`
}

func (e ErrAlreadyExists) Error() string {
	return fmt.Sprintf("account `%s` already exists", e.ID)
}

type ErrInvalidAmount struct {
	Amount decimal.Decimal `json:"amount"`
}

func (e ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount `%s`", e.Amount)
}

type ErrInsufficientFunds struct {
	ID string `json:"id"`
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds in account `%s`", e.ID)
}

type ErrSameAccount struct {
	ID string `json:"id"`
}

func (e ErrSameAccount) Error() string {
	return fmt.Sprintf("transfer from account `%s` to itself", e.ID)
}

package ledgerxgo

import (
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateAccount(id string) error
	Balance(id string) (decimal.Decimal, error)
	Deposit(id string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(id string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(from, to string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
	Accounts() []AccountBalance
}

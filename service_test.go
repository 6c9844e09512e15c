package ledgerxgo_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arhyth/ledgerxgo"
	"github.com/arhyth/ledgerxgo/mocks"
)

func TestServiceDeposit(t *testing.T) {
	t.Run("returns decimal.Decimal balance on success", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		log := zerolog.Nop()
		svc := ledgerxgo.NewService(repo, &log)

		amount := decimal.RequireFromString("123.45")
		repo.EXPECT().
			Deposit("alice", amount).
			Return(amount, nil)
		bal, err := svc.Deposit(ledgerxgo.ChargeReq{AcctID: "alice", Amount: amount})
		reqrd.Nil(err)
		as.True(amount.Equal(*bal))
	})

	t.Run("propagates repository failure", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		log := zerolog.Nop()
		svc := ledgerxgo.NewService(repo, &log)

		amount := decimal.NewFromInt(-1)
		repo.EXPECT().
			Deposit("alice", amount).
			Return(decimal.Zero, ledgerxgo.ErrInvalidAmount{Amount: amount})
		bal, err := svc.Deposit(ledgerxgo.ChargeReq{AcctID: "alice", Amount: amount})
		as.ErrorAs(err, &ledgerxgo.ErrInvalidAmount{})
		as.Nil(bal)
	})
}

func TestServiceWithdraw(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	log := zerolog.Nop()
	svc := ledgerxgo.NewService(repo, &log)

	amount := decimal.NewFromInt(40)
	left := decimal.NewFromInt(60)
	repo.EXPECT().
		Withdraw("alice", amount).
		Return(left, nil)
	bal, err := svc.Withdraw(ledgerxgo.ChargeReq{AcctID: "alice", Amount: amount})
	reqrd.Nil(err)
	as.True(left.Equal(*bal))
}

func TestServiceTransfer(t *testing.T) {
	t.Run("returns both post-transfer balances", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		log := zerolog.Nop()
		svc := ledgerxgo.NewService(repo, &log)

		amount := decimal.NewFromInt(100)
		repo.EXPECT().
			Transfer("alice", "bob", amount).
			Return(decimal.Zero, amount, nil)
		pair, err := svc.Transfer(ledgerxgo.TransferReq{
			FromID: "alice",
			ToID:   "bob",
			Amount: amount,
		})
		reqrd.Nil(err)
		as.True(pair.From.IsZero())
		as.True(amount.Equal(pair.To))
	})

	t.Run("propagates same-account failure", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		log := zerolog.Nop()
		svc := ledgerxgo.NewService(repo, &log)

		amount := decimal.NewFromInt(1)
		repo.EXPECT().
			Transfer("alice", "alice", amount).
			Return(decimal.Zero, decimal.Zero, ledgerxgo.ErrSameAccount{ID: "alice"})
		pair, err := svc.Transfer(ledgerxgo.TransferReq{
			FromID: "alice",
			ToID:   "alice",
			Amount: amount,
		})
		as.ErrorAs(err, &ledgerxgo.ErrSameAccount{})
		as.Nil(pair)
	})
}

func TestServiceSummary(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	log := zerolog.Nop()
	svc := ledgerxgo.NewService(repo, &log)

	repo.EXPECT().
		Accounts().
		Return([]ledgerxgo.AccountBalance{
			{ID: "alice", Balance: decimal.RequireFromString("250.00")},
			{ID: "bob", Balance: decimal.RequireFromString("100.50")},
		})

	buf := new(bytes.Buffer)
	err := svc.Summary(buf)
	reqrd.Nil(err)
	as.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "summary output is not a PDF")
}

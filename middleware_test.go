package ledgerxgo_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arhyth/ledgerxgo"
	"github.com/arhyth/ledgerxgo/mocks"
)

func TestLimitMiddleware(t *testing.T) {
	t.Run("sheds calls over the in-flight limit", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)

		started := make(chan struct{})
		release := make(chan struct{})
		bal := decimal.NewFromInt(1)
		svc.EXPECT().
			Deposit(gomock.AssignableToTypeOf(ledgerxgo.ChargeReq{})).
			DoAndReturn(func(r ledgerxgo.ChargeReq) (*decimal.Decimal, error) {
				close(started)
				<-release
				return &bal, nil
			}).
			Times(1)

		limits := ledgerxgo.NewServiceLimits(ledgerxgo.LimitsConfig{
			Deposit: 1,
		})
		lmtd := ledgerxgo.NewLimitMiddleware(limits, 50*time.Millisecond)(svc)

		errc := make(chan error, 1)
		go func() {
			_, err := lmtd.Deposit(ledgerxgo.ChargeReq{AcctID: "alice", Amount: bal})
			errc <- err
		}()
		<-started

		// slot is taken, this one must be shed
		_, err := lmtd.Deposit(ledgerxgo.ChargeReq{AcctID: "bob", Amount: bal})
		as.ErrorIs(err, ledgerxgo.ErrServiceBusy)

		close(release)
		reqrd.Nil(<-errc)
	})

	t.Run("passes calls through under the limit", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		bal := decimal.NewFromInt(1)
		svc.EXPECT().
			Balance(gomock.AssignableToTypeOf(ledgerxgo.BalanceReq{})).
			Return(&bal, nil).
			Times(1)

		limits := ledgerxgo.NewServiceLimits(ledgerxgo.LimitsConfig{})
		lmtd := ledgerxgo.NewLimitMiddleware(limits, 0)(svc)

		got, err := lmtd.Balance(ledgerxgo.BalanceReq{AcctID: "alice"})
		as.Nil(err)
		as.True(bal.Equal(*got))
	})
}

func TestCircuitBreakMiddleware(t *testing.T) {
	t.Run("opens after consecutive shed calls", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Deposit(gomock.AssignableToTypeOf(ledgerxgo.ChargeReq{})).
			Return(nil, ledgerxgo.ErrServiceBusy).
			Times(2)

		brkrs := ledgerxgo.NewServiceBreaker(ledgerxgo.BreakerConfig{
			TimeoutMS:           60_000,
			ConsecutiveFailures: 2,
		})
		brkd := ledgerxgo.NewCircuitBreakMiddleware(brkrs)(svc)

		req := ledgerxgo.ChargeReq{AcctID: "alice", Amount: decimal.NewFromInt(1)}
		for i := 0; i < 2; i++ {
			_, err := brkd.Deposit(req)
			as.ErrorIs(err, ledgerxgo.ErrServiceBusy)
		}

		// breaker is open; the service must not see this call
		_, err := brkd.Deposit(req)
		as.ErrorIs(err, gobreaker.ErrOpenState)
	})

	t.Run("ledger failures are expected outcomes and do not trip it", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.AssignableToTypeOf(ledgerxgo.ChargeReq{})).
			Return(nil, ledgerxgo.ErrInsufficientFunds{ID: "alice"}).
			Times(5)

		brkrs := ledgerxgo.NewServiceBreaker(ledgerxgo.BreakerConfig{
			TimeoutMS:           60_000,
			ConsecutiveFailures: 2,
		})
		brkd := ledgerxgo.NewCircuitBreakMiddleware(brkrs)(svc)

		req := ledgerxgo.ChargeReq{AcctID: "alice", Amount: decimal.NewFromInt(1)}
		for i := 0; i < 5; i++ {
			_, err := brkd.Withdraw(req)
			as.ErrorAs(err, &ledgerxgo.ErrInsufficientFunds{})
		}
	})
}

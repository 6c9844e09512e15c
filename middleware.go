package ledgerxgo

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

//
// Load shedding middleware
//

// limitMiddleware bounds the number of in-flight calls per operation with a
// weighted semaphore, i.e., x/sync/semaphore.Weighted with an acquisition
// timeout. A call that cannot acquire a slot within the timeout is shed with
// ErrServiceBusy instead of queueing behind the ledger guard.
type limitMiddleware struct {
	next    Service
	limits  *ServiceLimits
	timeout time.Duration
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	CreateAccount *semaphore.Weighted
	Balance       *semaphore.Weighted
	Deposit       *semaphore.Weighted
	Withdraw      *semaphore.Weighted
	Transfer      *semaphore.Weighted
	Summary       *semaphore.Weighted
}

func NewServiceLimits(cfg LimitsConfig) *ServiceLimits {
	sem := func(n int64) *semaphore.Weighted {
		if n <= 0 {
			n = 64
		}
		return semaphore.NewWeighted(n)
	}
	return &ServiceLimits{
		CreateAccount: sem(cfg.CreateAccount),
		Balance:       sem(cfg.Balance),
		Deposit:       sem(cfg.Deposit),
		Withdraw:      sem(cfg.Withdraw),
		Transfer:      sem(cfg.Transfer),
		Summary:       sem(cfg.Summary),
	}
}

func NewLimitMiddleware(limits *ServiceLimits, timeout time.Duration) Middleware {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return func(next Service) Service {
		return &limitMiddleware{
			next:    next,
			limits:  limits,
			timeout: timeout,
		}
	}
}

func (l *limitMiddleware) acquire(sem *semaphore.Weighted) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := sem.Acquire(ctx, 1); err != nil {
		return ErrServiceBusy
	}
	return nil
}

func (l *limitMiddleware) CreateAccount(req CreateAccountReq) error {
	if err := l.acquire(l.limits.CreateAccount); err != nil {
		return err
	}
	defer l.limits.CreateAccount.Release(1)
	return l.next.CreateAccount(req)
}

func (l *limitMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	if err := l.acquire(l.limits.Balance); err != nil {
		return nil, err
	}
	defer l.limits.Balance.Release(1)
	return l.next.Balance(req)
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if err := l.acquire(l.limits.Deposit); err != nil {
		return nil, err
	}
	defer l.limits.Deposit.Release(1)
	return l.next.Deposit(req)
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if err := l.acquire(l.limits.Withdraw); err != nil {
		return nil, err
	}
	defer l.limits.Withdraw.Release(1)
	return l.next.Withdraw(req)
}

func (l *limitMiddleware) Transfer(req TransferReq) (*TransferResp, error) {
	if err := l.acquire(l.limits.Transfer); err != nil {
		return nil, err
	}
	defer l.limits.Transfer.Release(1)
	return l.next.Transfer(req)
}

func (l *limitMiddleware) Summary(w io.Writer) error {
	if err := l.acquire(l.limits.Summary); err != nil {
		return err
	}
	defer l.limits.Summary.Release(1)
	return l.next.Summary(w)
}

//
// Circuit breaking middleware
//

type ServiceBreaker struct {
	CreateAccount *gobreaker.TwoStepCircuitBreaker[interface{}]
	Balance       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Deposit       *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Withdraw      *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Transfer      *gobreaker.TwoStepCircuitBreaker[*TransferResp]
	Summary       *gobreaker.TwoStepCircuitBreaker[interface{}]
}

func NewServiceBreaker(cfg BreakerConfig) *ServiceBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 16
	}
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: cfg.MaxRequests,
			Timeout:     time.Duration(cfg.TimeoutMS) * time.Millisecond,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
		}
	}
	return &ServiceBreaker{
		CreateAccount: gobreaker.NewTwoStepCircuitBreaker[interface{}](settings("create_account")),
		Balance:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](settings("balance")),
		Deposit:       gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](settings("deposit")),
		Withdraw:      gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](settings("withdraw")),
		Transfer:      gobreaker.NewTwoStepCircuitBreaker[*TransferResp](settings("transfer")),
		Summary:       gobreaker.NewTwoStepCircuitBreaker[interface{}](settings("summary")),
	}
}

// circuitBreakMiddleware implements the circuit breaker pattern in
// conjunction with limitMiddleware: the breaker opens when calls keep being
// shed, i.e., the service is struggling to release limit semaphore slots
// within the acquisition timeout. Ledger-level typed failures (not found,
// insufficient funds, ...) are expected outcomes and count as successes.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

func (c *circuitBreakMiddleware) CreateAccount(req CreateAccountReq) error {
	done, err := c.brkrs.CreateAccount.Allow()
	if err != nil {
		return err
	}
	err = c.next.CreateAccount(req)
	done(!errors.Is(err, ErrServiceBusy))
	return err
}

func (c *circuitBreakMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Balance.Allow()
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Balance(req)
	done(!errors.Is(err, ErrServiceBusy))
	return bal, err
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Deposit.Allow()
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Deposit(req)
	done(!errors.Is(err, ErrServiceBusy))
	return bal, err
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Withdraw.Allow()
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Withdraw(req)
	done(!errors.Is(err, ErrServiceBusy))
	return bal, err
}

func (c *circuitBreakMiddleware) Transfer(req TransferReq) (*TransferResp, error) {
	done, err := c.brkrs.Transfer.Allow()
	if err != nil {
		return nil, err
	}
	pair, err := c.next.Transfer(req)
	done(!errors.Is(err, ErrServiceBusy))
	return pair, err
}

func (c *circuitBreakMiddleware) Summary(w io.Writer) error {
	done, err := c.brkrs.Summary.Allow()
	if err != nil {
		return err
	}
	err = c.next.Summary(w)
	done(!errors.Is(err, ErrServiceBusy))
	return err
}

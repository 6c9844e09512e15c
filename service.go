package ledgerxgo

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CreateAccountReq struct {
	AcctID string
}

type ChargeReq struct {
	Amount decimal.Decimal `json:"amount"`
	AcctID string
}

type BalanceReq struct {
	AcctID string
}

type TransferReq struct {
	Amount decimal.Decimal `json:"amount"`
	FromID string
	ToID   string
}

// TransferResp carries the post-transfer balances of both accounts.
type TransferResp struct {
	From decimal.Decimal `json:"from"`
	To   decimal.Decimal `json:"to"`
}

type Service interface {
	CreateAccount(CreateAccountReq) error
	Balance(BalanceReq) (*decimal.Decimal, error)
	Deposit(ChargeReq) (*decimal.Decimal, error)
	Withdraw(ChargeReq) (*decimal.Decimal, error)
	Transfer(TransferReq) (*TransferResp, error)
	Summary(io.Writer) error
}

func NewService(repo Repository, log *zerolog.Logger) *serviceImpl {
	return &serviceImpl{
		repo: repo,
		log:  log,
	}
}

type serviceImpl struct {
	repo Repository
	log  *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

func (s *serviceImpl) CreateAccount(req CreateAccountReq) error {
	if err := s.repo.CreateAccount(req.AcctID); err != nil {
		return err
	}
	s.log.Info().Str("acct", req.AcctID).Msg("account created")
	return nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	bal, err := s.repo.Balance(req.AcctID)
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	bal, err := s.repo.Deposit(req.AcctID, req.Amount)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("acct", req.AcctID).
		Str("amount", req.Amount.String()).
		Msg("deposit accepted")
	return &bal, nil
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	bal, err := s.repo.Withdraw(req.AcctID, req.Amount)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("acct", req.AcctID).
		Str("amount", req.Amount.String()).
		Msg("withdrawal accepted")
	return &bal, nil
}

func (s *serviceImpl) Transfer(req TransferReq) (*TransferResp, error) {
	fbal, tbal, err := s.repo.Transfer(req.FromID, req.ToID, req.Amount)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("from", req.FromID).
		Str("to", req.ToID).
		Str("amount", req.Amount.String()).
		Msg("transfer accepted")
	return &TransferResp{From: fbal, To: tbal}, nil
}

// Summary renders a PDF snapshot of every account and the ledger total.
func (s *serviceImpl) Summary(w io.Writer) error {
	accts := s.repo.Accounts()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(190, 10, "Account balances", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	total := decimal.Zero
	for _, a := range accts {
		pdf.CellFormat(95, 8, a.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 8, a.Balance.String(), "1", 1, "R", false, 0, "")
		total = total.Add(a.Balance)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, total.String(), "1", 1, "R", false, 0, "")

	return pdf.Output(w)
}

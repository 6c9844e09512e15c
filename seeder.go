package ledgerxgo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Seeder replays a list of seed accounts against a running server over its
// HTTP surface: one create per account, one deposit for the opening balance.
// The ledger lives in process memory, so there is no store to load directly.
type Seeder struct {
	BaseURL string
	Client  *http.Client
	Log     *zerolog.Logger
}

func NewSeeder(baseURL string, log *zerolog.Logger) *Seeder {
	return &Seeder{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		Log: log,
	}
}

func (s *Seeder) Seed(accts []SeedAccount) error {
	for _, a := range accts {
		bal, err := decimal.NewFromString(a.Balance)
		if err != nil {
			return fmt.Errorf("seed account `%s`: parsing balance: %w", a.ID, err)
		}
		if err = s.createAccount(a.ID); err != nil {
			return err
		}
		if bal.IsZero() {
			continue
		}
		if err = s.deposit(a.ID, bal); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createAccount(id string) error {
	resp, err := s.Client.Post(s.BaseURL+"/create/"+url.PathEscape(id), "application/json", nil)
	if err != nil {
		return fmt.Errorf("seed account `%s`: create: %w", id, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		// already seeded on a previous run
		s.Log.Warn().Str("acct", id).Msg("account already exists, skipping create")
		return nil
	default:
		return fmt.Errorf("seed account `%s`: create: %s", id, readError(resp.Body))
	}
}

func (s *Seeder) deposit(id string, amount decimal.Decimal) error {
	body, err := json.Marshal(amountJSONReq{Amount: &amount})
	if err != nil {
		return fmt.Errorf("seed account `%s`: encoding deposit: %w", id, err)
	}
	resp, err := s.Client.Post(
		s.BaseURL+"/deposit/"+url.PathEscape(id),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("seed account `%s`: deposit: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("seed account `%s`: deposit: %s", id, readError(resp.Body))
	}
	s.Log.Info().Str("acct", id).Str("balance", amount.String()).Msg("account seeded")
	return nil
}

func readError(r io.Reader) string {
	var resp map[string]string
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return "unreadable error response"
	}
	if msg, ok := resp["error"]; ok {
		return msg
	}
	return fmt.Sprintf("%v", resp)
}

package ledgerxgo

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

var (
	resultOK = []byte(`{"result":"OK"}`)
)

// amountJSONReq is the body of every charge endpoint. Amount is a pointer so
// a missing or null field is distinguishable from zero.
type amountJSONReq struct {
	Amount *decimal.Decimal `json:"amount"`
}

type resultJSONResp struct {
	Result decimal.Decimal `json:"result"`
}

type transferJSONResp struct {
	Result TransferResp `json:"result"`
}

func NewHTTPHandler(svc Service, node *snowflake.Node, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc: svc,
		Log: log,
	}
	mux := chi.NewMux()
	mux.Use(requestID(node, log))
	mux.NotFound(HTTPNotFound)
	mux.Post("/create/{id}", hndlr.Create)
	mux.Get("/amount/{id}", hndlr.Amount)
	mux.Post("/deposit/{id}", hndlr.Deposit)
	mux.Post("/withdraw/{id}", hndlr.Withdraw)
	mux.Post("/transfer/{fromID}/{toID}", hndlr.Transfer)
	mux.Get("/summary", hndlr.Summary)

	return mux
}

// requestID stamps each request with a snowflake ID and threads a logger
// carrying it through the request context.
func requestID(node *snowflake.Node, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := node.Generate()
			lg := logger.With().Str("req_id", rid.String()).Logger()
			next.ServeHTTP(w, r.WithContext(lg.WithContext(r.Context())))
		})
	}
}

type httpHandler struct {
	Svc Service
	Log *zerolog.Logger
}

func (h *httpHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := CreateAccountReq{
		AcctID: chi.URLParam(r, "id"),
	}
	if err := h.Svc.CreateAccount(req); err != nil {
		WriteHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resultOK); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("method", "create").Msg("error writing response")
	}
}

func (h *httpHandler) Amount(w http.ResponseWriter, r *http.Request) {
	req := BalanceReq{
		AcctID: chi.URLParam(r, "id"),
	}
	bal, err := h.Svc.Balance(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	resp := resultJSONResp{Result: *bal}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	amount, ok := h.readAmount(w, r, "deposit")
	if !ok {
		return
	}
	req := ChargeReq{
		Amount: *amount,
		AcctID: chi.URLParam(r, "id"),
	}
	bal, err := h.Svc.Deposit(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	resp := resultJSONResp{Result: *bal}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	amount, ok := h.readAmount(w, r, "withdraw")
	if !ok {
		return
	}
	req := ChargeReq{
		Amount: *amount,
		AcctID: chi.URLParam(r, "id"),
	}
	bal, err := h.Svc.Withdraw(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	resp := resultJSONResp{Result: *bal}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	amount, ok := h.readAmount(w, r, "transfer")
	if !ok {
		return
	}
	req := TransferReq{
		Amount: *amount,
		FromID: chi.URLParam(r, "fromID"),
		ToID:   chi.URLParam(r, "toID"),
	}
	pair, err := h.Svc.Transfer(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}

	resp := transferJSONResp{Result: *pair}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		WriteHTTPError(w, err)
	}
}

func (h *httpHandler) Summary(w http.ResponseWriter, r *http.Request) {
	buf := new(bytes.Buffer)
	if err := h.Svc.Summary(buf); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("method", "summary").Msg("error rendering summary")
		WriteHTTPError(w, ErrInternalServer)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := w.Write(buf.Bytes()); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Str("method", "summary").Msg("error writing response")
	}
}

// readAmount parses the `{"amount": <number>}` request body. A malformed body
// or a missing/mistyped amount field is a parse failure, reported as
// ErrBadRequest; the sign of the amount is checked by the ledger, not here.
func (h *httpHandler) readAmount(w http.ResponseWriter, r *http.Request, method string) (*decimal.Decimal, bool) {
	lg := zerolog.Ctx(r.Context())
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		lg.Err(err).Str("method", method).Msg("error reading HTTP request")
		WriteHTTPError(w, ErrInternalServer)
		return nil, false
	}
	var body amountJSONReq
	if err = json.Unmarshal(buf, &body); err != nil {
		lg.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return nil, false
	}
	if body.Amount == nil {
		lg.Error().Str("method", method).Msg("missing/invalid amount")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"amount": "missing or invalid"}})
		return nil, false
	}
	return body.Amount, true
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var ne error
	defer func() {
		if ne != nil {
			log.Error().
				Err(ne).
				Msg("error response encoding failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	write := func(code int, msg string) {
		w.WriteHeader(code)
		ne = enc.Encode(map[string]string{"error": msg})
	}

	errnf := &ErrNotFound{}
	errae := &ErrAlreadyExists{}
	errif := &ErrInsufficientFunds{}
	erria := &ErrInvalidAmount{}
	errsa := &ErrSameAccount{}
	errbr := &ErrBadRequest{}
	switch {
	case errors.As(err, errnf):
		write(http.StatusNotFound, err.Error())
	case errors.As(err, errae):
		write(http.StatusConflict, err.Error())
	case errors.As(err, errif):
		write(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, erria), errors.As(err, errsa), errors.As(err, errbr):
		write(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrServiceBusy),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		write(http.StatusServiceUnavailable, err.Error())
	default:
		write(http.StatusInternalServerError, "server error")
	}
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{
		"path": r.URL.Path,
	}
	json.NewEncoder(w).Encode(resp)
}

package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MrEthical07/bankgate/gateway"
)

type dashboardView struct {
	Totals       *gateway.SystemTotals
	TotalsError  string
	Email        string
	Account      string
	TxID         string
	User         *gateway.User
	FoundAccount *gateway.Account
	History      []gateway.Transaction
	Transaction  *gateway.Transaction
}

// auditorDashboard shows system totals plus at most one lookup selected by query:
// email, account (with history=1 for its transactions) or tx.
func (s *Server) auditorDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := s.bankCtx(r)
	query := r.URL.Query()
	view := &dashboardView{
		Email:   query.Get("email"),
		Account: query.Get("account"),
		TxID:    query.Get("tx"),
	}
	p := page{Title: "Auditor Dashboard", Data: view}
	status := http.StatusOK

	fail := func(err error, msg string) bool {
		if s.sessionExpired(w, r, err) {
			return true
		}
		status, _ = failure(err, msg)
		p.Error = msg
		return false
	}

	// A totals failure stays in its own panel. The status is the lookup's when one ran.
	lookup := view.Email != "" || view.Account != "" || view.TxID != ""
	totals, err := s.api.SystemTotals(ctx)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		var totalsStatus int
		totalsStatus, view.TotalsError = failure(err, "Failed to load system totals")
		if !lookup {
			status = totalsStatus
		}
	}
	view.Totals = totals

	switch {
	case view.Email != "":
		user, err := s.api.FindUserByEmail(ctx, view.Email)
		if err != nil {
			if fail(err, "User not found or error loading user data") {
				return
			}
			break
		}
		view.User = user

	case view.Account != "" && query.Get("history") != "":
		txs, err := s.api.TransactionsByAccount(ctx, view.Account)
		if err != nil {
			if fail(err, "Error loading transactions") {
				return
			}
			break
		}
		if len(txs) == 0 {
			p.Error = "No transactions found"
		}
		view.History = txs

	case view.Account != "":
		acct, err := s.api.FindAccount(ctx, view.Account)
		if err != nil {
			if fail(err, "Account not found or error loading account data") {
				return
			}
			break
		}
		view.FoundAccount = acct

	case view.TxID != "":
		id, err := strconv.ParseInt(view.TxID, 10, 64)
		if err != nil || id <= 0 {
			status = http.StatusBadRequest
			p.Error = "Please enter a valid transaction ID"
			break
		}
		tx, err := s.api.TransactionByID(ctx, id)
		if err != nil {
			if fail(err, "Transaction not found or error loading transaction data") {
				return
			}
			break
		}
		view.Transaction = tx
	}

	s.render(w, r, status, "auditor_dashboard", p)
}

func (s *Server) depositPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "deposit", page{
		Title: "Deposit Funds",
		Form:  depositForm{AccountNumber: r.URL.Query().Get("account")},
	})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Deposit Funds", Form: depositForm{}}
	if err := r.ParseForm(); err != nil {
		p.Error = "Invalid form submission"
		s.render(w, r, http.StatusBadRequest, "deposit", p)
		return
	}
	form := readDepositForm(r)
	p.Form = form
	if errs := s.check(form); errs != nil {
		p.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "deposit", p)
		return
	}

	ctx := s.bankCtx(r)
	_, err := s.api.Deposit(ctx, gateway.TransactionRequest{
		Amount:        form.Amount,
		AccountNumber: form.AccountNumber,
		Description:   form.Description,
	})
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Deposit failed")
		p.Error = msg
		s.render(w, r, status, "deposit", p)
		return
	}

	p.Success = fmt.Sprintf("Successfully deposited $%.2f to account %s", form.Amount, form.AccountNumber)
	p.Form = depositForm{AccountNumber: form.AccountNumber}
	if recent, err := s.api.Transactions(ctx, form.AccountNumber, 0, 3); err == nil {
		p.Data = deposits(recent.Items)
	} else {
		s.logger.Debug("load recent deposits", "error", err)
	}
	s.render(w, r, http.StatusOK, "deposit", p)
}

func deposits(txs []gateway.Transaction) []gateway.Transaction {
	out := make([]gateway.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.TransactionType == gateway.TypeDeposit {
			out = append(out, tx)
		}
	}
	return out
}

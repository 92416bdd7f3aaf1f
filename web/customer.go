package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrEthical07/bankgate/gateway"
)

// maxPictureBytes is the largest profile picture accepted.
const maxPictureBytes = 5 << 20

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.renderProfile(w, r, http.StatusOK, "", notice(r))
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, status int, errMsg, success string) {
	p := page{Title: "My Profile", Error: errMsg, Success: success}

	user, err := s.api.MyProfile(s.bankCtx(r))
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		loadStatus, msg := failure(err, "An error occurred while fetching profile data")
		if p.Error == "" {
			p.Error = msg
			status = loadStatus
		}
	} else {
		p.Data = user
	}
	s.render(w, r, status, "profile", p)
}

func (s *Server) uploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes+1<<20)
	if err := r.ParseMultipartForm(maxPictureBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderProfile(w, r, http.StatusRequestEntityTooLarge, "File size should be less than 5MB", "")
			return
		}
		s.renderProfile(w, r, http.StatusBadRequest, "Please select an image file", "")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderProfile(w, r, http.StatusBadRequest, "Please select an image file", "")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		s.renderProfile(w, r, http.StatusUnsupportedMediaType, "Please select an image file", "")
		return
	}
	if header.Size > maxPictureBytes {
		s.renderProfile(w, r, http.StatusRequestEntityTooLarge, "File size should be less than 5MB", "")
		return
	}

	_, err = s.api.UploadProfilePicture(s.bankCtx(r), gateway.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "An error occurred while uploading profile picture")
		s.renderProfile(w, r, status, msg, "")
		return
	}
	http.Redirect(w, r, "/profile?notice=picture", http.StatusSeeOther)
}

func (s *Server) updatePasswordPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "update_profile", page{Title: "Update Password", Form: updatePasswordForm{}})
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Update Password", Form: updatePasswordForm{}}
	if err := r.ParseForm(); err != nil {
		p.Error = "Invalid form submission"
		s.render(w, r, http.StatusBadRequest, "update_profile", p)
		return
	}
	form := readUpdatePasswordForm(r)
	if errs := s.check(form); errs != nil {
		p.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "update_profile", p)
		return
	}

	if _, err := s.api.UpdatePassword(s.bankCtx(r), form.OldPassword, form.NewPassword); err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Failed to update password")
		p.Error = msg
		s.render(w, r, status, "update_profile", p)
		return
	}
	p.Success = "Password updated successfully"
	s.render(w, r, http.StatusOK, "update_profile", p)
}

type transactionsView struct {
	Accounts []gateway.Account
	Selected string
	Page     *gateway.TransactionPage
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	ctx := s.bankCtx(r)
	view := transactionsView{Page: &gateway.TransactionPage{}}
	p := page{Title: "Transactions", Data: view}

	accounts, err := s.api.MyAccounts(ctx)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Failed to load your accounts")
		p.Error = msg
		s.render(w, r, status, "transactions", p)
		return
	}
	view.Accounts = accounts
	if len(accounts) == 0 {
		p.Data = view
		s.render(w, r, http.StatusOK, "transactions", p)
		return
	}

	query := r.URL.Query()
	view.Selected = accounts[0].AccountNumber
	if want := query.Get("account"); findAccount(accounts, want) != nil {
		view.Selected = want
	}
	pageNum, _ := strconv.Atoi(query.Get("page"))
	if pageNum < 0 {
		pageNum = 0
	}

	txPage, err := s.api.Transactions(ctx, view.Selected, pageNum, gateway.DefaultPageSize)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Failed to load transactions")
		p.Error = msg
		p.Data = view
		s.render(w, r, status, "transactions", p)
		return
	}
	view.Page = txPage
	p.Data = view
	s.render(w, r, http.StatusOK, "transactions", p)
}

func findAccount(accounts []gateway.Account, number string) *gateway.Account {
	if number == "" {
		return nil
	}
	for i := range accounts {
		if accounts[i].AccountNumber == number {
			return &accounts[i]
		}
	}
	return nil
}

func (s *Server) transferPage(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Transfer Money", Form: transferForm{}}

	accounts, err := s.api.MyAccounts(s.bankCtx(r))
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Failed to load your accounts")
		p.Error = msg
		s.render(w, r, status, "transfer", p)
		return
	}
	if len(accounts) > 0 {
		p.Form = transferForm{AccountNumber: accounts[0].AccountNumber}
	}
	p.Data = accounts
	s.render(w, r, http.StatusOK, "transfer", p)
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	ctx := s.bankCtx(r)
	p := page{Title: "Transfer Money", Form: transferForm{}}

	if err := r.ParseForm(); err != nil {
		p.Error = "Invalid form submission"
		s.render(w, r, http.StatusBadRequest, "transfer", p)
		return
	}
	form := readTransferForm(r)
	p.Form = form

	accounts, err := s.api.MyAccounts(ctx)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Failed to load your accounts")
		p.Error = msg
		s.render(w, r, status, "transfer", p)
		return
	}
	p.Data = accounts

	errs := s.check(form)
	if errs == nil {
		src := findAccount(accounts, form.AccountNumber)
		switch {
		case src == nil:
			errs = map[string]string{"accountNumber": "Select one of your accounts"}
		case form.Amount > src.Balance:
			errs = map[string]string{"amount": "Insufficient funds"}
		}
	}
	if errs != nil {
		p.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "transfer", p)
		return
	}

	_, err = s.api.Transfer(ctx, gateway.TransactionRequest{
		Amount:                   form.Amount,
		AccountNumber:            form.AccountNumber,
		DestinationAccountNumber: form.DestinationAccountNumber,
		Description:              form.Description,
	})
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		status, msg := failure(err, "Transfer failed")
		p.Error = msg
		s.render(w, r, status, "transfer", p)
		return
	}

	if refreshed, err := s.api.MyAccounts(ctx); err == nil {
		p.Data = refreshed
	}
	p.Form = transferForm{AccountNumber: form.AccountNumber}
	p.Success = fmt.Sprintf("Successfully transferred $%.2f to account %s", form.Amount, form.DestinationAccountNumber)
	s.render(w, r, http.StatusOK, "transfer", p)
}

package web

import (
	"context"
	"io"
	"sync"

	"github.com/MrEthical07/bankgate/gateway"
)

// fakeBank serves canned banking API answers. A non-nil err fails every call that needs a token.
type fakeBank struct {
	mu sync.Mutex

	loginResult *gateway.LoginResult
	loginErr    error
	err         error
	totalsErr   error

	user     *gateway.User
	accounts []gateway.Account
	page     *gateway.TransactionPage
	totals   *gateway.SystemTotals
	tx       *gateway.Transaction

	logins    int
	tokens    []string
	transfers []gateway.TransactionRequest
	deposits  []gateway.TransactionRequest
	uploads   []string
}

func newFakeBank() *fakeBank {
	return &fakeBank{
		loginResult: &gateway.LoginResult{Token: "tok-customer", Roles: []string{"CUSTOMER"}},
		user:        &gateway.User{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		accounts: []gateway.Account{
			{AccountNumber: "1000000001", AccountType: "SAVINGS", Balance: 250, Currency: "USD", Status: "ACTIVE"},
			{AccountNumber: "1000000002", AccountType: "CURRENT", Balance: 10, Currency: "USD", Status: "ACTIVE"},
		},
		page: &gateway.TransactionPage{
			Items: []gateway.Transaction{
				{ID: 1, Amount: 100, TransactionType: gateway.TypeDeposit, Description: "salary", TransactionDate: "2025-01-02T10:00:00"},
				{ID: 2, Amount: 20, TransactionType: gateway.TypeTransfer, Description: "rent", SourceAccount: "1000000001", DestinationAccount: "9"},
			},
			Meta: gateway.PageMeta{CurrentPage: 0, TotalPages: 1, PageSize: 10, TotalItems: 2},
		},
		totals: &gateway.SystemTotals{TotalUsers: 3, TotalAccounts: 5, TotalTransactions: 42},
		tx:     &gateway.Transaction{ID: 9, Amount: 12.5, TransactionType: gateway.TypeDeposit, Description: "cash"},
	}
}

func (f *fakeBank) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		return ""
	}
	return f.tokens[len(f.tokens)-1]
}

func (f *fakeBank) authed(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, gateway.TokenFromContext(ctx))
	return f.err
}

func (f *fakeBank) Login(context.Context, gateway.LoginRequest) (*gateway.LoginResult, error) {
	f.mu.Lock()
	f.logins++
	f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeBank) Register(context.Context, gateway.RegisterRequest) (string, error) {
	return "ok", nil
}

func (f *fakeBank) ForgotPassword(context.Context, string) (string, error) {
	return "sent", nil
}

func (f *fakeBank) ResetPassword(context.Context, string, string) (string, error) {
	return "reset", nil
}

func (f *fakeBank) MyProfile(ctx context.Context) (*gateway.User, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeBank) UpdatePassword(ctx context.Context, _, _ string) (string, error) {
	if err := f.authed(ctx); err != nil {
		return "", err
	}
	return "updated", nil
}

func (f *fakeBank) UploadProfilePicture(ctx context.Context, up gateway.Upload) (string, error) {
	if err := f.authed(ctx); err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, up.Body)
	f.mu.Lock()
	f.uploads = append(f.uploads, up.Filename)
	f.mu.Unlock()
	return "uploaded", nil
}

func (f *fakeBank) MyAccounts(ctx context.Context) ([]gateway.Account, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.accounts, nil
}

func (f *fakeBank) Transfer(ctx context.Context, req gateway.TransactionRequest) (string, error) {
	if err := f.authed(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.transfers = append(f.transfers, req)
	f.mu.Unlock()
	return "done", nil
}

func (f *fakeBank) Deposit(ctx context.Context, req gateway.TransactionRequest) (string, error) {
	if err := f.authed(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.deposits = append(f.deposits, req)
	f.mu.Unlock()
	return "done", nil
}

func (f *fakeBank) Transactions(ctx context.Context, _ string, _, _ int) (*gateway.TransactionPage, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.page, nil
}

func (f *fakeBank) SystemTotals(ctx context.Context) (*gateway.SystemTotals, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	if f.totalsErr != nil {
		return nil, f.totalsErr
	}
	return f.totals, nil
}

func (f *fakeBank) FindUserByEmail(ctx context.Context, _ string) (*gateway.User, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeBank) FindAccount(ctx context.Context, number string) (*gateway.Account, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	for i := range f.accounts {
		if f.accounts[i].AccountNumber == number {
			return &f.accounts[i], nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "Account not found"}
}

func (f *fakeBank) TransactionsByAccount(ctx context.Context, _ string) ([]gateway.Transaction, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.page.Items, nil
}

func (f *fakeBank) TransactionByID(ctx context.Context, _ int64) (*gateway.Transaction, error) {
	if err := f.authed(ctx); err != nil {
		return nil, err
	}
	return f.tx, nil
}

package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultPageSize is the transaction history page size.
const DefaultPageSize = 10

// MyAccounts lists the signed-in user's accounts.
func (c *Client) MyAccounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := c.call(ctx, "my_accounts", func(ctx context.Context) error {
		_, err := c.doEnvelope(ctx, http.MethodGet, "/accounts/me", nil, nil, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves money from req.AccountNumber to req.DestinationAccountNumber.
func (c *Client) Transfer(ctx context.Context, req TransactionRequest) (string, error) {
	req.TransactionType = TypeTransfer
	return c.message(ctx, "transfer", http.MethodPost, "/transactions", req)
}

// Deposit credits req.AccountNumber.
func (c *Client) Deposit(ctx context.Context, req TransactionRequest) (string, error) {
	req.TransactionType = TypeDeposit
	req.DestinationAccountNumber = ""
	return c.message(ctx, "deposit", http.MethodPost, "/transactions", req)
}

// Transactions returns one zero-based page of an account's history.
func (c *Client) Transactions(ctx context.Context, accountNumber string, page, size int) (*TransactionPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	out := &TransactionPage{}
	err := c.call(ctx, "transactions", func(ctx context.Context) error {
		env, err := c.doEnvelope(ctx, http.MethodGet, "/transactions/"+url.PathEscape(accountNumber), query, nil, &out.Items)
		if err != nil {
			return err
		}
		if env.Meta != nil {
			out.Meta = *env.Meta
		} else {
			out.Meta = PageMeta{CurrentPage: page, TotalPages: 1, PageSize: size, TotalItems: int64(len(out.Items))}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

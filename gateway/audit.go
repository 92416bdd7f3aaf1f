package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SystemTotals returns user, account and transaction counts.
func (c *Client) SystemTotals(ctx context.Context) (*SystemTotals, error) {
	var out SystemTotals
	if err := c.raw(ctx, "system_totals", "/audit/totals", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindUserByEmail looks a user up by email.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var out User
	if err := c.raw(ctx, "find_user", "/audit/users", url.Values{"email": {email}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAccount looks an account up by number.
func (c *Client) FindAccount(ctx context.Context, accountNumber string) (*Account, error) {
	var out Account
	if err := c.raw(ctx, "find_account", "/audit/accounts", url.Values{"accountNumber": {accountNumber}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TransactionsByAccount lists every transaction of an account.
func (c *Client) TransactionsByAccount(ctx context.Context, accountNumber string) ([]Transaction, error) {
	var out []Transaction
	if err := c.raw(ctx, "transactions_by_account", "/audit/transactions/by-account", url.Values{"accountNumber": {accountNumber}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionByID fetches one transaction.
func (c *Client) TransactionByID(ctx context.Context, id int64) (*Transaction, error) {
	var out Transaction
	if err := c.raw(ctx, "transaction_by_id", "/audit/transactions/by-id", url.Values{"id": {strconv.FormatInt(id, 10)}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) raw(ctx context.Context, op, path string, query url.Values, out any) error {
	return c.call(ctx, op, func(ctx context.Context) error {
		return c.doRaw(ctx, http.MethodGet, path, query, out)
	})
}

package api

import (
	"context"
	"net/http"
)

// ListAccounts returns the user's bank accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]BankAccount, error) {
	var accounts []BankAccount
	err := c.do(ctx, request{method: http.MethodGet, path: "/bank-accounts", auth: true}, &accounts)
	return accounts, err
}

// CreateAccount adds a bank account.
func (c *Client) CreateAccount(ctx context.Context, acct BankAccount) (*BankAccount, error) {
	acct.ID, acct.UserID = "", ""
	var created BankAccount
	err := c.do(ctx, request{method: http.MethodPost, path: "/bank-accounts", body: acct, auth: true}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAccount removes an account and, server side, its transactions.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/bank-accounts", id), auth: true}, nil)
}

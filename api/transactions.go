package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ListTransactions returns the transactions of one account.
func (c *Client) ListTransactions(ctx context.Context, accountID string) ([]BankTransaction, error) {
	var txs []BankTransaction
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/transactions",
		query:  url.Values{"accountId": {accountID}},
		auth:   true,
	}, &txs)
	return txs, err
}

// CreateTransaction records a manual transaction.
func (c *Client) CreateTransaction(ctx context.Context, tx BankTransaction) (*BankTransaction, error) {
	tx.ID, tx.UserID = "", ""
	var created BankTransaction
	err := c.do(ctx, request{method: http.MethodPost, path: "/transactions", body: tx, auth: true}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction replaces the transaction identified by tx.ID.
func (c *Client) UpdateTransaction(ctx context.Context, tx BankTransaction) (*BankTransaction, error) {
	if tx.ID == "" {
		return nil, errors.New("transaction has no id")
	}
	var updated BankTransaction
	err := c.do(ctx, request{method: http.MethodPut, path: idPath("/transactions", tx.ID), body: tx, auth: true}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes one transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/transactions", id), auth: true}, nil)
}

// BulkDeleteTransactions removes every transaction in ids.
func (c *Client) BulkDeleteTransactions(ctx context.Context, ids []string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/transactions/bulk-delete",
		body:   bulkDeleteRequest{IDs: ids},
		auth:   true,
	}, nil)
}

// UploadTransactionsCSV imports CSV text into the given account.
func (c *Client) UploadTransactionsCSV(ctx context.Context, csv, accountID string) (*UploadResult, error) {
	var res UploadResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/transactions/upload",
		body:   transactionUploadRequest{CSV: csv, AccountID: accountID},
		auth:   true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

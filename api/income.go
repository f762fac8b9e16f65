package api

import (
	"context"
	"errors"
	"net/http"
)

// ListIncome returns every income record of the logged-in user.
func (c *Client) ListIncome(ctx context.Context) ([]IncomeRecord, error) {
	var records []IncomeRecord
	err := c.do(ctx, request{method: http.MethodGet, path: "/income", auth: true}, &records)
	return records, err
}

// CreateIncome stores a new income record. ID and UserID are assigned by
// the server.
func (c *Client) CreateIncome(ctx context.Context, rec IncomeRecord) (*IncomeRecord, error) {
	rec.ID, rec.UserID = "", ""
	var created IncomeRecord
	err := c.do(ctx, request{method: http.MethodPost, path: "/income", body: rec, auth: true}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIncome replaces the record identified by rec.ID.
func (c *Client) UpdateIncome(ctx context.Context, rec IncomeRecord) (*IncomeRecord, error) {
	if rec.ID == "" {
		return nil, errors.New("income record has no id")
	}
	var updated IncomeRecord
	err := c.do(ctx, request{method: http.MethodPut, path: idPath("/income", rec.ID), body: rec, auth: true}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteIncome removes one income record.
func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/income", id), auth: true}, nil)
}

// UploadIncomeCSV sends raw CSV text for server-side import.
func (c *Client) UploadIncomeCSV(ctx context.Context, csv string) (*UploadResult, error) {
	var res UploadResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/income/upload",
		body:   incomeUploadRequest{CSV: csv},
		auth:   true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

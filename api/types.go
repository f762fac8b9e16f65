package api

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the backend stores amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Credentials is an email/password pair used for login and signup.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by the login and signup endpoints.
type AuthResponse struct {
	Token string `json:"token"`
}

// IncomeRecord is a single income entry owned by the logged-in user.
type IncomeRecord struct {
	ID       string          `json:"_id,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Date     time.Time       `json:"date"`
	Source   string          `json:"source"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes,omitempty"`
}

// BankAccount is a named bank account.
type BankAccount struct {
	ID            string `json:"_id,omitempty"`
	UserID        string `json:"userId,omitempty"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IsActive      bool   `json:"isActive"`
}

// Provenance records how a bank transaction entered the system.
type Provenance string

const (
	ProvenanceCSV    Provenance = "CSV"
	ProvenanceManual Provenance = "MANUAL"
)

// BankTransaction is a statement line belonging to one bank account.
// Debit and Credit are independent; either, both, or neither may be set.
type BankTransaction struct {
	ID        string          `json:"_id,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	AccountID string          `json:"accountId"`
	Date      time.Time       `json:"date"`
	Details   string          `json:"details"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
	Source    Provenance      `json:"source,omitempty"`
}

// UploadResult reports what a CSV upload changed on the server.
type UploadResult struct {
	Message       string `json:"message,omitempty"`
	InsertedCount int    `json:"insertedCount"`
	DeletedCount  int    `json:"deletedCount,omitempty"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type incomeUploadRequest struct {
	CSV string `json:"csv"`
}

type transactionUploadRequest struct {
	CSV       string `json:"csv"`
	AccountID string `json:"accountId"`
}

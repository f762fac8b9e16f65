package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/carlmjohnson/be"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/config"
	"github.com/Rshep3087/findash/session"
)

// fakeBackend is an in-memory finance backend for command and TUI tests.
type fakeBackend struct {
	mu           sync.Mutex
	income       []api.IncomeRecord
	accounts     []api.BankAccount
	transactions []api.BankTransaction
	uploads      []string
	bulkDeleted  []string
	// status, when set, is returned by every call
	status int
	nextID int
}

func (b *fakeBackend) id() string {
	b.nextID++
	return "id" + strconv.Itoa(b.nextID)
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, api.AuthResponse{Token: "token-" + creds.Email})
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		writeJSON(w, http.StatusCreated, api.AuthResponse{Token: "token-" + creds.Email})
	})

	mux.HandleFunc("GET /income", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.income)
	})
	mux.HandleFunc("POST /income", func(w http.ResponseWriter, r *http.Request) {
		var rec api.IncomeRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		rec.ID = b.id()
		b.income = append(b.income, rec)
		writeJSON(w, http.StatusCreated, rec)
	})
	mux.HandleFunc("PUT /income/{id}", func(w http.ResponseWriter, r *http.Request) {
		var rec api.IncomeRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		i := slices.IndexFunc(b.income, func(x api.IncomeRecord) bool { return x.ID == r.PathValue("id") })
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Record not found"})
			return
		}
		b.income[i] = rec
		writeJSON(w, http.StatusOK, rec)
	})
	mux.HandleFunc("DELETE /income/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.income = slices.DeleteFunc(b.income, func(x api.IncomeRecord) bool { return x.ID == r.PathValue("id") })
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /income/upload", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CSV string `json:"csv"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.uploads = append(b.uploads, req.CSV)
		writeJSON(w, http.StatusOK, api.UploadResult{Message: "Imported", InsertedCount: 2})
	})

	mux.HandleFunc("GET /bank-accounts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.accounts)
	})
	mux.HandleFunc("POST /bank-accounts", func(w http.ResponseWriter, r *http.Request) {
		var acct api.BankAccount
		_ = json.NewDecoder(r.Body).Decode(&acct)
		acct.ID = b.id()
		b.accounts = append(b.accounts, acct)
		writeJSON(w, http.StatusCreated, acct)
	})
	mux.HandleFunc("DELETE /bank-accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		b.accounts = slices.DeleteFunc(b.accounts, func(x api.BankAccount) bool { return x.ID == id })
		b.transactions = slices.DeleteFunc(b.transactions, func(x api.BankTransaction) bool { return x.AccountID == id })
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		account := r.URL.Query().Get("accountId")
		out := []api.BankTransaction{}
		for _, tx := range b.transactions {
			if tx.AccountID == account {
				out = append(out, tx)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /transactions", func(w http.ResponseWriter, r *http.Request) {
		var tx api.BankTransaction
		_ = json.NewDecoder(r.Body).Decode(&tx)
		tx.ID = b.id()
		b.transactions = append(b.transactions, tx)
		writeJSON(w, http.StatusCreated, tx)
	})
	mux.HandleFunc("PUT /transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		var tx api.BankTransaction
		_ = json.NewDecoder(r.Body).Decode(&tx)
		i := slices.IndexFunc(b.transactions, func(x api.BankTransaction) bool { return x.ID == r.PathValue("id") })
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Transaction not found"})
			return
		}
		b.transactions[i] = tx
		writeJSON(w, http.StatusOK, tx)
	})
	mux.HandleFunc("DELETE /transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.transactions = slices.DeleteFunc(b.transactions, func(x api.BankTransaction) bool { return x.ID == r.PathValue("id") })
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /transactions/bulk-delete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.bulkDeleted = append(b.bulkDeleted, req.IDs...)
		b.transactions = slices.DeleteFunc(b.transactions, func(x api.BankTransaction) bool {
			return slices.Contains(req.IDs, x.ID)
		})
		writeJSON(w, http.StatusOK, api.UploadResult{DeletedCount: len(req.IDs)})
	})
	mux.HandleFunc("POST /transactions/upload", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CSV       string `json:"csv"`
			AccountID string `json:"accountId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.uploads = append(b.uploads, req.AccountID+":"+req.CSV)
		writeJSON(w, http.StatusOK, api.UploadResult{InsertedCount: 1})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.status != 0 {
			writeJSON(w, b.status, map[string]string{"message": http.StatusText(b.status)})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestApp wires an app to b with a logged-in in-memory session.
func newTestApp(t *testing.T, b *fakeBackend, token string) *app {
	t.Helper()

	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	sess, err := session.New(session.NewMemoryStore(token))
	be.NilErr(t, err)

	client, err := api.NewClient(srv.URL, api.WithTokenSource(sess))
	be.NilErr(t, err)

	return &app{
		cfg:    config.Config{BaseURL: srv.URL, Currency: "INR"},
		sess:   sess,
		client: client,
		ai:     NewAIRecommender(nil),
	}
}

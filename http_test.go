package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLoggingTransportAddsRequestID(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(requestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: newLoggingTransport(nil, log.New(io.Discard))}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	be.NilErr(t, err)
	resp, err := client.Do(req)
	be.NilErr(t, err)
	resp.Body.Close()

	be.Equal(t, "", req.Header.Get(requestIDHeader))
	be.Equal(t, 1, len(got))
	_, err = uuid.Parse(got[0])
	be.NilErr(t, err)

	req, err = http.NewRequest(http.MethodGet, srv.URL, nil)
	be.NilErr(t, err)
	req.Header.Set(requestIDHeader, "fixed")
	resp, err = client.Do(req)
	be.NilErr(t, err)
	resp.Body.Close()

	be.Equal(t, "fixed", got[1])
}

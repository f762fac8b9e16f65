package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type loggerTransport struct {
	transport http.RoundTripper
	logger    *log.Logger
}

func (l *loggerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(requestIDHeader, requestID)
	}

	l.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", requestID,
	)

	startTime := time.Now()
	resp, err := l.transport.RoundTrip(req)
	if err != nil {
		l.logger.Error("HTTP Request failed", "error", err, "request_id", requestID)
		return nil, err
	}
	duration := time.Since(startTime)

	l.logger.Debug("HTTP Response",
		"status", resp.Status,
		"duration", duration,
		"url", req.URL.String(),
		"method", req.Method,
		"request_id", requestID,
	)

	return resp, nil
}

func newLoggingTransport(transport http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &loggerTransport{transport: transport, logger: logger}
}

// newHTTPClient returns the client every API call goes through.
func newHTTPClient(logger *log.Logger) *http.Client {
	return &http.Client{
		Transport: newLoggingTransport(http.DefaultTransport, logger),
		Timeout:   requestTimeout * 2,
	}
}

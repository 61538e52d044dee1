package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/models/dto"
)

const (
	CheckPath = "/api/v1/topups/check"
	BookPath  = "/api/v1/topups/book"

	IdempotencyKeyHeader = "Idempotency-Key"

	maxResponseBody = 1 << 20
)

// HTTPTransport talks JSON to the ledger's HTTP API.
type HTTPTransport struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

type HTTPOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) { t.http = c }
}

// NewHTTPTransport builds a transport for baseURL. timeout bounds every
// single request; zero means no per-request limit.
func NewHTTPTransport(baseURL string, timeout time.Duration, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) CheckTopUp(ctx context.Context, token string, topUp models.NewTopUp) models.Response[models.PendingTopUp] {
	return post[models.PendingTopUp](ctx, t, CheckPath, token, topUp)
}

func (t *HTTPTransport) BookTopUp(ctx context.Context, token string, topUp models.NewTopUp) models.Response[models.CompletedTopUp] {
	return post[models.CompletedTopUp](ctx, t, BookPath, token, topUp)
}

func post[T any](ctx context.Context, t *HTTPTransport, path, token string, topUp models.NewTopUp) models.Response[T] {
	body, err := json.Marshal(dto.FromNewTopUp(topUp))
	if err != nil {
		return models.NetworkFailure[T](&models.NetworkError{Kind: models.NetworkConnectionFailed, Err: fmt.Errorf("encoding request: %w", err)})
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return models.NetworkFailure[T](&models.NetworkError{Kind: models.NetworkConnectionFailed, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(IdempotencyKeyHeader, topUp.IdempotencyKey())

	res, err := t.http.Do(req)
	if err != nil {
		return models.NetworkFailure[T](classifyTransportError(err))
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		netErr := classifyTransportError(err)
		netErr.Ambiguous = true
		return models.NetworkFailure[T](netErr)
	}

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return models.NetworkFailure[T](&models.NetworkError{
				Kind:      models.NetworkServerUnavailable,
				Ambiguous: true,
				Err:       fmt.Errorf("decoding %d response: %w", res.StatusCode, err),
			})
		}
		return models.OK(v)
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return models.Denied[T]()
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnprocessableEntity:
		var e dto.ErrorResponse
		if err := json.Unmarshal(raw, &e); err != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		if e.Code == "" {
			e.Code = models.CodeInvalidRequest
		}
		return models.Invalid[T](&models.ValidationError{Code: e.Code, Reason: e.Error})
	default:
		// 409 (booking in progress), 5xx and anything unexpected: the ledger
		// may or may not have acted on the request.
		return models.NetworkFailure[T](&models.NetworkError{
			Kind:      models.NetworkServerUnavailable,
			Ambiguous: true,
			Err:       fmt.Errorf("ledger responded %d: %s", res.StatusCode, strings.TrimSpace(string(raw))),
		})
	}
}

// classifyTransportError decides whether a failed request could have
// reached the ledger. Only failures to establish the connection are known
// to be pre-commit.
func classifyTransportError(err error) *models.NetworkError {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return &models.NetworkError{Kind: models.NetworkConnectionFailed, Err: err}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &models.NetworkError{Kind: models.NetworkConnectionFailed, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &models.NetworkError{Kind: models.NetworkTimeout, Ambiguous: true, Err: err}
	}
	return &models.NetworkError{Kind: models.NetworkConnectionFailed, Ambiguous: true, Err: err}
}

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-topup/internal/client"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/models/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_SendsHeadersAndPayload(t *testing.T) {
	topUp := newTopUp(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, client.CheckPath, r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		assert.Equal(t, "K1", r.Header.Get(client.IdempotencyKeyHeader))

		var body dto.TopUp
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "04A1B2C3", body.Tag)
		assert.Equal(t, "10", body.Amount.String())

		_ = json.NewEncoder(w).Encode(models.PendingTopUp{IdempotencyKey: "K1", CheckToken: "X"})
	}))
	defer srv.Close()

	resp := client.NewHTTPTransport(srv.URL+"/", time.Second).CheckTopUp(context.Background(), token, topUp)

	pending, ok := resp.Value()
	require.True(t, ok)
	assert.Equal(t, "X", pending.CheckToken)
}

func TestHTTPTransport_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantKind      models.ResponseKind
		wantCode      string
		wantAmbiguous bool
	}{
		{name: "created", status: http.StatusCreated, body: `{"transaction_id":"tx-1"}`, wantKind: models.KindOK},
		{name: "replayed", status: http.StatusOK, body: `{"transaction_id":"tx-1"}`, wantKind: models.KindOK},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"unknown terminal"}`, wantKind: models.KindUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantKind: models.KindUnauthorized},
		{name: "validation", status: http.StatusUnprocessableEntity, body: `{"error":"blocked","code":"ACCOUNT_BLOCKED"}`, wantKind: models.KindValidationError, wantCode: models.CodeAccountBlocked},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"missing key"}`, wantKind: models.KindValidationError, wantCode: models.CodeInvalidRequest},
		{name: "in progress", status: http.StatusConflict, wantKind: models.KindNetworkError, wantAmbiguous: true},
		{name: "server error", status: http.StatusInternalServerError, wantKind: models.KindNetworkError, wantAmbiguous: true},
		{name: "garbled success", status: http.StatusCreated, body: `{"transaction_id":`, wantKind: models.KindNetworkError, wantAmbiguous: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp := client.NewHTTPTransport(srv.URL, time.Second).BookTopUp(context.Background(), token, newTopUp(t))

			assert.Equal(t, tt.wantKind, resp.Kind())
			assert.Equal(t, tt.wantAmbiguous, resp.CommitUnknown())
			if tt.wantCode != "" {
				var verr *models.ValidationError
				require.ErrorAs(t, resp.Err(), &verr)
				assert.Equal(t, tt.wantCode, verr.Code)
			}
		})
	}
}

func TestHTTPTransport_ConnectionRefusedIsPreCommit(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	resp := client.NewHTTPTransport(url, time.Second).BookTopUp(context.Background(), token, newTopUp(t))

	var netErr *models.NetworkError
	require.ErrorAs(t, resp.Err(), &netErr)
	assert.Equal(t, models.NetworkConnectionFailed, netErr.Kind)
	assert.False(t, netErr.Ambiguous)
}

func TestHTTPTransport_TimeoutAfterSendIsAmbiguous(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	resp := client.NewHTTPTransport(srv.URL, 20*time.Millisecond).BookTopUp(context.Background(), token, newTopUp(t))

	var netErr *models.NetworkError
	require.ErrorAs(t, resp.Err(), &netErr)
	assert.Equal(t, models.NetworkTimeout, netErr.Kind)
	assert.True(t, netErr.Ambiguous)
}

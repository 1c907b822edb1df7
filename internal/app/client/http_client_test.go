package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fleetlog/internal/app/client/config"
	"fleetlog/internal/domain/usage"
)

func newTestClient(t *testing.T, handler http.Handler) *httpClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerAddress: strings.TrimPrefix(srv.URL, "http://"),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHTTPClient(cfg, log)
	require.NoError(t, err)
	return h
}

func TestListRowsSendsBearerToken(t *testing.T) {
	var gotPath, gotAuth string
	h := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]usage.Row{
			{ID: 1, Date: "2024-01-01", TechlogNo: "A", BlockHours: 2.5},
		})
	}))
	h.SetToken("secret")

	rows, err := h.ListRows(context.Background(), "LV-100")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "/aircraft/LV-100/usage", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, 2.5, rows[0].BlockHours)
}

func TestCreateRowParsesServerAssignedFields(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var draft usage.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "2024-03-01", draft.Date)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(usage.Row{
			ID: 42, Date: draft.Date, TechlogNo: draft.TechlogNo, UpdatedAt: stamp,
		})
	}))

	row, err := h.CreateRow(context.Background(), "LV-100", usage.Draft{
		Date: "2024-03-01", TechlogNo: "NIL",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), row.ID)
	assert.True(t, row.UpdatedAt.Equal(stamp))
}

func TestUpdateRowConflictMapsToStaleWrite(t *testing.T) {
	h := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/aircraft/usage/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"title":"Conflict","detail":"row 7 was edited by another user"}`)
	}))

	_, err := h.UpdateRow(context.Background(), 7, usage.Patch{
		Date: "2024-01-01", TechlogNo: "A", LastSeenUpdatedAt: time.Now(),
	})
	require.ErrorIs(t, err, usage.ErrStaleWrite)
	assert.Contains(t, err.Error(), "edited by another user")
}

func TestErrorTaxonomyByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"token expired"}`, usage.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"detail":"not your fleet"}`, usage.ErrUnauthorized},
		{"conflict", http.StatusConflict, `{"detail":"stale"}`, usage.ErrStaleWrite},
		{"not found", http.StatusNotFound, `{"detail":"no such row"}`, usage.ErrNotFound},
		{"unprocessable", http.StatusUnprocessableEntity, `{"detail":"bad date"}`, usage.ErrValidation},
		{"bad request", http.StatusBadRequest, `{"detail":"bad body"}`, usage.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			_, err := h.ListRows(context.Background(), "LV-100")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnreachableServerMapsToNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := &config.Config{ServerAddress: strings.TrimPrefix(srv.URL, "http://")}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHTTPClient(cfg, log)
	require.NoError(t, err)
	srv.Close()

	_, err = h.ListRows(context.Background(), "LV-100")
	require.ErrorIs(t, err, usage.ErrNetwork)
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail preferred", `{"title":"Conflict","detail":"the detail"}`, "the detail"},
		{"error field", `{"error":"plain error"}`, "plain error"},
		{"title fallback", `{"title":"Unprocessable Entity"}`, "Unprocessable Entity"},
		{"raw text", "gateway timeout\n", "gateway timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorMessage([]byte(tc.body)))
		})
	}
}

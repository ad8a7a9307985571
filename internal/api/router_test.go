package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/healthbridge/healthbridge/internal/config"
	"github.com/healthbridge/healthbridge/internal/store"
	"github.com/healthbridge/healthbridge/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "healthbridge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return newTestServerWith(t, st)
}

func newTestServerWith(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	cfg := config.NewForTesting()
	srv := httptest.NewServer(NewRouter(cfg, st, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

const batchBody = `{
  "records": [
    {
      "type": "weight",
      "startTime": "2026-03-14T08:00:00Z",
      "endTime": "2026-03-14T08:00:00Z",
      "value": {"kind": "quantity", "value": 72.5, "unit": "kg"}
    },
    {
      "type": "weight",
      "startTime": "2026-03-14T08:00:00Z",
      "endTime": "2026-03-14T08:00:00Z",
      "value": {"kind": "quantity", "value": 11.4, "unit": "stone"}
    }
  ]
}`

func TestBatchWrite_PartialSuccessIs200(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/records/batch", "application/json", bytes.NewBufferString(batchBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Results []struct {
			Status   string  `json:"status"`
			RecordID *string `json:"recordId"`
			Failure  *struct {
				IndexPath []int  `json:"indexPath"`
				Kind      string `json:"kind"`
				Message   string `json:"message"`
			} `json:"failure"`
		} `json:"results"`
		Failures []json.RawMessage `json:"failures"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 2)
	require.Equal(t, "ok", out.Results[0].Status)
	require.NotNil(t, out.Results[0].RecordID)
	require.Equal(t, "failed", out.Results[1].Status)
	require.NotNil(t, out.Results[1].Failure)
	require.Equal(t, []int{1}, out.Results[1].Failure.IndexPath)
	require.Contains(t, out.Results[1].Failure.Message, "stone")
	require.Len(t, out.Failures, 1)
}

func TestBatchWrite_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/records/batch", "application/json", bytes.NewBufferString("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchWrite_EmptyBatchRejected(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/records/batch", "application/json", bytes.NewBufferString(`{"records":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchWrite_OversizedBatchRejected(t *testing.T) {
	srv := newTestServer(t)

	var records []string
	for i := 0; i < 1001; i++ {
		records = append(records, fmt.Sprintf(
			`{"type":"weight","startTime":"2026-03-14T08:00:00Z","endTime":"2026-03-14T08:00:00Z","value":{"kind":"quantity","value":%d,"unit":"kg"}}`, 60+i%40))
	}
	body := `{"records":[` + records[0]
	for _, r := range records[1:] {
		body += "," + r
	}
	body += `]}`

	resp, err := http.Post(srv.URL+"/v1/records/batch", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRecords_AfterWrite(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/records/batch", "application/json", bytes.NewBufferString(batchBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/records?type=weight")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Records []struct {
			RecordID string `json:"recordId"`
			Type     string `json:"type"`
		} `json:"records"`
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Count, "only the valid item was persisted")
	require.Equal(t, "weight", out.Records[0].Type)
}

func TestListRecords_EmptyStoreReturnsEmptyArray(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/records")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Records []json.RawMessage `json:"records"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Records)
	require.Equal(t, 0, out.Count)
}

func TestTypeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/types")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Types []string `json:"types"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, len(list.Types), list.Count)
	require.Contains(t, list.Types, "workout")

	resp, err = http.Get(srv.URL + "/v1/types/weight")
	require.NoError(t, err)
	defer resp.Body.Close()
	var ts struct {
		Type      string `json:"type"`
		Supported bool   `json:"supported"`
		Class     string `json:"class"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ts))
	require.True(t, ts.Supported)
	require.Equal(t, "instant", ts.Class)

	resp, err = http.Get(srv.URL + "/v1/types/bloodType")
	require.NoError(t, err)
	defer resp.Body.Close()
	var unsupported struct {
		Supported bool   `json:"supported"`
		Reason    string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unsupported))
	require.False(t, unsupported.Supported)
	require.NotEmpty(t, unsupported.Reason)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/health", "/api/health/db"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

package liveness

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/edgard/mrtutor/internal/errors"
)

const body = "Bot is alive!"

func TestHandlerAnswersEveryRequest(t *testing.T) {
	t.Parallel()

	r := New("127.0.0.1:0", body, nil)
	handler := r.routes()

	tests := []struct {
		name   string
		method string
		path   string
		header map[string]string
	}{
		{name: "root get", method: http.MethodGet, path: "/"},
		{name: "root post", method: http.MethodPost, path: "/"},
		{name: "put", method: http.MethodPut, path: "/"},
		{name: "delete", method: http.MethodDelete, path: "/"},
		{name: "options", method: http.MethodOptions, path: "/"},
		{name: "custom method", method: "PROPFIND", path: "/"},
		{name: "other path", method: http.MethodGet, path: "/healthz"},
		{name: "nested path", method: http.MethodGet, path: "/a/b/c?x=1"},
		{name: "with headers", method: http.MethodGet, path: "/", header: map[string]string{
			"Authorization": "Bearer whatever",
			"Accept":        "application/json",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("ignored"))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, body, rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandlerHeadHasNoBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	New("127.0.0.1:0", body, nil).routes().ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStartServesProbes(t *testing.T) {
	t.Parallel()

	r := New("127.0.0.1:0", body, nil)
	require.True(t, r.LastProbe().IsZero())

	start := time.Now()
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	var status int
	var got string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + r.Addr() + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		status, got = resp.StatusCode, string(b)
		return true
	}, 5*time.Second, 20*time.Millisecond)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, body, got)
	assert.False(t, r.LastProbe().Before(start))
}

func TestStartFailsWhenAddressInUse(t *testing.T) {
	t.Parallel()

	first := New("127.0.0.1:0", body, nil)
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second := New(first.Addr(), body, nil)
	err := second.Start(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBind, apperrors.Code(err))
	assert.Contains(t, err.Error(), first.Addr())

	// The first instance keeps serving.
	resp, err := http.Get("http://" + first.Addr() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStartFailsOnForeignListener(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	err = New(ln.Addr().String(), body, nil).Start(context.Background())
	assert.Equal(t, apperrors.CodeBind, apperrors.Code(err))
}

func TestShutdownClosesDone(t *testing.T) {
	t.Parallel()

	r := New("127.0.0.1:0", body, nil)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Shutdown(context.Background()))

	select {
	case err := <-r.Done():
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve loop did not exit after shutdown")
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	t.Parallel()

	r := New("127.0.0.1:0", body, nil)
	assert.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, "127.0.0.1:0", r.Addr())
}

// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_MetricsEndpoint(t *testing.T) {
	server := NewServer("127.0.0.1:0", func() bool { return true })
	require.NoError(t, server.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	addr := server.Addr()
	require.NotEmpty(t, addr)

	server.Metrics().QueriesTotal.WithLabelValues("matched").Inc()
	server.Metrics().DictionarySaves.WithLabelValues("ok").Inc()

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	bodyStr := string(body)

	assert.Contains(t, bodyStr, "lexforge_queries_total")
	assert.Contains(t, bodyStr, "lexforge_dictionary_saves_total")
	assert.Contains(t, bodyStr, "go_")
}

func TestServer_LivenessAlwaysOK(t *testing.T) {
	server := NewServer("127.0.0.1:0", func() bool { return false })
	require.NoError(t, server.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	resp, err := http.Get("http://" + server.Addr() + "/healthz/liveness")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ReadinessReflectsChecker(t *testing.T) {
	ready := false
	server := NewServer("127.0.0.1:0", func() bool { return ready })
	require.NoError(t, server.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	resp, err := http.Get("http://" + server.Addr() + "/healthz/readiness")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	ready = true
	resp2, err := http.Get("http://" + server.Addr() + "/healthz/readiness")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestServer_DoubleStartErrors(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	require.NoError(t, server.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	assert.Error(t, server.Start())
}

func TestServer_AddrEmptyBeforeStart(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	assert.Empty(t, server.Addr())
}

func TestServer_StopBeforeStartIsNoop(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	assert.NoError(t, server.Stop(context.Background()))
}

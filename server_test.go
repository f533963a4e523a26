package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cfg "gitlab.com/gitlab-org/appfiles/internal/config"
	"gitlab.com/gitlab-org/appfiles/internal/testhelpers"
)

func TestListenAndServe(t *testing.T) {
	a := &theApp{config: &cfg.Config{General: cfg.General{MaxConns: 2}}}

	l, err := a.listen(listenerConfig{addr: "127.0.0.1:0"})
	require.NoError(t, err)

	srv := a.newHTTPServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	}), nil)

	go srv.Serve(l)
	defer srv.Close()

	res, err := http.Get(fmt.Sprintf("http://%s/", l.Addr()))
	require.NoError(t, err)
	defer testhelpers.Close(t, res.Body)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
}

func TestListenInvalidAddress(t *testing.T) {
	a := &theApp{config: &cfg.Config{}}

	_, err := a.listen(listenerConfig{addr: "not-an-address"})
	require.Error(t, err)
}

func TestListenerConfigs(t *testing.T) {
	a := &theApp{config: &cfg.Config{
		General: cfg.General{MetricsAddress: "127.0.0.1:0"},
		Listeners: cfg.Listeners{
			HTTP:  []string{"127.0.0.1:0", "127.0.0.1:0"},
			Proxy: []string{"127.0.0.1:0"},
		},
	}}

	configs, err := a.listenerConfigs(http.NotFoundHandler())
	require.NoError(t, err)

	names := make([]string, 0, len(configs))
	for _, c := range configs {
		names = append(names, c.name)
		require.Nil(t, c.tlsConfig)
	}

	require.Equal(t, []string{"http", "http", "proxy", "metrics"}, names)
}

func TestListenerConfigsInvalidKeyPair(t *testing.T) {
	a := &theApp{config: &cfg.Config{
		General:   cfg.General{RootCertificate: []byte("bad"), RootKey: []byte("bad")},
		Listeners: cfg.Listeners{HTTPS: []string{"127.0.0.1:0"}},
	}}

	_, err := a.listenerConfigs(http.NotFoundHandler())
	require.Error(t, err)
}

func TestMetricsRouter(t *testing.T) {
	router := metricsRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	config := testConfig(t)
	config.Listeners.HTTP = []string{"127.0.0.1:0"}
	config.Server.ShutdownTimeout = time.Second

	a, err := newApp(config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- a.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	proxyproto "github.com/pires/go-proxyproto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	tlsconfig "gitlab.com/gitlab-org/appfiles/internal/config/tls"
)

type listenerConfig struct {
	name      string
	addr      string
	isProxyV2 bool
	tlsConfig *tls.Config
	handler   http.Handler
}

type server struct {
	name     string
	listener net.Listener
	httpSrv  *http.Server
}

func (a *theApp) listen(config listenerConfig) (net.Listener, error) {
	lc := net.ListenConfig{KeepAlive: a.config.Server.ListenKeepAlive}

	l, err := lc.Listen(context.Background(), "tcp", config.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on addr %s: %w", config.addr, err)
	}

	if a.config.General.MaxConns > 0 {
		l = netutil.LimitListener(l, a.config.General.MaxConns)
	}

	if config.isProxyV2 {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	if config.tlsConfig != nil {
		l = tls.NewListener(l, config.tlsConfig)
	}

	return l, nil
}

func (a *theApp) newHTTPServer(handler http.Handler, tlsConfig *tls.Config) *http.Server {
	return &http.Server{
		Handler:           handler,
		TLSConfig:         tlsConfig,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}
}

func metricsRouter() http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet, http.MethodHead)

	return router
}

// listenerConfigs lists every listener from the config. Proxy listeners trust
// the X-Forwarded-* headers set by the proxy in front of them.
func (a *theApp) listenerConfigs(handler http.Handler) ([]listenerConfig, error) {
	var tlsConfig *tls.Config

	if len(a.config.Listeners.HTTPS)+len(a.config.Listeners.HTTPSProxyv2) > 0 {
		var err error
		tlsConfig, err = tlsconfig.Create(a.config.General.RootCertificate, a.config.General.RootKey,
			a.config.General.InsecureCiphers, a.config.TLS.MinVersion, a.config.TLS.MaxVersion)
		if err != nil {
			return nil, err
		}
	}

	proxyHandler := handlers.ProxyHeaders(handler)

	var configs []listenerConfig
	for _, addr := range a.config.Listeners.HTTP {
		configs = append(configs, listenerConfig{name: "http", addr: addr, handler: handler})
	}

	for _, addr := range a.config.Listeners.HTTPS {
		configs = append(configs, listenerConfig{name: "https", addr: addr, tlsConfig: tlsConfig, handler: handler})
	}

	for _, addr := range a.config.Listeners.Proxy {
		configs = append(configs, listenerConfig{name: "proxy", addr: addr, handler: proxyHandler})
	}

	for _, addr := range a.config.Listeners.HTTPSProxyv2 {
		configs = append(configs, listenerConfig{name: "https-proxyv2", addr: addr, isProxyV2: true, tlsConfig: tlsConfig, handler: handler})
	}

	if a.config.General.MetricsAddress != "" {
		configs = append(configs, listenerConfig{name: "metrics", addr: a.config.General.MetricsAddress, handler: metricsRouter()})
	}

	return configs, nil
}

func (a *theApp) openServers(handler http.Handler) ([]*server, error) {
	configs, err := a.listenerConfigs(handler)
	if err != nil {
		return nil, err
	}

	servers := make([]*server, 0, len(configs))
	for _, config := range configs {
		l, err := a.listen(config)
		if err != nil {
			closeServers(servers)
			return nil, err
		}

		log.WithFields(log.Fields{
			"listener": config.name,
			"addr":     l.Addr().String(),
		}).Info("Set up listener")

		servers = append(servers, &server{
			name:     config.name,
			listener: l,
			httpSrv:  a.newHTTPServer(config.handler, config.tlsConfig),
		})
	}

	return servers, nil
}

func closeServers(servers []*server) {
	for _, s := range servers {
		s.listener.Close()
	}
}

// Run serves on every configured listener until ctx is done or one of the
// servers fails, then shuts all of them down
func (a *theApp) Run(ctx context.Context) error {
	handler, err := a.buildHandlerPipeline()
	if err != nil {
		return err
	}

	servers, err := a.openServers(handler)
	if err != nil {
		return err
	}
	defer closeServers(servers)

	g, ctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		s := s
		g.Go(func() error {
			if err := s.httpSrv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listener: %w", s.name, err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		return a.shutdown(servers)
	})

	return g.Wait()
}

func (a *theApp) shutdown(servers []*server) error {
	log.WithField("timeout", a.config.Server.ShutdownTimeout).Info("Shutting down servers")

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range servers {
		s := s
		g.Go(func() error {
			if err := s.httpSrv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutting down %s listener: %w", s.name, err)
			}

			return nil
		})
	}

	return g.Wait()
}

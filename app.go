package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"

	cfg "gitlab.com/gitlab-org/appfiles/internal/config"
	"gitlab.com/gitlab-org/appfiles/internal/customheaders"
	"gitlab.com/gitlab-org/appfiles/internal/healthcheck"
	"gitlab.com/gitlab-org/appfiles/internal/httperrors"
	"gitlab.com/gitlab-org/appfiles/internal/logging"
	"gitlab.com/gitlab-org/appfiles/internal/ratelimiter"
	"gitlab.com/gitlab-org/appfiles/internal/rejectmethods"
	"gitlab.com/gitlab-org/appfiles/internal/serving/disk"
	"gitlab.com/gitlab-org/appfiles/internal/staticfile"
	"gitlab.com/gitlab-org/appfiles/internal/urilimiter"
)

var (
	corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodHead}})

	// registers its collectors with the default registry, so there can only be one
	metricsHandler = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("appfiles"))
)

type theApp struct {
	config        *cfg.Config
	resolver      *staticfile.Resolver
	resolverOpts  []staticfile.Option
	sink          staticfile.Sink
	customHeaders http.Header
}

func newApp(config *cfg.Config) (*theApp, error) {
	customHeaders, err := customheaders.ParseHeaderString(config.General.CustomHeaders)
	if err != nil {
		return nil, err
	}

	opts, err := staticfileOptions(config)
	if err != nil {
		return nil, err
	}

	return &theApp{
		config:        config,
		resolver:      staticfile.NewResolver(opts...),
		resolverOpts:  opts,
		sink:          disk.New(config.General.FilesRoot),
		customHeaders: customHeaders,
	}, nil
}

func staticfileOptions(config *cfg.Config) ([]staticfile.Option, error) {
	hashKey, err := staticfile.DeriveHashKey(config.Cookies.Secret)
	if err != nil {
		return nil, fmt.Errorf("deriving cookie hash key: %w", err)
	}

	return []staticfile.Option{
		staticfile.WithRoot(config.General.FilesRoot),
		staticfile.WithCookieSecret(hashKey),
	}, nil
}

// fallbackHandler answers requests without app and key cookies
func (a *theApp) fallbackHandler() http.Handler {
	if a.config.General.FallbackRoot != "" {
		return disk.New(a.config.General.FallbackRoot)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httperrors.Serve404(w)
	})
}

// identity tags access log lines with the app a request selects
func (a *theApp) identity(r *http.Request) (string, bool) {
	app, _, ok := a.resolver.Identity(r)

	return app, ok
}

func (a *theApp) rateLimiter() *ratelimiter.RateLimiter {
	return ratelimiter.New(
		ratelimiter.WithSourceIPLimitPerSecond(a.config.RateLimit.SourceIPLimitPerSecond),
		ratelimiter.WithSourceIPBurstSize(a.config.RateLimit.SourceIPBurst),
	)
}

// buildHandlerPipeline wraps the static file middleware, innermost, with the
// rest of the chain
func (a *theApp) buildHandlerPipeline() (http.Handler, error) {
	handler := staticfile.NewMiddleware(a.fallbackHandler(), a.sink, a.resolverOpts...)

	handler = metricsHandler(handler)

	handler, err := logging.BasicAccessLogger(handler, a.config.Log.Format, a.identity)
	if err != nil {
		return nil, err
	}

	handler = a.rateLimiter().SourceIPLimiter(handler)

	if !a.config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}

	handler = customheaders.NewMiddleware(handler, a.customHeaders)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath, a.config.General.FilesRoot)

	var correlationOpts []correlation.InboundHandlerOption
	if a.config.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}
	handler = correlation.InjectCorrelationID(handler, correlationOpts...)

	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)
	handler = rejectmethods.NewMiddleware(handler)

	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(handler)

	return handler, nil
}

func runApp(ctx context.Context, config *cfg.Config) error {
	a, err := newApp(config)
	if err != nil {
		return err
	}

	return a.Run(ctx)
}

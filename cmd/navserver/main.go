package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/navigatorx/docs"
	"lintang/navigatorx/pkg/config"
	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/engine/routingalgorithm"
	"lintang/navigatorx/pkg/protocol"
	"lintang/navigatorx/pkg/server/rest"
	"lintang/navigatorx/pkg/server/service"
	"lintang/navigatorx/pkg/snapping"
	"lintang/navigatorx/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/exp/slog"
)

var (
	configFile = flag.String("config", "", "yaml config file")
	mapFile    = flag.String("f", "", "road network file (.csv or .osm.pbf), overrides graph.source")
	transport  = flag.String("transport", "", "stdio | tcp | serial, overrides transport.kind")
	listenAddr = flag.String("listenaddr", "", "http listen address, enables the rest api")
	logLevel   = flag.String("loglevel", "", "debug | info | warn | error")
)

//	@title			navigatorx lintangbs API
//	@version		1.0
//	@description	road network waypoint server. Least cost paths between the vertices closest to 2 points, served over a line protocol and this rest api.

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.ReadConfig(*configFile); err != nil {
			slog.Error("failed to read config", "err", err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	// stdout carries the protocol when serving stdio
	log := util.NewLogger(level, cfg.Log.JSON, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("navserver stopped", "err", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *mapFile != "" {
		cfg.Graph.Source = *mapFile
	}
	if *transport != "" {
		cfg.Transport.Kind = *transport
	}
	if *listenAddr != "" {
		cfg.HTTP.Enabled = true
		cfg.HTTP.ListenAddr = *listenAddr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	network, err := loadNetwork(ctx, cfg, log)
	if err != nil {
		return err
	}

	costMap := costfunction.BuildCostMap(network.Graph, network.Attributes)
	engine := routingalgorithm.NewPathEngine(network.Graph, costMap.Cost)

	var locator service.Locator
	switch cfg.Graph.Snapper {
	case "rtree":
		locator = snapping.NewRTreeLocator(network.Attributes)
	default:
		locator = snapping.NewLinearLocator(network.Attributes)
	}
	navigatorSvc := service.NewNavigationService(locator, engine, network.Attributes, cfg.Graph.UnitsPerDegree)
	log.Info("road network ready", "vertices", network.Graph.NumVertices(), "edges", costMap.Len(),
		"snapper", cfg.Graph.Snapper)

	reg := prometheus.NewRegistry()
	sessionMetrics := protocol.NewMetrics(reg)

	if cfg.HTTP.Enabled {
		srv := newHTTPServer(cfg.HTTP.ListenAddr, navigatorSvc, reg)
		go func() {
			log.Info("http server started", "addr", cfg.HTTP.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownHTTPServer(shutdownCtx, srv, log)
		}()
	}

	opts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}
	sessions := &sessionServer{nav: navigatorSvc, opts: opts, metrics: sessionMetrics, log: log, cfg: cfg.Transport}
	return sessions.serve(ctx)
}

func newHTTPServer(addr string, svc rest.NavigationService, reg *prometheus.Registry) *http.Server {
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	rest.NavigatorRouter(r, svc, m)

	return &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
}

func shutdownHTTPServer(ctx context.Context, srv *http.Server, log *slog.Logger) {
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", "err", err)
		return
	}
	log.Info("http server stopped")
}

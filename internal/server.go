package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/strideworks/coachengine/internal/athlete"
	"github.com/strideworks/coachengine/internal/batch"
	"github.com/strideworks/coachengine/internal/checkin"
	"github.com/strideworks/coachengine/internal/config"
	"github.com/strideworks/coachengine/internal/db"
	"github.com/strideworks/coachengine/internal/injury"
	"github.com/strideworks/coachengine/internal/middleware"
	"github.com/strideworks/coachengine/internal/paces"
	"github.com/strideworks/coachengine/internal/plan"
	"github.com/strideworks/coachengine/internal/readiness"
	"github.com/strideworks/coachengine/internal/strength"
	"github.com/strideworks/coachengine/internal/telemetry/metrics"
	"github.com/strideworks/coachengine/internal/telemetry/tracing"
	"github.com/strideworks/coachengine/internal/threshold"
	"github.com/strideworks/coachengine/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	athleteAppSecret  string // shared token of the athlete mobile app
	coachAppSecret    string // shared token of the coach dashboard
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client
	notifier    *injury.KafkaNotifier
	recomputer  *batch.Recomputer

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	AthleteAppSecret        string
	CoachAppSecret          string
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("coach", "engine", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "coach-engine", rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:           params.Config,
		dbPool:           dbPool,
		athleteAppSecret: params.AthleteAppSecret,
		coachAppSecret:   params.CoachAppSecret,
		versionInfo:      params.VersionInfo,

		redisClient: rdb,
		notifier: injury.NewKafkaNotifier(
			params.Config.KafkaBrokerAddr,
			params.Config.NotificationsTopic,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("coach-engine-router"))

	engineCfg := s.config.Engine

	athleteRepo := athlete.NewRepo(s.dbPool)
	athleteHandler := athlete.NewHandler(athleteRepo)
	r.HandleFunc("/athlete", athleteHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-athlete")
	r.HandleFunc("/athlete/race", athleteHandler.HandleAddRace).Methods("POST", "OPTIONS").Name("new-race")
	r.HandleFunc("/athlete/{athleteId}", athleteHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-athlete")

	paceCache := paces.NewCache()

	thresholdRepo := threshold.NewRepo(s.dbPool)
	thresholdHandler := threshold.NewHandler(thresholdRepo, paceCache)
	r.HandleFunc("/threshold", thresholdHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-threshold-test")
	r.HandleFunc("/threshold/{athleteId}/latest", thresholdHandler.HandleLatest).Methods("GET", "OPTIONS").Name("latest-threshold")

	pacesRepo := paces.NewRepo(s.dbPool)
	synthesizer := paces.NewSynthesizer(
		athleteRepo, thresholdRepo, pacesRepo,
		engineCfg.SourceMismatchThreshold,
	)
	pacesHandler := paces.NewHandler(synthesizer, pacesRepo, paceCache)
	r.HandleFunc("/paces/{athleteId}", pacesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-paces")
	r.HandleFunc("/paces/fieldtest", pacesHandler.HandleAddFieldTest).Methods("POST", "OPTIONS").Name("new-field-test")

	readinessRepo := readiness.NewRepo(s.dbPool)
	aggregator := readiness.NewAggregator(readinessRepo, engineCfg)
	readinessHandler := readiness.NewHandler(readinessRepo)
	r.HandleFunc("/readiness/{athleteId}/history", readinessHandler.HandleHistory).Methods("GET", "OPTIONS").Name("readiness-history")
	r.HandleFunc("/training/session", readinessHandler.HandleAddSession).Methods("POST", "OPTIONS").Name("new-training-session")
	r.HandleFunc("/coach/acwr-warnings", readinessHandler.HandleACWRWarnings).Methods("GET", "OPTIONS").Name("acwr-warnings")

	planRepo := plan.NewRepo(s.dbPool)
	engine := plan.NewEngine(planRepo, s.metricsManager)
	planHandler := plan.NewHandler(planRepo)
	r.HandleFunc("/plan/workout", planHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/coach/modifications/pending", planHandler.HandlePending).Methods("GET", "OPTIONS").Name("pending-modifications")
	r.HandleFunc("/coach/modifications/{id}/review", planHandler.HandleReview).Methods("POST", "OPTIONS").Name("review-modification")

	injuryRepo := injury.NewRepo(s.dbPool)
	cascade := injury.NewCascade(
		injuryRepo, planRepo, s.notifier,
		engineCfg.SubstitutionWindowDays,
		s.metricsManager,
	)
	injuryHandler := injury.NewHandler(injuryRepo)
	r.HandleFunc("/coach/injuries", injuryHandler.HandleOpen).Methods("GET", "OPTIONS").Name("open-injuries")
	r.HandleFunc("/coach/injuries/{id}/status", injuryHandler.HandleUpdateStatus).Methods("POST", "OPTIONS").Name("injury-status")
	r.HandleFunc("/injuries/{athleteId}/substitutions", injuryHandler.HandleSubstitutions).Methods("GET", "OPTIONS").Name("substitutions")

	checkinService := checkin.NewService(athleteRepo, aggregator, engine, cascade, s.metricsManager)
	checkinHandler := checkin.NewHandler(checkinService)
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	r.Handle("/checkin",
		middleware.RateLimit(
			reqRateLimiter, "checkin", s.config.CheckinRateLimitPerMin,
		)(http.HandlerFunc(checkinHandler.HandleSubmit)),
	).Methods("POST", "OPTIONS").Name("checkin")

	strengthRepo := strength.NewRepo(s.dbPool)
	strengthHandler := strength.NewHandler(strengthRepo, strength.NewAnalyzer(engineCfg))
	r.HandleFunc("/strength/session", strengthHandler.HandleAddSession).Methods("POST", "OPTIONS").Name("new-strength-session")
	r.HandleFunc("/strength/{athleteId}/overview", strengthHandler.HandleOverview).Methods("GET", "OPTIONS").Name("strength-overview")
	r.HandleFunc("/strength/{athleteId}/{exercise}", strengthHandler.HandleAnalysis).Methods("GET", "OPTIONS").Name("strength-analysis")

	s.recomputer = batch.NewRecomputer(athleteRepo, aggregator, s.metricsManager)
	batchHandler := batch.NewHandler(s.recomputer)
	r.HandleFunc("/batch/recompute", batchHandler.HandleRecompute).Methods("POST", "OPTIONS").Name("batch-recompute")
	if err := s.recomputer.StartSchedule(s.config.BatchCronSchedule); err != nil {
		return nil, fmt.Errorf("start batch schedule: %w", err)
	}

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.athleteAppSecret,
		s.coachAppSecret,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("coach engine service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.recomputer != nil {
		log.Debugln("stopping batch scheduler ...")
		s.recomputer.Stop()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			log.Errorf("failed to close kafka notifier: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

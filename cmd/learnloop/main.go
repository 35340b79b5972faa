// Command learnloop runs the client core end to end: it wires the shared
// store, session, gateways, optimistic coordinators, and feed refreshers,
// then walks through a demo flow. Without -api it starts an embedded
// in-memory backend so the binary works standalone.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/learnloop/learnloop/pkg/config"
	"github.com/learnloop/learnloop/pkg/entity"
	"github.com/learnloop/learnloop/pkg/feed"
	"github.com/learnloop/learnloop/pkg/gateway"
	"github.com/learnloop/learnloop/pkg/gatewaytest"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/optimistic"
	"github.com/learnloop/learnloop/pkg/session"
	"github.com/learnloop/learnloop/pkg/stats"
	"github.com/learnloop/learnloop/pkg/store"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	configPath  string
	apiBaseURL  string
	accessToken string
	metricsAddr string
	showVersion bool
)

func main() {
	flag.StringVar(&configPath, "config", "", "path to a config file (default: ~/.learnloop/config.yaml then ./.learnloop/config.yaml)")
	flag.StringVar(&apiBaseURL, "api", "", "backend API base URL (default: embedded in-memory backend)")
	flag.StringVar(&accessToken, "token", "", "JWT access token (default: self-issued demo token)")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("learnloop %s (%s, built %s)\n", version, commit, buildDate)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "learnloop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiBaseURL != "" {
		cfg.API.BaseURL = apiBaseURL
	}
	if accessToken != "" {
		cfg.Session.Token = accessToken
	}

	sessionID := uuid.NewString()
	logger, err := logging.NewLogger(cfg.Logging.Dir, sessionID)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer logger.Close()
	logger.SetMinLevel(logging.Level(strings.ToLower(cfg.Logging.Level)))

	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	// No remote backend configured: run the in-memory one on loopback.
	if apiBaseURL == "" {
		base, shutdown, err := startEmbeddedBackend()
		if err != nil {
			return err
		}
		defer shutdown()
		cfg.API.BaseURL = base
		fmt.Printf("embedded backend listening at %s\n", base)
	}

	st := store.New(store.WithLogger(logger))
	sess := session.NewManager(st, session.WithLogger(logger))

	token := cfg.Session.Token
	if token == "" {
		token, err = demoToken()
		if err != nil {
			return fmt.Errorf("issue demo token: %w", err)
		}
	}
	identity, err := sess.SignIn(token)
	if err != nil {
		return err
	}
	logger.SetUserID(identity.UserID)
	fmt.Printf("signed in as %s (%s)\n", identity.Name, identity.UserID)

	client := gateway.NewClient(cfg.API.BaseURL,
		gateway.WithTokenSource(sess),
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.API.Timeout),
	)

	posts := optimistic.NewCoordinator("post", st.Posts(), client.Posts().Create, sess, optimistic.Prepend,
		optimistic.WithLogger[entity.Post, entity.PostDraft](logger))
	learning := optimistic.NewCoordinator("learning", st.LearningEntries(), client.Learning().Create, sess, optimistic.Prepend,
		optimistic.WithLogger[entity.LearningEntry, entity.LearningDraft](logger))

	postFeed := feed.NewRefresher(st.Posts(), func(ctx context.Context) ([]entity.Post, error) {
		return client.Posts().List(ctx)
	}, feed.WithMinInterval[entity.Post](cfg.Feed.MinRefreshInterval), feed.WithRefreshLogger[entity.Post](logger))
	learningFeed := feed.NewRefresher(st.LearningEntries(), func(ctx context.Context) ([]entity.LearningEntry, error) {
		return client.Learning().ListByUser(ctx, identity.UserID)
	}, feed.WithMinInterval[entity.LearningEntry](cfg.Feed.MinRefreshInterval), feed.WithRefreshLogger[entity.LearningEntry](logger))

	sub := st.Subscribe(func(field store.Field) {
		fmt.Printf("  store update: %s (v%d)\n", field, st.Version(field))
	}, store.FieldPosts, store.FieldLearningEntries)
	defer sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	fmt.Println("creating a post...")
	post, err := posts.Create(ctx, entity.PostDraft{
		Description: "Shipped the first cut of my study tracker",
		MediaURL:    "https://cdn.learnloop.dev/demo/tracker.png",
		MediaType:   "image",
	})
	if err != nil {
		return err
	}
	fmt.Printf("  post confirmed with id %s\n", post.ID)

	fmt.Println("logging a learning entry...")
	entry, err := learning.Create(ctx, entity.LearningDraft{
		Template:    entity.TemplateProject,
		Topic:       "Go generics",
		Description: "Built a typed collection layer with type parameters",
		Status:      entity.StatusInProgress,
		Project:     &entity.ProjectDetails{Name: "learnloop client core"},
	})
	if err != nil {
		return err
	}
	fmt.Printf("  learning entry confirmed with id %s\n", entry.ID)

	fmt.Println("refreshing feeds...")
	if err := postFeed.Refresh(ctx); err != nil {
		return err
	}
	if err := learningFeed.Refresh(ctx); err != nil {
		return err
	}

	entries := st.LearningEntries().Items()
	summary := stats.Learning(entries, time.Now())
	fmt.Printf("feed: %d posts, %d learning entries\n", st.Posts().Len(), len(entries))
	fmt.Printf("learning stats: total=%d completed=%d inProgress=%d onHold=%d planned=%d recent=%d\n",
		summary.Total, summary.Completed, summary.InProgress, summary.OnHold, summary.Planned, summary.Recent)
	for template, count := range summary.ByTemplate {
		fmt.Printf("  %s: %d\n", template, count)
	}

	sess.SignOut()
	fmt.Println("signed out, store reset")
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// startEmbeddedBackend serves the in-memory API on a loopback port.
func startEmbeddedBackend() (string, func(), error) {
	backend := gatewaytest.NewServer()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen for embedded backend: %w", err)
	}
	srv := &http.Server{Handler: backend.Handler()}
	go func() {
		_ = srv.Serve(ln)
	}()
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return "http://" + ln.Addr().String(), shutdown, nil
}

// demoToken issues a self-signed token for the embedded backend. The client
// never verifies signatures, so any HS256 secret works here.
func demoToken() (string, error) {
	claims := session.Claims{
		Name:  "Demo Learner",
		Email: "demo@learnloop.dev",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "demo-" + uuid.NewString()[:8],
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("learnloop-demo"))
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
	}
}

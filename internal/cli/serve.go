package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/t3ratech/bantora-web/internal/config"
	"github.com/t3ratech/bantora-web/internal/handlers"
	"github.com/t3ratech/bantora-web/internal/services"
)

// BackgroundJobs is work that runs alongside the HTTP server
type BackgroundJobs interface {
	Start(ctx context.Context) error
	Stop()
}

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	HomeHandler  http.Handler
	PollService  services.PollService
	VoteService  services.VoteService
	IdeaService  services.IdeaService
	AuthService  services.AuthService
	StaticDir    string
	Jobs         BackgroundJobs
}

// RunServe starts the web server and background jobs, then blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	if deps.Jobs != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := deps.Jobs.Start(ctx); err != nil {
			server.Close()
			return fmt.Errorf("failed to start background jobs: %w", err)
		}
		defer deps.Jobs.Stop()
	}

	return WaitForShutdown(server, nil)
}

// NewRouter wires every route of the web front and its JSON API
func NewRouter(deps ServerDependencies) http.Handler {
	staticDir := deps.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}

	polls := handlers.NewPollHandler(deps.PollService)
	votes := handlers.NewVoteHandler(deps.VoteService)
	ideas := handlers.NewIdeaHandler(deps.IdeaService)
	authHandler := handlers.NewAuthHandler(deps.AuthService)

	router := chi.NewRouter()
	router.Use(handlers.CountRequests)

	router.Method(http.MethodGet, "/", deps.HomeHandler)
	router.Get("/health", handlers.Health)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	router.Route("/api", func(r chi.Router) {
		r.Get("/polls", polls.List)
		r.Get("/polls/popular", polls.Popular)
		r.Get("/polls/{id}", polls.Get)
		r.Get("/ideas", ideas.List)
		r.Get("/ideas/{id}", ideas.Get)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth(deps.AuthService))
			r.Post("/votes", votes.Submit)
			r.Post("/ideas", ideas.Create)
			r.Post("/ideas/{id}/upvote", ideas.Upvote)
		})
	})

	return router
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on %s", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Printf("Received signal: %v, shutting down server...", sig)

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Force close once the grace period is over
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/t3ratech/bantora-web/internal/auth"
	internalcli "github.com/t3ratech/bantora-web/internal/cli"
	"github.com/t3ratech/bantora-web/internal/config"
	"github.com/t3ratech/bantora-web/internal/database"
	"github.com/t3ratech/bantora-web/internal/handlers"
	"github.com/t3ratech/bantora-web/internal/jobs"
	"github.com/t3ratech/bantora-web/internal/repository"
	"github.com/t3ratech/bantora-web/internal/services"
	"github.com/urfave/cli/v2"
)

var version = "0.1.0"

// buildServerDependencies creates all dependencies needed for the server
func buildServerDependencies() (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	// Load server configuration
	deps.ServerConfig = config.LoadServerConfig()

	authConfig, err := config.LoadAuthConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("missing required auth configuration: %w", err)
	}
	jobsConfig, err := config.LoadJobsConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid jobs configuration: %w", err)
	}

	// Create repositories on the shared connection
	pollRepo := repository.NewPollRepository()
	ideaRepo := repository.NewIdeaRepository()
	userRepo := repository.NewUserRepository()

	// Create service layer
	deps.PollService = services.NewPollService(pollRepo)
	deps.VoteService = services.NewVoteService(pollRepo)
	deps.IdeaService = services.NewIdeaService(ideaRepo)
	deps.AuthService = services.NewAuthService(userRepo, auth.NewJWTManager(authConfig), authConfig)

	homeHandler, err := handlers.NewHomeHandler("templates/home.html", deps.PollService, deps.IdeaService)
	if err != nil {
		return deps, fmt.Errorf("failed to create home handler: %w", err)
	}
	deps.HomeHandler = homeHandler
	deps.StaticDir = "static"

	promotion := services.NewPromotionService(ideaRepo, jobsConfig.PromotionThreshold)
	deps.Jobs = jobs.NewScheduler(jobs.NewIdeaPromotionTask(promotion, jobsConfig.IdeaJobSchedule))

	return deps, nil
}

// prepareDatabase connects, migrates and optionally seeds the database
func prepareDatabase(ctx context.Context, seed bool) error {
	if err := database.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Connected to database successfully")

	if err := database.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if seed {
		if err := database.Seed(ctx, database.DB); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return nil
}

var seedFlag = &cli.BoolFlag{
	Name:  "seed",
	Usage: "insert demo polls and ideas when the database is empty",
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the Bantora web server",
		Flags: []cli.Flag{seedFlag},
		Action: func(c *cli.Context) error {
			if err := prepareDatabase(c.Context, c.Bool("seed")); err != nil {
				return err
			}
			defer database.Close()

			// Build all server dependencies
			deps, err := buildServerDependencies()
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// MigrateCommand returns the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Flags: []cli.Flag{seedFlag},
		Action: func(c *cli.Context) error {
			if err := prepareDatabase(c.Context, c.Bool("seed")); err != nil {
				return err
			}
			defer database.Close()

			log.Println("Migrations complete")
			return nil
		},
	}
}

// SmokeCommand returns the smoke command
func SmokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "smoke",
		Usage: "Run the browser smoke suite against a running web front",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "override BANTORA_WEB_BASE_URL",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadSmokeConfig(os.Getenv)
			if err != nil {
				return err
			}
			if baseURL := c.String("base-url"); baseURL != "" {
				cfg.BaseURL = baseURL
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return internalcli.RunSmoke(ctx, cfg, os.Stdout)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "bantora",
		Usage:   "Bantora polling platform web front",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			SmokeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
	"github.com/jdiamond4/CourseSearch/internal/server"
)

// @title CourseSearch API
// @version 1.0
// @description API for browsing the university course catalog with instructor rating overlays
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email jd@coursesearch.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yaml)")
	flag.Parse()

	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env file")
	}

	// Initialize the server with all its dependencies
	srv, err := server.NewServer(*configPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}

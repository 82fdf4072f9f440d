package main

import (
	"os"

	"github.com/yigit/tutorhub/internal/pkg/logger"
	"github.com/yigit/tutorhub/internal/server"
)

// @title TutorHub API
// @version 1.0
// @description API for the TutorHub tutoring marketplace: marketing home, sign-up, admin and institution dashboards
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://www.tutorhub.app/support
// @contact.email support@tutorhub.app

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
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

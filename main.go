package main

import (
	"log"

	"github.com/gio213/rent-and-go/cmd"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/wire"
	"github.com/gio213/rent-and-go/pkg/blob"
	"github.com/gio213/rent-and-go/pkg/database"
	"github.com/gio213/rent-and-go/pkg/mailer"
	"github.com/gio213/rent-and-go/pkg/payment"
	"github.com/gio213/rent-and-go/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	provider := payment.NewStripeProvider(config.Stripe.SecretKey, config.Stripe.WebhookSecret)
	store := blob.NewHTTPStore(config.Blob.Endpoint, config.Blob.Token)
	mail := mailer.NewResendMailer(config.Email.APIKey, config.Email.From)

	app := wire.Wiring(repos, provider, store, mail, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

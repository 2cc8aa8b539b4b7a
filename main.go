package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YNikhil188/BugCrew/config"
	"github.com/YNikhil188/BugCrew/handlers"
	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/mailer"
	"github.com/YNikhil188/BugCrew/services"
	"github.com/YNikhil188/BugCrew/store"
	"github.com/YNikhil188/BugCrew/store/cassandra"
	"github.com/YNikhil188/BugCrew/store/memory"
	"github.com/YNikhil188/BugCrew/store/mongostore"
	"github.com/YNikhil188/BugCrew/uploads"

	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_LOAD_FAILED, Description: Invalid configuration: %v", err)
	}
	if err := logging.InitLogger(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		logging.Logger.Fatalf("Event ID: LOGGER_INIT_FAILED, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting BugCrew API...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup []func()
	st, mongoClient := openStore(ctx, cfg)
	if mongoClient != nil {
		cleanup = append(cleanup, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(dctx); err != nil {
				logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
			}
		})
	}
	if cfg.Store.NotificationStore == config.DriverCassandra {
		notifications, err := cassandra.Connect(cfg.Store.CassandraHosts, cfg.Store.CassandraKeyspace)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
		}
		st.Notifications = notifications
		cleanup = append(cleanup, notifications.Close)
	}

	files, err := uploads.New(cfg.UploadDir)
	if err != nil {
		logging.Logger.Fatalf("Event ID: UPLOAD_DIR_FAILED, Description: %v", err)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.Email.Configured() {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.User,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	} else {
		logging.Logger.Warn("Event ID: EMAIL_NOT_CONFIGURED, Description: SMTP credentials missing, emails will only be logged")
	}
	outbox := mailer.NewOutbox(sender, cfg.Email.OutboxSize, cfg.Email.OutboxAttempts, cfg.Email.OutboxBackoff)
	outbox.Start(context.Background())

	notifications := services.NewNotificationService(st.Notifications)
	dispatch := services.NewDispatcher(notifications, outbox, cfg.FrontendURL)
	auth := services.NewAuthService(st.Users, services.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), dispatch)
	users := services.NewUserService(st.Users)

	if cfg.Auth.AdminEmail != "" {
		if err := auth.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logging.Logger.Fatalf("Event ID: SEED_ADMIN_FAILED, Description: %v", err)
		}
	}

	router := handlers.NewRouter(handlers.Deps{
		Auth:          auth,
		Users:         users,
		Projects:      services.NewProjectService(st.Projects, st.Users, dispatch),
		Bugs:          services.NewBugService(st.Bugs, st.Projects, st.Users, dispatch),
		Comments:      services.NewCommentService(st.Comments, st.Bugs, st.Users),
		Notifications: notifications,
		Messages:      services.NewMessageService(st.Messages, st.Users),
		Files:         files,
		CORSOrigin:    cfg.HTTP.CORSOrigin,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		logging.Logger.Infof("Event ID: SERVER_LISTENING, Description: Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FAILED, Description: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Event ID: SERVICE_STOPPING, Description: Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	outbox.Close()
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	logging.Logger.Info("Event ID: SERVICE_STOPPED, Description: BugCrew API stopped")
}

// openStore returns the configured record store. The client is non-nil
// whenever MongoDB backs any collection.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, *mongo.Client) {
	needMongo := cfg.Store.Driver == config.DriverMongo || cfg.Store.NotificationStore == config.DriverMongo
	if !needMongo {
		logging.Logger.Warn("Event ID: MEMORY_STORE, Description: Using the in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	client, err := mongostore.Connect(ctx, cfg.Store.MongoURI)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
	}
	db := client.Database(cfg.Store.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEXES_FAILED, Description: %v", err)
	}

	if cfg.Store.Driver == config.DriverMemory {
		st := memory.New()
		st.Notifications = mongostore.NewNotifications(db)
		return st, client
	}
	st := mongostore.New(db)
	if cfg.Store.NotificationStore == config.DriverMemory {
		st.Notifications = memory.NewNotifications()
	}
	return st, client
}

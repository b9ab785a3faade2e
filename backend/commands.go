package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/backend/config"
	"coursehub/backend/database"
	"coursehub/backend/logger"
	"coursehub/backend/models"
	"coursehub/backend/repository"
	"coursehub/backend/routes"
	"coursehub/backend/services"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "coursehub",
	Short:         "Video course platform backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, addUserCmd, remindCmd, recommendCmd)

	addUserCmd.Flags().String("email", "", "Email address")
	addUserCmd.Flags().String("username", "", "Username")
	addUserCmd.Flags().String("password", "", "Password (min 8 characters)")
	addUserCmd.Flags().Bool("admin", false, "Grant the admin role")
	_ = addUserCmd.MarkFlagRequired("email")
	_ = addUserCmd.MarkFlagRequired("username")
	_ = addUserCmd.MarkFlagRequired("password")

	remindCmd.Flags().Int("idle-days", 7, "Remind learners idle for more than this many days")
}

type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *gorm.DB
	repos *repository.Repos
	svc   *services.Services
}

func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	repos := repository.NewRepos(db, log)
	svc, err := services.New(repos, cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db, repos: repos, svc: svc}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.log.Sync()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := database.AutoMigrate(a.db); err != nil {
			return errors.Wrap(err, "migrate")
		}

		server := routes.NewApp(a.repos, a.svc, a.cfg, a.log)

		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit
			a.log.Info("shutting down")
			if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
				a.log.Error("shutdown failed", "error", err)
			}
		}()

		a.log.Info("listening", "port", a.cfg.ServerPort)
		return server.Listen(":" + a.cfg.ServerPort)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := database.AutoMigrate(a.db); err != nil {
			return errors.Wrap(err, "migrate")
		}
		a.log.Info("schema migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := database.AutoMigrate(a.db); err != nil {
			return errors.Wrap(err, "migrate")
		}
		if err := database.Seed(a.db); err != nil {
			return errors.Wrap(err, "seed")
		}
		a.log.Info("demo catalog seeded")
		return nil
	},
}

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		role := models.RoleUser
		if admin {
			role = models.RoleAdmin
		}
		user, err := a.svc.Users.Register(cmd.Context(), services.RegisterInput{
			Username: username,
			Email:    email,
			Password: password,
		}, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %d)\n", user.Role, user.Username, user.ID)
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send learning reminders to idle learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		idleDays, _ := cmd.Flags().GetInt("idle-days")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		sent, err := a.svc.Notifications.SendLearningReminders(cmd.Context(), idleDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminders\n", sent)
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Notify every user about their top course recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		return sendRecommendations(cmd.Context(), a)
	},
}

func sendRecommendations(ctx context.Context, a *app) error {
	ids, err := a.svc.Users.ListIDs(ctx)
	if err != nil {
		return err
	}
	sent := 0
	for _, id := range ids {
		ok, err := a.svc.Recommendations.SendTopRecommendation(ctx, id)
		if err != nil {
			a.log.Warn("recommendation failed", "user_id", id, "error", err)
			continue
		}
		if ok {
			sent++
		}
	}
	a.log.Info("recommendations sent", "users", len(ids), "sent", sent)
	return nil
}

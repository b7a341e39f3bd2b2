// Copyright 2026 The OpenShelf Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openshelf/openshelf/internal/audit"
	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/bootstrap"
	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/identity"
	"github.com/openshelf/openshelf/internal/observability/logger"
	"github.com/openshelf/openshelf/internal/observability/metrics"
	"github.com/openshelf/openshelf/internal/observability/tracing"
	"github.com/openshelf/openshelf/internal/rbac"
	"github.com/openshelf/openshelf/internal/store/postgres"
	"github.com/openshelf/openshelf/internal/tenant"
	transportHTTP "github.com/openshelf/openshelf/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting openshelf catalog backend")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	_, err = metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize master catalog database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to master catalog")

	// Repositories and tenant database connector
	tenantRepo := postgres.NewTenantRepository(db)
	connector := postgres.NewConnector()
	defer connector.Close()

	// Helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := identity.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Tenant bootstrapper
	bootstrapper := bootstrap.NewBootstrapper(
		connector,
		bootstrap.NewConnStringValidator(slog.Default()),
		bootstrap.NewRoleSeeder(auditLogger, slog.Default()),
		bootstrap.NewAdminSeeder(passwordHasher, cfg.Tenancy.RootAdminEmail, auditLogger, slog.Default()),
		nil,
		cfg.Tenancy.Provider,
		cfg.Tenancy.RootConnString,
		slog.Default(),
	)

	// Services
	tenantService := tenant.NewService(tenantRepo, bootstrapper, auditLogger)
	brandService := catalog.NewService(
		postgres.NewBrandRepository(tenantRepo, connector, cfg.Tenancy.RootConnString),
		slog.Default(),
	)
	tokenService := auth.NewTokenService([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	authService := auth.NewService(
		tenantRepo,
		connector,
		passwordHasher,
		tokenService,
		cfg.Tenancy.RootConnString,
		auditLogger,
		slog.Default(),
	)

	// Converge every known tenant at startup: root tenant first (created
	// if missing), then all registered tenants concurrently.
	if err := seedRootTenant(ctx, tenantRepo, cfg); err != nil {
		slog.Error("failed to seed root tenant", logger.Error(err))
		os.Exit(1)
	}
	if err := bootstrapAllTenants(ctx, tenantRepo, bootstrapper); err != nil {
		slog.Error("startup tenant bootstrap failed", logger.Error(err))
		os.Exit(1)
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		tenantService,
		brandService,
		authService,
		tokenService,
		auditLogger,
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

// seedRootTenant registers the distinguished root tenant on first start.
func seedRootTenant(ctx context.Context, repo tenant.Repository, cfg *config.Config) error {
	_, err := repo.GetByKey(ctx, rbac.RootTenantKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, tenant.ErrTenantNotFound) {
		return err
	}

	now := time.Now()
	root := &tenant.Tenant{
		Key:              rbac.RootTenantKey,
		Name:             "Root",
		ConnectionString: cfg.Tenancy.RootConnString,
		AdminEmail:       cfg.Tenancy.RootAdminEmail,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Create(ctx, root); err != nil && !errors.Is(err, tenant.ErrTenantAlreadyExists) {
		return err
	}

	slog.Info("seeded root tenant", logger.TenantKey(rbac.RootTenantKey))
	return nil
}

// bootstrapAllTenants converges every registered tenant. Independent
// tenants run concurrently; each tenant's own steps stay sequential.
func bootstrapAllTenants(ctx context.Context, repo tenant.Repository, b *bootstrap.Bootstrapper) error {
	const pageSize = 100

	g, gctx := errgroup.WithContext(ctx)
	for offset := 0; ; offset += pageSize {
		tenants, err := repo.List(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}
		if len(tenants) == 0 {
			break
		}

		for _, t := range tenants {
			t := t
			g.Go(func() error {
				if err := b.Bootstrap(gctx, t); err != nil {
					return fmt.Errorf("tenant %s: %w", t.Key, err)
				}
				return nil
			})
		}

		if len(tenants) < pageSize {
			break
		}
	}

	return g.Wait()
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying master catalog schema...")
	if err := db.Migrate(ctx, postgres.MasterSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

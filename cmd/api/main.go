package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"gesso-pos/internal/config"
	"gesso-pos/internal/handler"
	"gesso-pos/internal/ledger"
	"gesso-pos/internal/middleware"
	"gesso-pos/internal/model"
	"gesso-pos/internal/render"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/service"
	"gesso-pos/internal/ws"
	"gesso-pos/pkg/database"
	"gesso-pos/pkg/jwt"
	"gesso-pos/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Config and logging
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(cfg.Database.DSN(), log)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{},
		&model.Product{}, &model.Customer{},
		&model.Sale{}, &model.SaleItem{},
		&model.Budget{}, &model.BudgetItem{},
		&model.StockMovement{}, &model.Withdrawal{}, &model.Production{},
		&model.CompanyProfile{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// 3. Seed privileges, roles and the first owner
	if err := seedAccess(ctx, db, log); err != nil {
		return err
	}

	// 4. WebSocket hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 5. Dependency injection
	txManager := repository.NewTxManager(db)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	budgetRepo := repository.NewBudgetRepo(db)
	withdrawalRepo := repository.NewWithdrawalRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	companyRepo := repository.NewCompanyRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	issuer := jwt.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.App.Name)
	totals := ledger.NewTotalsEngine(cfg.Ledger.ManualCostRatio)

	productService := service.NewProductService(productRepo, movementRepo, txManager, hub, cfg.Ledger.LowStockThreshold)
	saleService := service.NewSaleService(productRepo, customerRepo, saleRepo, movementRepo, txManager, totals, hub)
	budgetService := service.NewBudgetService(productRepo, customerRepo, budgetRepo, saleRepo, movementRepo, txManager, totals, hub, cfg.Ledger.BudgetValidityDays)
	settingsService := service.NewSettingsService(companyRepo, cfg.Company)
	documentService := service.NewDocumentService(saleRepo, budgetRepo, settingsService, renderer)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, issuer, hub)),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(customerRepo)),
		Sale:     handler.NewSaleHandler(saleService, documentService),
		Budget:   handler.NewBudgetHandler(budgetService, documentService),
		Cash: handler.NewCashHandler(
			service.NewWithdrawalService(withdrawalRepo, hub),
			service.NewProductionService(productionRepo, productService, txManager),
		),
		Report:   handler.NewReportHandler(service.NewReportService(reportRepo, saleRepo, productRepo)),
		Settings: handler.NewSettingsHandler(settingsService),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, privilegeRepo, roleRepo)),
		Role:     handler.NewRoleHandler(roleRepo, privilegeRepo),
	}

	// 6. Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: middleware.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log))

	handler.RegisterRoutes(app, handlers, middleware.RequireAuth(issuer, userRepo))

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Subscribe(c) {
			return
		}
		defer hub.Unsubscribe(c)

		for {
			// keep alive until the client goes away
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Serve until a signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "env", cfg.App.Environment)
		errCh <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

// seedAccess creates the default privileges and roles, and an owner account on an empty install.
func seedAccess(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	users, err := userRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	owner, err := roleRepo.FindByCode(ctx, model.RoleOwner)
	if err != nil {
		return fmt.Errorf("owner role: %w", err)
	}
	email := envOr("ADMIN_EMAIL", "admin@gesso.local")
	password := envOr("ADMIN_PASSWORD", "admin123")

	admin := &model.User{
		Email:      email,
		FullName:   "Proprietário",
		RoleID:     &owner.ID,
		IsActive:   true,
		Privileges: owner.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Warnw("owner account created, change its password", "email", email)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

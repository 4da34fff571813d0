// Command seed loads the starter gypsum catalog and can reset an operator password.
//
//	go run ./cmd/seed                      # catalog only
//	go run ./cmd/seed -reset admin@gesso.local -password nova123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"gesso-pos/internal/apperror"
	"gesso-pos/internal/config"
	"gesso-pos/internal/repository"
	"gesso-pos/internal/service"
	"gesso-pos/pkg/database"
	"gesso-pos/pkg/logger"
)

type starter struct {
	sku, name, category, unit string
	price, cost               string
	stock, minStock           int
}

var catalog = []starter{
	{"GES-SF-40", "Gesso São Francisco", "Gesso", "saco", "29.90", "18.00", 150, 20},
	{"PLA-6060", "Placas 60x60", "Placas", "un", "30.00", "18.00", 85, 20},
	{"SIS-1KG", "Sisal", "Sisal", "kg", "30.00", "15.00", 45, 10},
	{"ARA-18", "Arame", "Arame", "kg", "10.00", "6.00", 120, 20},
	{"REB-100", "Rebites", "Rebites", "un", "0.50", "0.25", 5, 50},
	{"MOL-3M", "Molduras", "Molduras", "barra", "15.00", "8.00", 8, 25},
	{"TAB-3M", "Tabicas", "Tabicas", "barra", "25.00", "12.00", 12, 10},
}

func main() {
	resetEmail := flag.String("reset", "", "operator email whose password is reset")
	newPassword := flag.String("password", "admin123", "new password used with -reset")
	skipCatalog := flag.Bool("no-catalog", false, "do not load the starter catalog")
	flag.Parse()

	if err := run(*resetEmail, *newPassword, !*skipCatalog); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(resetEmail, newPassword string, loadCatalog bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)
	db, err := database.Connect(cfg.Database.DSN(), log)
	if err != nil {
		return err
	}

	if loadCatalog {
		products := service.NewProductService(
			repository.NewProductRepo(db),
			repository.NewStockMovementRepo(db),
			repository.NewTxManager(db),
			nil,
			cfg.Ledger.LowStockThreshold,
		)
		actor := service.Actor{ID: "system", Name: "seed"}
		for _, s := range catalog {
			minStock := s.minStock
			_, err := products.CreateProduct(ctx, &service.ProductInput{
				SKU:      s.sku,
				Name:     s.name,
				Category: s.category,
				Unit:     s.unit,
				Price:    decimal.RequireFromString(s.price),
				Cost:     decimal.RequireFromString(s.cost),
				Stock:    s.stock,
				MinStock: &minStock,
			}, actor)
			switch {
			case err == nil:
				log.Infow("product created", "sku", s.sku, "stock", s.stock)
			case isDuplicate(err):
				log.Debugw("product exists", "sku", s.sku)
			default:
				return fmt.Errorf("create %s: %w", s.sku, err)
			}
		}
	}

	if resetEmail != "" {
		users := repository.NewUserRepo(db)
		user, err := users.FindByEmail(ctx, resetEmail)
		if err != nil {
			return fmt.Errorf("find %s: %w", resetEmail, err)
		}
		if err := user.SetPassword(newPassword); err != nil {
			return err
		}
		if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
			return err
		}
		log.Infow("password reset", "email", resetEmail)
	}
	return nil
}

func isDuplicate(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == apperror.CodeDuplicate
}

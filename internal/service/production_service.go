package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/repository"
	"gesso-pos/pkg/logger"
)

type ProductionService interface {
	RecordProduction(ctx context.Context, req *ProductionInput, actor Actor) (*model.Production, error)
	ListProductions(ctx context.Context, period model.DateRange) (*ProductionReport, error)
}

// ProductionInput with a ProductID also adds the pieces to that product's stock.
type ProductionInput struct {
	Date        *time.Time `json:"date"`
	PieceName   string     `json:"piece_name" validate:"required,max=255"`
	Quantity    int        `json:"quantity" validate:"gt=0"`
	PlasterBags int        `json:"plaster_bags" validate:"gte=0"`
	ProductID   *uuid.UUID `json:"product_id"`
}

type PieceTotal struct {
	PieceName   string `json:"piece_name"`
	Quantity    int    `json:"quantity"`
	PlasterBags int    `json:"plaster_bags"`
}

type ProductionReport struct {
	Items            []model.Production `json:"items"`
	ByPiece          []PieceTotal       `json:"by_piece"`
	TotalPieces      int                `json:"total_pieces"`
	TotalPlasterBags int                `json:"total_plaster_bags"`
}

type productionService struct {
	productions repository.ProductionRepository
	products    ProductService
	tx          ledger.TxManager
}

func NewProductionService(productions repository.ProductionRepository, products ProductService, tx ledger.TxManager) ProductionService {
	return &productionService{productions: productions, products: products, tx: tx}
}

func (s *productionService) RecordProduction(ctx context.Context, req *ProductionInput, actor Actor) (*model.Production, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	p := &model.Production{
		Date:        time.Now(),
		PieceName:   strings.TrimSpace(req.PieceName),
		Quantity:    req.Quantity,
		PlasterBags: req.PlasterBags,
	}
	if req.Date != nil {
		p.Date = *req.Date
	}
	if req.ProductID != nil && *req.ProductID != uuid.Nil {
		p.ProductID = req.ProductID
	}
	p.ID = model.NewID()
	p.CreatedBy = actor.ID

	var movement *model.StockMovement
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if p.ProductID != nil {
			var err error
			movement, err = s.products.recordMovement(ctx, &MovementInput{
				ProductID:   *p.ProductID,
				Type:        model.MovementIn,
				Quantity:    p.Quantity,
				Reason:      "Produção",
				Date:        &p.Date,
				referenceID: &p.ID,
			}, actor)
			if err != nil {
				return err
			}
		}
		return s.productions.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	if movement != nil {
		s.products.publishMovement(movement, actor)
	}

	logger.Info(ctx, "production recorded", "piece", p.PieceName, "quantity", p.Quantity, "plaster_bags", p.PlasterBags)
	return p, nil
}

func (s *productionService) ListProductions(ctx context.Context, period model.DateRange) (*ProductionReport, error) {
	items, err := s.productions.FindAll(ctx, period)
	if err != nil {
		return nil, err
	}

	report := &ProductionReport{Items: items, ByPiece: []PieceTotal{}}
	idx := map[string]int{}
	for _, p := range items {
		report.TotalPieces += p.Quantity
		report.TotalPlasterBags += p.PlasterBags

		key := strings.ToLower(strings.TrimSpace(p.PieceName))
		i, ok := idx[key]
		if !ok {
			i = len(report.ByPiece)
			idx[key] = i
			report.ByPiece = append(report.ByPiece, PieceTotal{PieceName: p.PieceName})
		}
		report.ByPiece[i].Quantity += p.Quantity
		report.ByPiece[i].PlasterBags += p.PlasterBags
	}
	sort.SliceStable(report.ByPiece, func(i, j int) bool { return report.ByPiece[i].Quantity > report.ByPiece[j].Quantity })
	return report, nil
}

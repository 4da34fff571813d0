package service

import (
	"fmt"

	"gesso-pos/internal/ledger"
	"gesso-pos/internal/model"
	"gesso-pos/internal/ws"
)

func publishStockChanges(pub EventPublisher, actor Actor, reason string, changes []ledger.StockChange) {
	for _, ch := range changes {
		pub.Publish(ws.Event{
			Type:   ws.EventStockUpdate,
			Action: "stock_reconciled",
			Data: map[string]interface{}{
				"product_id": ch.ProductID,
				"name":       ch.Name,
				"quantity":   ch.Quantity,
				"old_stock":  ch.Before,
				"new_stock":  ch.After,
				"reason":     reason,
			},
			User:    actor.eventUser(),
			Message: fmt.Sprintf("%s: %s %d -> %d", reason, ch.Name, ch.Before, ch.After),
		})
		if ch.IsLowStock() {
			publishLowStock(pub, ch.ProductID.String(), ch.Name, ch.After, ch.MinStock)
		}
	}
}

func publishLowStock(pub EventPublisher, id, name string, stock, minStock int) {
	pub.Publish(ws.Event{
		Type: ws.EventLowStockAlert,
		Data: map[string]interface{}{
			"product_id": id,
			"name":       name,
			"stock":      stock,
			"min_stock":  minStock,
		},
		Message: fmt.Sprintf("Estoque baixo: %s (%d)", name, stock),
	})
}

func publishSale(pub EventPublisher, actor Actor, sale *model.Sale) {
	pub.Publish(ws.Event{
		Type:   ws.EventSaleCreated,
		Action: "created",
		Data: map[string]interface{}{
			"id":             sale.ID,
			"number":         sale.Number,
			"customer_name":  sale.CustomerName,
			"total":          sale.Total,
			"payment_method": sale.PaymentMethod,
			"items":          len(sale.Items),
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s registrou a venda #%s", actor.Name, sale.DisplayNumber()),
	})
}

func publishBudgetStatus(pub EventPublisher, actor Actor, budget *model.Budget, from model.BudgetStatus) {
	pub.Publish(ws.Event{
		Type:   ws.EventBudgetStatusChanged,
		Action: string(budget.Status),
		Data: map[string]interface{}{
			"id":      budget.ID,
			"number":  budget.DisplayNumber(),
			"from":    from,
			"to":      budget.Status,
			"sale_id": budget.SaleID,
		},
		User:    actor.eventUser(),
		Message: fmt.Sprintf("Orçamento %s: %s -> %s", budget.DisplayNumber(), from.Label(), budget.Status.Label()),
	})
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"gesso-pos/internal/middleware"
	"gesso-pos/internal/model"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth     *AuthHandler
	Product  *ProductHandler
	Customer *CustomerHandler
	Sale     *SaleHandler
	Budget   *BudgetHandler
	Cash     *CashHandler
	Report   *ReportHandler
	Settings *SettingsHandler
	User     *UserHandler
	Role     *RoleHandler
}

// RegisterRoutes mounts the API. requireAuth guards everything except login and token validation.
func RegisterRoutes(router fiber.Router, h Handlers, requireAuth fiber.Handler) {
	priv := middleware.RequirePrivilege
	api := router.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/change-password", h.Auth.ChangePassword)
	auth.Post("/heartbeat", requireAuth, h.Auth.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	// Dashboard
	protected.Get("/dashboard/stats", h.Report.GetOverview)
	protected.Get("/dashboard/stock-movement", h.Report.GetStockMovement)

	// Catalog
	protected.Get("/products", priv(model.PrivProductView), h.Product.GetProducts)
	protected.Get("/products/low-stock", priv(model.PrivProductView), h.Product.GetLowStock)
	protected.Get("/products/:id", priv(model.PrivProductView), h.Product.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), h.Product.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), h.Product.UpdateProduct)

	// Stock movements
	protected.Post("/stock/entries", priv(model.PrivStockMove), h.Product.RecordEntry)
	protected.Post("/stock/exits", priv(model.PrivStockMove), h.Product.RecordExit)
	protected.Post("/stock/adjustments", priv(model.PrivStockMove), h.Product.RecordAdjustment)
	protected.Get("/stock/movements", priv(model.PrivStockView), h.Product.GetMovements)

	// Customers
	protected.Get("/customers", priv(model.PrivCustomerView), h.Customer.GetCustomers)
	protected.Get("/customers/:id", priv(model.PrivCustomerView), h.Customer.GetCustomer)
	protected.Post("/customers", priv(model.PrivCustomerManage), h.Customer.CreateCustomer)
	protected.Put("/customers/:id", priv(model.PrivCustomerManage), h.Customer.UpdateCustomer)

	// Sales
	protected.Get("/sales", priv(model.PrivSaleView), h.Sale.GetSales)
	protected.Post("/sales/quote", priv(model.PrivSaleCreate), h.Sale.Quote)
	protected.Post("/sales", priv(model.PrivSaleCreate), h.Sale.Checkout)
	protected.Get("/sales/:id", priv(model.PrivSaleView), h.Sale.GetSale)
	protected.Get("/sales/:id/receipt", priv(model.PrivSaleView), h.Sale.Receipt)

	// Budgets
	protected.Get("/budgets", priv(model.PrivBudgetView), h.Budget.GetBudgets)
	protected.Post("/budgets", priv(model.PrivBudgetManage), h.Budget.CreateBudget)
	protected.Get("/budgets/:id", priv(model.PrivBudgetView), h.Budget.GetBudget)
	protected.Post("/budgets/:id/pedido", priv(model.PrivBudgetManage), h.Budget.ConvertToOrder)
	protected.Post("/budgets/:id/sale", middleware.RequireAnyPrivilege(model.PrivBudgetManage, model.PrivSaleCreate), h.Budget.ConvertToSale)
	protected.Get("/budgets/:id/print", priv(model.PrivBudgetView), h.Budget.Print)

	// Cash drawer and production
	protected.Get("/withdrawals", priv(model.PrivWithdrawalView), h.Cash.GetWithdrawals)
	protected.Post("/withdrawals", priv(model.PrivWithdrawalCreate), h.Cash.CreateWithdrawal)
	protected.Get("/productions", priv(model.PrivProductionView), h.Cash.GetProductions)
	protected.Post("/productions", priv(model.PrivProductionCreate), h.Cash.CreateProduction)

	// Reports
	reports := protected.Group("/reports", priv(model.PrivReportView))
	reports.Get("/summary", h.Report.GetSummary)
	reports.Get("/monthly", h.Report.GetMonthly)
	reports.Get("/payment-methods", h.Report.GetPaymentMethods)
	reports.Get("/top-products", h.Report.GetTopProducts)
	reports.Get("/stock-movement", h.Report.GetStockMovement)
	reports.Get("/overview", h.Report.GetOverview)
	reports.Get("/export", h.Report.Export)

	// Settings
	protected.Get("/settings/company", h.Settings.GetCompany)
	protected.Put("/settings/company", priv(model.PrivSettingsUpdate), h.Settings.UpdateCompany)

	// Operators
	protected.Get("/users", priv(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", priv(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", priv(model.PrivUserCreate), h.User.CreateUser)
	protected.Put("/users/:id", priv(model.PrivUserUpdate), h.User.UpdateUser)
	protected.Delete("/users/:id", priv(model.PrivUserDelete), h.User.DeleteUser)
	protected.Put("/users/:id/privileges", priv(model.PrivUserUpdatePrivilege), h.User.UpdateUserPrivileges)

	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)
}

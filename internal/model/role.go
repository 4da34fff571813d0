package model

type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

var DefaultRoles = []Role{
	{Code: RoleOwner, Name: "Proprietário", Description: "Acesso total"},
	{Code: RoleManager, Name: "Gerente", Description: "Estoque, vendas, orçamentos e relatórios"},
	{Code: RoleCashier, Name: "Caixa", Description: "Vendas, orçamentos e clientes"},
}

// DefaultRolePrivileges maps role codes to privilege codes. OWNER gets every privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleManager: {
		PrivProductView, PrivProductCreate, PrivProductUpdate,
		PrivStockView, PrivStockMove,
		PrivCustomerView, PrivCustomerManage,
		PrivSaleView, PrivSaleCreate,
		PrivBudgetView, PrivBudgetManage,
		PrivWithdrawalView, PrivWithdrawalCreate,
		PrivProductionView, PrivProductionCreate,
		PrivReportView,
	},
	RoleCashier: {
		PrivProductView,
		PrivCustomerView, PrivCustomerManage,
		PrivSaleView, PrivSaleCreate,
		PrivBudgetView, PrivBudgetManage,
		PrivWithdrawalCreate,
	},
}

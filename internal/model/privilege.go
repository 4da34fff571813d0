package model

type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView            = "user:view"
	PrivUserCreate          = "user:create"
	PrivUserUpdate          = "user:update"
	PrivUserDelete          = "user:delete"
	PrivUserUpdatePrivilege = "user:update_privilege"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"

	PrivStockView = "stock:view"
	PrivStockMove = "stock:move"

	PrivCustomerView   = "customer:view"
	PrivCustomerManage = "customer:manage"

	PrivSaleView   = "sale:view"
	PrivSaleCreate = "sale:create"

	PrivBudgetView   = "budget:view"
	PrivBudgetManage = "budget:manage"

	PrivWithdrawalView   = "withdrawal:view"
	PrivWithdrawalCreate = "withdrawal:create"

	PrivProductionView   = "production:view"
	PrivProductionCreate = "production:create"

	PrivReportView     = "report:view"
	PrivSettingsUpdate = "settings:update"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "Ver operadores"},
	{Code: PrivUserCreate, Name: "Criar operadores"},
	{Code: PrivUserUpdate, Name: "Editar operadores"},
	{Code: PrivUserDelete, Name: "Remover operadores"},
	{Code: PrivUserUpdatePrivilege, Name: "Alterar permissões"},
	{Code: PrivProductView, Name: "Ver produtos"},
	{Code: PrivProductCreate, Name: "Cadastrar produtos"},
	{Code: PrivProductUpdate, Name: "Editar produtos"},
	{Code: PrivStockView, Name: "Ver movimentações"},
	{Code: PrivStockMove, Name: "Movimentar estoque"},
	{Code: PrivCustomerView, Name: "Ver clientes"},
	{Code: PrivCustomerManage, Name: "Gerenciar clientes"},
	{Code: PrivSaleView, Name: "Ver vendas"},
	{Code: PrivSaleCreate, Name: "Registrar vendas"},
	{Code: PrivBudgetView, Name: "Ver orçamentos"},
	{Code: PrivBudgetManage, Name: "Gerenciar orçamentos"},
	{Code: PrivWithdrawalView, Name: "Ver sangrias"},
	{Code: PrivWithdrawalCreate, Name: "Registrar sangrias"},
	{Code: PrivProductionView, Name: "Ver produção"},
	{Code: PrivProductionCreate, Name: "Registrar produção"},
	{Code: PrivReportView, Name: "Ver relatórios"},
	{Code: PrivSettingsUpdate, Name: "Alterar dados da empresa"},
}

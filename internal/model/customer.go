package model

type CustomerType string

const (
	PessoaFisica   CustomerType = "pessoa_fisica"
	PessoaJuridica CustomerType = "pessoa_juridica"
)

// AnonymousCustomerName labels sales without an identified customer.
const AnonymousCustomerName = "Cliente Avulso"

// DocumentLabel is CPF for individuals and CNPJ for companies.
func (t CustomerType) DocumentLabel() string {
	if t == PessoaJuridica {
		return "CNPJ"
	}
	return "CPF"
}

// Customer names are not unique; two "João" can coexist.
type Customer struct {
	BaseModel
	Name     string       `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Type     CustomerType `gorm:"type:varchar(20);not null" json:"type" validate:"omitempty,oneof=pessoa_fisica pessoa_juridica"`
	Document string       `gorm:"type:varchar(20)" json:"document"`
	Phone    string       `gorm:"type:varchar(20)" json:"phone"`
	Email    string       `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address  string       `gorm:"type:varchar(255)" json:"address"`
	City     string       `gorm:"type:varchar(100)" json:"city"`
	State    string       `gorm:"type:varchar(2)" json:"state"`
	ZipCode  string       `gorm:"type:varchar(10)" json:"zip_code"`
}

package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentInput struct {
	ProductID uuid.UUID       `validate:"uuid_required"`
	Method    string          `validate:"required,payment_method"`
	Amount    decimal.Decimal `validate:"gte=0"`
	Price     decimal.Decimal `validate:"gt=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(&paymentInput{
		ProductID: uuid.New(),
		Method:    "pix",
		Amount:    decimal.Zero,
		Price:     decimal.RequireFromString("29.90"),
	})
	assert.Empty(t, errs)
}

func TestValidateStruct_ReportsEachFailure(t *testing.T) {
	errs := ValidateStruct(&paymentInput{
		Method: "cheque",
		Amount: decimal.RequireFromString("-1"),
		Price:  decimal.Zero,
	})
	require.Len(t, errs, 4)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["paymentInput.ProductID"])
	assert.Equal(t, "payment_method", tags["paymentInput.Method"])
	assert.Equal(t, "gte", tags["paymentInput.Amount"])
	assert.Equal(t, "gt", tags["paymentInput.Price"])
}

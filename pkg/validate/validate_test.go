package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopfront/pkg/validate"
)

type registerInput struct {
	Username        string `json:"username"         validate:"required,alphanum,min=3,max=150"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"omitempty,eqfield=Password"`
	Age             int    `json:"age"              validate:"omitempty,gte=0,lte=130"`
	Status          string `json:"status"           validate:"omitempty,oneof=simple gold silver bronze"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "jdoe42",
		Email:    "jdoe@example.com",
		Password: "secret123",
		Age:      30,
		Status:   "gold",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredUsesJSONNames(t *testing.T) {
	errs := validate.Struct(registerInput{})

	assert.Equal(t, "The username field is required.", errs["username"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "age")
}

func TestStringAndNumericMessages(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "ab",
		Email:    "nope",
		Password: "short",
		Age:      200,
		Status:   "platinum",
	})

	assert.Equal(t, "The username must be at least 3 characters.", errs["username"])
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The age must be less than or equal to 130.", errs["age"])
	assert.Contains(t, errs["status"], "simple, gold, silver, bronze")
}

func TestMoneyRule(t *testing.T) {
	type in struct {
		Price decimal.Decimal `json:"price" validate:"money"`
	}

	assert.Empty(t, validate.Struct(in{Price: decimal.RequireFromString("10.50")}))
	assert.Empty(t, validate.Struct(in{Price: decimal.Zero}))
	assert.Contains(t, validate.Struct(in{Price: decimal.RequireFromString("-1")}), "price")
	assert.Contains(t, validate.Struct(in{Price: decimal.RequireFromString("1.234")}), "price")
}

func TestOptionalPointerFields(t *testing.T) {
	type patch struct {
		Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
		Price    *decimal.Decimal `json:"price"    validate:"omitempty,money"`
	}

	assert.Empty(t, validate.Struct(patch{}))

	neg := -2
	assert.Contains(t, validate.Struct(patch{Quantity: &neg}), "quantity")

	bad := decimal.RequireFromString("-0.01")
	assert.Contains(t, validate.Struct(patch{Price: &bad}), "price")
}

func TestVar(t *testing.T) {
	assert.Empty(t, validate.Var("email", "a@b.co", "required,email"))
	assert.Equal(t, "The email must be a valid email address.", validate.Var("email", "x", "required,email")["email"])
}

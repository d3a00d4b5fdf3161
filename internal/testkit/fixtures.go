package testkit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
)

var seq atomic.Int64

func next() int64 { return seq.Add(1) }

// Password is the plain-text password of every fixture user.
const Password = "secret-pass-123"

var (
	hashOnce     sync.Once
	passwordHash string
	hashErr      error
)

func hashed(t testing.TB) string {
	hashOnce.Do(func() { passwordHash, hashErr = auth.HashPassword(Password) })
	if hashErr != nil {
		t.Fatalf("testkit: hash: %v", hashErr)
	}
	return passwordHash
}

// User inserts an active user with the given role.
func User(t testing.TB, db *gorm.DB, role string) models.UserProfile {
	t.Helper()
	n := next()
	u := models.UserProfile{
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  hashed(t),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		Status:    models.StatusSimple,
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("testkit: user: %v", err)
	}
	return u
}

func Category(t testing.TB, db *gorm.DB) models.Category {
	t.Helper()
	c := models.Category{Name: fmt.Sprintf("Category %d", next())}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("testkit: category: %v", err)
	}
	return c
}

// Product inserts an active product. An empty price leaves it NULL.
func Product(t testing.TB, db *gorm.DB, owner models.UserProfile, cat models.Category, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        fmt.Sprintf("Product %d", next()),
		CategoryID:  cat.ID,
		Description: "fixture",
		Active:      true,
		CreatedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:     owner.ID,
	}
	if price != "" {
		p.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	if err := db.Omit(clause.Associations).Create(&p).Error; err != nil {
		t.Fatalf("testkit: product: %v", err)
	}
	return p
}

// Token signs an access token for u.
func Token(t testing.TB, u models.UserProfile) string {
	t.Helper()
	tok, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		t.Fatalf("testkit: token: %v", err)
	}
	return tok
}

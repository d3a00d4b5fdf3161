// Package orm holds the small query helpers shared by repositories:
// pagination and reusable GORM scopes.
package orm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is returned next to every paged listing.
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Normalize clamps page/limit to sane values.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Paginate counts q, then loads one page of it into dest. q must already
// carry Model() and any filters. Preloads and ordering go in load so they
// only apply to the page query, never to the COUNT.
func Paginate(ctx context.Context, q *gorm.DB, page, limit int, dest interface{}, load ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	page, limit = Normalize(page, limit)
	p := Pagination{Page: page, Limit: limit}

	if err := q.WithContext(ctx).Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, fmt.Errorf("orm: count: %w", err)
	}

	p.LastPage = int((p.Total + int64(limit) - 1) / int64(limit))
	if p.LastPage == 0 {
		p.LastPage = 1
	}

	if err := q.WithContext(ctx).Scopes(load...).Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return p, fmt.Errorf("orm: page: %w", err)
	}
	return p, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search adds a case-insensitive LIKE on column when term is non-empty.
func Search(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		escaped := likeEscaper.Replace(strings.ToLower(term))
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '!'", "%"+escaped+"%")
	}
}

// WhereIf applies cond only when apply is true.
func WhereIf(apply bool, cond string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !apply {
			return db
		}
		return db.Where(cond, args...)
	}
}

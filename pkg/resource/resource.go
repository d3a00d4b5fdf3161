// Package resource shapes models into the JSON the API returns.
//
// A transformer is a plain function from a model to a Map:
//
//	func User(u models.UserProfile) resource.Map {
//	    return resource.Map{"id": u.ID, "username": u.Username}
//	}
//
//	c.Success(resource.Collection(users, User))
//	c.Success(resource.Paginate(users, page, User))
package resource

import (
	"time"

	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into its API shape.
type Transformer[T any] func(T) Map

// Collection applies fn to every item. A nil slice becomes an empty list so
// clients always see [] rather than null.
func Collection[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// Page is a transformed page with its pagination metadata.
type Page struct {
	Results    []Map          `json:"results"`
	Pagination orm.Pagination `json:"pagination"`
}

func Paginate[T any](items []T, p orm.Pagination, fn Transformer[T]) Page {
	return Page{Results: Collection(items, fn), Pagination: p}
}

// Date and DateTime are the display layouts used across the API.
const (
	Date     = "02-01-2006"
	DateTime = "02-01-2006 15:04"
)

// FormatTime renders t in layout, or nil for the zero time.
func FormatTime(t time.Time, layout string) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(layout)
}

package resources

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

func Category(c models.Category) resource.Map {
	return resource.Map{
		"id":            c.ID,
		"category_name": c.Name,
	}
}

// Price renders a nullable money value with two decimals.
func Price(p decimal.NullDecimal) interface{} {
	if !p.Valid {
		return nil
	}
	return p.Decimal.StringFixed(2)
}

func Money(d decimal.Decimal) string { return d.StringFixed(2) }

// ProductList is the compact listing shape. category is the id only.
func ProductList(p models.Product) resource.Map {
	return resource.Map{
		"id":           p.ID,
		"product_name": p.Name,
		"category":     p.CategoryID,
		"price":        Price(p.Price),
		"date":         resource.FormatTime(p.CreatedDate, resource.Date),
		"owner":        Person(p.Owner),
	}
}

func Photo(ph models.ProductPhoto) resource.Map {
	return resource.Map{
		"id":    ph.ID,
		"image": ph.URL,
	}
}

// AverageRating rounds to one decimal for display.
func AverageRating(ratings []models.Rating) float64 {
	return math.Round(aggregate.AverageRating(ratings)*10) / 10
}

// Product is the detail shape with photos, ratings and the review thread.
func Product(p models.Product) (resource.Map, error) {
	thread, err := aggregate.BuildThread(p.Reviews)
	if err != nil {
		return nil, fmt.Errorf("resources: product %d: %w", p.ID, err)
	}

	owner := resource.Map{
		"id":         p.Owner.ID,
		"username":   p.Owner.Username,
		"first_name": p.Owner.FirstName,
		"last_name":  p.Owner.LastName,
	}

	return resource.Map{
		"id":             p.ID,
		"product_name":   p.Name,
		"category":       resource.Map{"category_name": p.Category.Name},
		"photos":         resource.Collection(p.Photos, Photo),
		"description":    p.Description,
		"price":          Price(p.Price),
		"product_video":  p.VideoURL,
		"active":         p.Active,
		"average_rating": AverageRating(p.Ratings),
		"ratings":        resource.Collection(p.Ratings, RatingEntry),
		"reviews":        resource.Collection(thread, ReviewThread),
		"date":           resource.FormatTime(p.CreatedDate, resource.Date),
		"owner":          owner,
	}, nil
}

// ProductBrief is embedded in cart lines.
func ProductBrief(p models.Product) resource.Map {
	return resource.Map{
		"id":           p.ID,
		"product_name": p.Name,
		"price":        Price(p.Price),
		"active":       p.Active,
	}
}

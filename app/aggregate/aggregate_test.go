package aggregate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
)

func ratings(stars ...int) []models.Rating {
	out := make([]models.Rating, len(stars))
	for i, s := range stars {
		out[i] = models.Rating{ID: uint(i + 1), Stars: s}
	}
	return out
}

func priced(price string) *models.Product {
	return &models.Product{ID: 1, Price: decimal.NewNullDecimal(decimal.RequireFromString(price))}
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 4.0, aggregate.AverageRating(ratings(3, 4, 5)))
	assert.Equal(t, 5.0, aggregate.AverageRating(ratings(5)))
	assert.InDelta(t, 3.6667, aggregate.AverageRating(ratings(5, 5, 1)), 0.0001)
}

func TestAverageRating_Empty(t *testing.T) {
	assert.Equal(t, aggregate.NoRating, aggregate.AverageRating(nil))
	assert.Equal(t, 0.0, aggregate.AverageRating([]models.Rating{}))
}

func TestRatingSummary(t *testing.T) {
	s := aggregate.RatingSummary(ratings(5, 5, 4, 1))
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3.75, s.Average)
	assert.Equal(t, 2, s.Histogram[5])
	assert.Equal(t, 1, s.Histogram[4])
	assert.Equal(t, 0, s.Histogram[3])
	assert.Equal(t, 1, s.Histogram[1])
}

func TestLineTotal(t *testing.T) {
	got, err := aggregate.LineTotal(models.CartItem{ID: 1, Quantity: 3, Product: priced("2.50")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.50").Equal(got), "got %s", got)

	got, err = aggregate.LineTotal(models.CartItem{ID: 2, Quantity: 0, Product: priced("9.99")})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestLineTotal_Invalid(t *testing.T) {
	cases := map[string]models.CartItem{
		"negative quantity":  {ID: 1, Quantity: -1, Product: priced("10.00")},
		"product not loaded": {ID: 2, Quantity: 1},
		"missing price":      {ID: 3, Quantity: 1, Product: &models.Product{ID: 3}},
		"negative price":     {ID: 4, Quantity: 1, Product: priced("-1.00")},
	}
	for name, item := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := aggregate.LineTotal(item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, aggregate.ErrInvalidLineItem))
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLineTotal_MonotoneInQuantity(t *testing.T) {
	for _, price := range []string{"0", "0.01", "5.50", "1999.99"} {
		prev := decimal.Zero
		for q := 0; q <= 50; q++ {
			got, err := aggregate.LineTotal(models.CartItem{Quantity: q, Product: priced(price)})
			require.NoError(t, err)
			assert.True(t, got.GreaterThanOrEqual(prev), "price %s qty %d: %s < %s", price, q, got, prev)
			prev = got
		}
	}
}

func TestCartTotal(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{ID: 1, Quantity: 2, Product: priced("10.00")},
		{ID: 2, Quantity: 1, Product: priced("5.50")},
	}}
	got, err := aggregate.CartTotal(cart)
	require.NoError(t, err)
	assert.Equal(t, "25.50", got.StringFixed(2))
}

func TestCartTotal_Empty(t *testing.T) {
	got, err := aggregate.CartTotal(models.Cart{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCartTotal_InvalidLineAborts(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{ID: 1, Quantity: 2, Product: priced("10.00")},
		{ID: 2, Quantity: 1, Product: &models.Product{}},
	}}
	_, err := aggregate.CartTotal(cart)
	assert.ErrorIs(t, err, aggregate.ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "item 2")
}

func ptr(v uint) *uint { return &v }

func TestBuildThread(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []models.Review{
		{ID: 3, Text: "reply to 1", ParentReviewID: ptr(1), CreatedDate: base.Add(2 * time.Hour)},
		{ID: 1, Text: "root", CreatedDate: base},
		{ID: 4, Text: "reply to 3", ParentReviewID: ptr(3), CreatedDate: base.Add(3 * time.Hour)},
		{ID: 2, Text: "second root", CreatedDate: base.Add(time.Hour)},
		{ID: 5, Text: "orphan", ParentReviewID: ptr(99), CreatedDate: base.Add(4 * time.Hour)},
	}

	roots, err := aggregate.BuildThread(reviews)
	require.NoError(t, err)
	require.Len(t, roots, 3)

	assert.Equal(t, uint(1), roots[0].Review.ID)
	assert.Equal(t, uint(2), roots[1].Review.ID)
	assert.Equal(t, uint(5), roots[2].Review.ID)

	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, uint(3), roots[0].Replies[0].Review.ID)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(4), roots[0].Replies[0].Replies[0].Review.ID)
}

func TestBuildThread_Cycle(t *testing.T) {
	reviews := []models.Review{
		{ID: 1, ParentReviewID: ptr(2)},
		{ID: 2, ParentReviewID: ptr(1)},
		{ID: 3},
	}
	_, err := aggregate.BuildThread(reviews)
	assert.ErrorIs(t, err, aggregate.ErrReviewCycle)
}

func TestWouldCycle(t *testing.T) {
	reviews := []models.Review{
		{ID: 1},
		{ID: 2, ParentReviewID: ptr(1)},
		{ID: 3, ParentReviewID: ptr(2)},
	}
	assert.True(t, aggregate.WouldCycle(reviews, 1, 1))
	assert.True(t, aggregate.WouldCycle(reviews, 1, 3))
	assert.False(t, aggregate.WouldCycle(reviews, 3, 1))
	assert.False(t, aggregate.WouldCycle(reviews, 4, 3))
}

// Package aggregate derives read-only figures from already loaded models:
// average star ratings, cart line and cart totals, and review threads.
// Nothing here touches storage or HTTP.
package aggregate

import "github.com/shashiranjanraj/shopfront/app/models"

// NoRating is the average reported for a product nobody has rated yet.
const NoRating = 0.0

// AverageRating returns the arithmetic mean of the star scores.
func AverageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return NoRating
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Stars
	}
	return float64(sum) / float64(len(ratings))
}

// Summary is the rating breakdown shown on a product page.
type Summary struct {
	Count     int
	Average   float64
	Histogram [models.MaxStars + 1]int // index = stars; index 0 unused
}

// RatingSummary counts ratings per star value. Scores outside the valid
// range still count toward Count and Average but not the histogram.
func RatingSummary(ratings []models.Rating) Summary {
	s := Summary{Count: len(ratings), Average: AverageRating(ratings)}
	for _, r := range ratings {
		if r.Stars >= models.MinStars && r.Stars <= models.MaxStars {
			s.Histogram[r.Stars]++
		}
	}
	return s
}

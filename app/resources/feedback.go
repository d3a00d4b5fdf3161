package resources

import (
	"math"
	"strconv"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

// RatingEntry is a rating as listed on a product: who and how many stars.
func RatingEntry(r models.Rating) resource.Map {
	return resource.Map{
		"user":  Person(r.User),
		"stars": r.Stars,
	}
}

// Rating is the standalone shape returned by the ratings endpoints.
func Rating(r models.Rating) resource.Map {
	return resource.Map{
		"id":         r.ID,
		"product_id": r.ProductID,
		"user_id":    r.UserID,
		"stars":      r.Stars,
	}
}

func Summary(s aggregate.Summary) resource.Map {
	hist := resource.Map{}
	for stars := models.MinStars; stars <= models.MaxStars; stars++ {
		hist[strconv.Itoa(stars)] = s.Histogram[stars]
	}
	return resource.Map{
		"count":          s.Count,
		"average_rating": math.Round(s.Average*10) / 10,
		"histogram":      hist,
	}
}

func Review(rv models.Review) resource.Map {
	return resource.Map{
		"id":            rv.ID,
		"author":        Person(rv.Author),
		"text":          rv.Text,
		"parent_review": rv.ParentReviewID,
		"created_date":  resource.FormatTime(rv.CreatedDate, resource.DateTime),
	}
}

// ReviewThread renders a review with its replies nested beneath it.
func ReviewThread(n *aggregate.ReviewNode) resource.Map {
	m := Review(n.Review)
	m["replies"] = resource.Collection(n.Replies, ReviewThread)
	return m
}

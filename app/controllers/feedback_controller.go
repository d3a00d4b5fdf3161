package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

type RatingController struct {
	feedback *services.FeedbackService
}

func NewRatingController(feedback *services.FeedbackService) *RatingController {
	return &RatingController{feedback: feedback}
}

// Index lists the caller's own ratings.
func (rc *RatingController) Index(c *ctx.Context) {
	ratings, err := rc.feedback.MyRatings(c.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Collection(ratings, resources.Rating))
}

// ForProduct lists a product's ratings with their summary.
func (rc *RatingController) ForProduct(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	ratings, sum, err := rc.feedback.ProductRatings(c.Context(), pid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Map{
		"summary": resources.Summary(sum),
		"ratings": resource.Collection(ratings, resources.RatingEntry),
	})
}

// Store creates the caller's rating or replaces an earlier one: 201 on
// first rating, 200 on update.
func (rc *RatingController) Store(c *ctx.Context) {
	var in services.RatingInput
	if !c.BindJSON(&in) {
		return
	}
	r, updated, err := rc.feedback.Rate(c.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	if updated {
		c.Success(resources.Rating(r))
		return
	}
	c.Created(resources.Rating(r))
}

func (rc *RatingController) Destroy(c *ctx.Context) {
	rid, ok := id(c)
	if !ok {
		return
	}
	if err := rc.feedback.DeleteRating(c.Context(), actor(c), rid); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

type ReviewController struct {
	feedback *services.FeedbackService
}

func NewReviewController(feedback *services.FeedbackService) *ReviewController {
	return &ReviewController{feedback: feedback}
}

// Index returns the review thread of ?product=.
func (rc *ReviewController) Index(c *ctx.Context) {
	pid := c.QueryInt("product", 0)
	if pid <= 0 {
		c.Error(http.StatusBadRequest, "product query parameter is required")
		return
	}
	thread, err := rc.feedback.Thread(c.Context(), uint(pid))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Collection(thread, resources.ReviewThread))
}

func (rc *ReviewController) Show(c *ctx.Context) {
	rid, ok := id(c)
	if !ok {
		return
	}
	rv, err := rc.feedback.Review(c.Context(), rid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Review(rv))
}

func (rc *ReviewController) Store(c *ctx.Context) {
	var in services.ReviewInput
	if !c.BindJSON(&in) {
		return
	}
	rv, err := rc.feedback.CreateReview(c.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Review(rv))
}

func (rc *ReviewController) Update(c *ctx.Context) {
	rid, ok := id(c)
	if !ok {
		return
	}
	var in services.UpdateReviewInput
	if !c.BindJSON(&in) {
		return
	}
	rv, err := rc.feedback.UpdateReview(c.Context(), actor(c), rid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Review(rv))
}

func (rc *ReviewController) Destroy(c *ctx.Context) {
	rid, ok := id(c)
	if !ok {
		return
	}
	if err := rc.feedback.DeleteReview(c.Context(), actor(c), rid); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

type RatingInput struct {
	ProductID uint `json:"product" validate:"required"`
	Stars     int  `json:"stars"   validate:"required,min=1,max=5"`
}

type ReviewInput struct {
	ProductID    uint   `json:"product"       validate:"required"`
	Text         string `json:"text"          validate:"required,max=5000"`
	ParentReview *uint  `json:"parent_review" validate:"omitempty,min=1"`
}

// UpdateReviewInput changes the text and optionally re-parents a review.
// DetachParent makes it a root again.
type UpdateReviewInput struct {
	Text         *string `json:"text"          validate:"omitempty,min=1,max=5000"`
	ParentReview *uint   `json:"parent_review" validate:"omitempty,min=1"`
	DetachParent bool    `json:"detach_parent"`
}

type FeedbackService struct {
	products *repositories.ProductRepository
	ratings  *repositories.RatingRepository
	reviews  *repositories.ReviewRepository
	store    cache.Store
}

func NewFeedbackService(products *repositories.ProductRepository, ratings *repositories.RatingRepository, reviews *repositories.ReviewRepository, store cache.Store) *FeedbackService {
	return &FeedbackService{products: products, ratings: ratings, reviews: reviews, store: store}
}

func (s *FeedbackService) productExists(ctx context.Context, id uint) error {
	if _, err := s.products.Find(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("feedback: product %d: %w", id, ErrNotFound)
		}
		return translate("feedback: product", err)
	}
	return nil
}

func (s *FeedbackService) forgetProduct(ctx context.Context, id uint) {
	if err := s.store.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("feedback: cache invalidation failed", "product_id", id, "error", err)
	}
}

// ─── Ratings ─────────────────────────────────────────────────────────────────

// Rate records the actor's stars for a product. A second call replaces the
// first; updated reports which happened.
func (s *FeedbackService) Rate(ctx context.Context, actor Actor, in RatingInput) (models.Rating, bool, error) {
	if err := s.productExists(ctx, in.ProductID); err != nil {
		return models.Rating{}, false, err
	}
	r, updated, err := s.ratings.Upsert(ctx, actor.UserID, in.ProductID, in.Stars)
	if err != nil {
		return r, false, translate("feedback: rate", err)
	}

	result := "created"
	if updated {
		result = "updated"
	}
	metrics.RatingsSubmitted.WithLabelValues(result).Inc()
	s.forgetProduct(ctx, in.ProductID)
	return r, updated, nil
}

func (s *FeedbackService) MyRatings(ctx context.Context, actor Actor) ([]models.Rating, error) {
	out, err := s.ratings.ByUser(ctx, actor.UserID)
	return out, translate("feedback: ratings", err)
}

// ProductRatings returns the ratings of a product and their summary.
func (s *FeedbackService) ProductRatings(ctx context.Context, productID uint) ([]models.Rating, aggregate.Summary, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		return nil, aggregate.Summary{}, translate("feedback: ratings", err)
	}
	out, err := s.ratings.ForProduct(ctx, productID)
	if err != nil {
		return nil, aggregate.Summary{}, translate("feedback: ratings", err)
	}
	return out, aggregate.RatingSummary(out), nil
}

func (s *FeedbackService) DeleteRating(ctx context.Context, actor Actor, id uint) error {
	r, err := s.ratings.Find(ctx, id)
	if err != nil {
		return translate("feedback: delete rating", err)
	}
	if !actor.can(r.UserID) {
		return ErrForbidden
	}
	if err := s.ratings.Delete(ctx, id); err != nil {
		return translate("feedback: delete rating", err)
	}
	s.forgetProduct(ctx, r.ProductID)
	return nil
}

// ─── Reviews ─────────────────────────────────────────────────────────────────

// Thread returns a product's reviews arranged as reply trees.
func (s *FeedbackService) Thread(ctx context.Context, productID uint) ([]*aggregate.ReviewNode, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		return nil, translate("feedback: thread", err)
	}
	reviews, err := s.reviews.ForProduct(ctx, productID)
	if err != nil {
		return nil, translate("feedback: thread", err)
	}
	return aggregate.BuildThread(reviews)
}

func (s *FeedbackService) Review(ctx context.Context, id uint) (models.Review, error) {
	rv, err := s.reviews.Find(ctx, id)
	return rv, translate("feedback: review", err)
}

// checkParent verifies parentID is a review of the same product and that
// linking id under it keeps the thread acyclic. id is 0 for a new review.
func (s *FeedbackService) checkParent(ctx context.Context, productID, id, parentID uint) error {
	parent, err := s.reviews.Find(ctx, parentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: review %d does not exist", ErrInvalidParent, parentID)
		}
		return translate("feedback: parent", err)
	}
	if parent.ProductID != productID {
		return fmt.Errorf("%w: review %d belongs to another product", ErrInvalidParent, parentID)
	}
	if id == 0 {
		return nil
	}

	siblings, err := s.reviews.ForProduct(ctx, productID)
	if err != nil {
		return translate("feedback: parent", err)
	}
	if aggregate.WouldCycle(siblings, id, parentID) {
		return fmt.Errorf("%w: %w", ErrInvalidParent, aggregate.ErrReviewCycle)
	}
	return nil
}

// reviewText trims a review body and rejects one that is left empty.
func reviewText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("%w: review text must not be blank", ErrInvalidInput)
	}
	return text, nil
}

func (s *FeedbackService) CreateReview(ctx context.Context, actor Actor, in ReviewInput) (models.Review, error) {
	text, err := reviewText(in.Text)
	if err != nil {
		return models.Review{}, err
	}
	if err := s.productExists(ctx, in.ProductID); err != nil {
		return models.Review{}, err
	}
	if in.ParentReview != nil {
		if err := s.checkParent(ctx, in.ProductID, 0, *in.ParentReview); err != nil {
			return models.Review{}, err
		}
	}

	rv := models.Review{
		AuthorID:       actor.UserID,
		ProductID:      in.ProductID,
		Text:           text,
		ParentReviewID: in.ParentReview,
		CreatedDate:    time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, &rv); err != nil {
		return rv, translate("feedback: create review", err)
	}
	s.forgetProduct(ctx, in.ProductID)
	return s.Review(ctx, rv.ID)
}

// UpdateReview lets the author edit their own review.
func (s *FeedbackService) UpdateReview(ctx context.Context, actor Actor, id uint, in UpdateReviewInput) (models.Review, error) {
	rv, err := s.reviews.Find(ctx, id)
	if err != nil {
		return rv, translate("feedback: update review", err)
	}
	if !actor.can(rv.AuthorID) {
		return rv, ErrForbidden
	}

	fields := map[string]interface{}{}
	if in.Text != nil {
		text, err := reviewText(*in.Text)
		if err != nil {
			return rv, err
		}
		fields["text"] = text
	}
	switch {
	case in.DetachParent:
		fields["parent_review_id"] = nil
	case in.ParentReview != nil:
		if err := s.checkParent(ctx, rv.ProductID, id, *in.ParentReview); err != nil {
			return rv, err
		}
		fields["parent_review_id"] = *in.ParentReview
	}
	if len(fields) > 0 {
		if err := s.reviews.Update(ctx, id, fields); err != nil {
			return rv, translate("feedback: update review", err)
		}
		s.forgetProduct(ctx, rv.ProductID)
	}
	return s.Review(ctx, id)
}

func (s *FeedbackService) DeleteReview(ctx context.Context, actor Actor, id uint) error {
	rv, err := s.reviews.Find(ctx, id)
	if err != nil {
		return translate("feedback: delete review", err)
	}
	if !actor.can(rv.AuthorID) {
		return ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return translate("feedback: delete review", err)
	}
	s.forgetProduct(ctx, rv.ProductID)
	return nil
}

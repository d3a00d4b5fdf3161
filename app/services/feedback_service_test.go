package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/internal/testkit"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
)

func TestFeedback_RatingReplacesPrevious(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	bob := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "9.00")

	first, updated, err := e.feedback.Rate(ctx, actor(alice.ID, alice.Role), services.RatingInput{ProductID: p.ID, Stars: 2})
	require.NoError(t, err)
	assert.False(t, updated)

	second, updated, err := e.feedback.Rate(ctx, actor(alice.ID, alice.Role), services.RatingInput{ProductID: p.ID, Stars: 5})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Stars)

	_, _, err = e.feedback.Rate(ctx, actor(bob.ID, bob.Role), services.RatingInput{ProductID: p.ID, Stars: 4})
	require.NoError(t, err)

	ratings, sum, err := e.feedback.ProductRatings(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 4.5, sum.Average, 1e-9)

	mine, err := e.feedback.MyRatings(ctx, actor(alice.ID, alice.Role))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ProductID)

	_, _, err = e.feedback.Rate(ctx, actor(alice.ID, alice.Role), services.RatingInput{ProductID: 9999, Stars: 3})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFeedback_DeleteRatingOwnerOnly(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	bob := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "9.00")

	r, _, err := e.feedback.Rate(ctx, actor(alice.ID, alice.Role), services.RatingInput{ProductID: p.ID, Stars: 3})
	require.NoError(t, err)

	assert.ErrorIs(t, e.feedback.DeleteRating(ctx, actor(bob.ID, bob.Role), r.ID), services.ErrForbidden)
	require.NoError(t, e.feedback.DeleteRating(ctx, actor(alice.ID, alice.Role), r.ID))
	assert.ErrorIs(t, e.feedback.DeleteRating(ctx, actor(alice.ID, alice.Role), r.ID), services.ErrNotFound)

	_, sum, err := e.feedback.ProductRatings(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, aggregate.NoRating, sum.Average)
}

func TestFeedback_ReviewParentRules(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	cat := testkit.Category(t, e.db)
	p := testkit.Product(t, e.db, owner, cat, "9.00")
	other := testkit.Product(t, e.db, owner, cat, "9.00")
	a := actor(alice.ID, alice.Role)

	root, err := e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "  solid  "})
	require.NoError(t, err)
	assert.Equal(t, "solid", root.Text)
	assert.Equal(t, alice.Username, root.Author.Username)

	reply, err := e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "still solid", ParentReview: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentReviewID)
	assert.Equal(t, root.ID, *reply.ParentReviewID)

	_, err = e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: other.ID, Text: "x", ParentReview: &root.ID})
	assert.ErrorIs(t, err, services.ErrInvalidParent)

	missing := uint(9999)
	_, err = e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "x", ParentReview: &missing})
	assert.ErrorIs(t, err, services.ErrInvalidParent)

	_, err = e.feedback.UpdateReview(ctx, a, root.ID, services.UpdateReviewInput{ParentReview: &reply.ID})
	assert.ErrorIs(t, err, services.ErrInvalidParent)
	assert.ErrorIs(t, err, aggregate.ErrReviewCycle)

	_, err = e.feedback.UpdateReview(ctx, a, root.ID, services.UpdateReviewInput{ParentReview: &root.ID})
	assert.ErrorIs(t, err, aggregate.ErrReviewCycle)

	detached, err := e.feedback.UpdateReview(ctx, a, reply.ID, services.UpdateReviewInput{DetachParent: true})
	require.NoError(t, err)
	assert.Nil(t, detached.ParentReviewID)
}

func TestFeedback_ThreadAndDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	bob := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "9.00")
	a, b := actor(alice.ID, alice.Role), actor(bob.ID, bob.Role)

	root, err := e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "root"})
	require.NoError(t, err)
	reply, err := e.feedback.CreateReview(ctx, b, services.ReviewInput{ProductID: p.ID, Text: "reply", ParentReview: &root.ID})
	require.NoError(t, err)
	_, err = e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "nested", ParentReview: &reply.ID})
	require.NoError(t, err)

	thread, err := e.feedback.Thread(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "reply", thread[0].Replies[0].Review.Text)
	require.Len(t, thread[0].Replies[0].Replies, 1)

	text := "edited"
	_, err = e.feedback.UpdateReview(ctx, a, reply.ID, services.UpdateReviewInput{Text: &text})
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.ErrorIs(t, e.feedback.DeleteReview(ctx, a, reply.ID), services.ErrForbidden)

	require.NoError(t, e.feedback.DeleteReview(ctx, b, reply.ID))

	thread, err = e.feedback.Thread(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2, "replies of a deleted review become roots")
	assert.Empty(t, thread[0].Replies)

	var n int64
	require.NoError(t, e.db.Model(&models.Review{}).Where("product_id = ?", p.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestFeedback_ReviewTextAndProduct(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "9.00")
	a := actor(alice.ID, alice.Role)

	_, err := e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "  \n\t "})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: 9999, Text: "Nice."})
	assert.ErrorIs(t, err, services.ErrNotFound)

	rv, err := e.feedback.CreateReview(ctx, a, services.ReviewInput{ProductID: p.ID, Text: "  Nice.  "})
	require.NoError(t, err)
	assert.Equal(t, "Nice.", rv.Text)

	blank := "   "
	_, err = e.feedback.UpdateReview(ctx, a, rv.ID, services.UpdateReviewInput{Text: &blank})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	got, err := e.feedback.Review(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nice.", got.Text)
}

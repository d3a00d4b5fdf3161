package aggregate

import (
	"errors"
	"sort"

	"github.com/shashiranjanraj/shopfront/app/models"
)

// ErrReviewCycle is returned when parent links loop back on themselves.
var ErrReviewCycle = errors.New("review thread contains a cycle")

// ReviewNode is a review with its direct replies, oldest first.
type ReviewNode struct {
	Review  models.Review
	Replies []*ReviewNode
}

// BuildThread arranges reviews into a forest. A review whose parent is not
// in the set becomes a root.
func BuildThread(reviews []models.Review) ([]*ReviewNode, error) {
	parents := parentIndex(reviews)
	for _, r := range reviews {
		if reachesLoop(parents, r.ID) {
			return nil, ErrReviewCycle
		}
	}

	nodes := make(map[uint]*ReviewNode, len(reviews))
	for _, r := range reviews {
		nodes[r.ID] = &ReviewNode{Review: r}
	}

	var roots []*ReviewNode
	for _, r := range reviews {
		n := nodes[r.ID]
		if r.ParentReviewID != nil {
			if p, ok := nodes[*r.ParentReviewID]; ok {
				p.Replies = append(p.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sortNodes(roots)
	return roots, nil
}

// WouldCycle reports whether pointing review id at parentID would close a
// loop, given the existing links in reviews.
func WouldCycle(reviews []models.Review, id, parentID uint) bool {
	if id == parentID {
		return true
	}
	parents := parentIndex(reviews)
	seen := map[uint]bool{id: true}
	for cur, ok := parentID, true; ok; cur, ok = parents[cur] {
		if seen[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

func parentIndex(reviews []models.Review) map[uint]uint {
	out := make(map[uint]uint, len(reviews))
	for _, r := range reviews {
		if r.ParentReviewID != nil {
			out[r.ID] = *r.ParentReviewID
		}
	}
	return out
}

func reachesLoop(parents map[uint]uint, start uint) bool {
	seen := map[uint]bool{}
	for cur, ok := start, true; ok; cur, ok = parents[cur] {
		if seen[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

func sortNodes(nodes []*ReviewNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Review, nodes[j].Review
		if a.CreatedDate.Equal(b.CreatedDate) {
			return a.ID < b.ID
		}
		return a.CreatedDate.Before(b.CreatedDate)
	})
	for _, n := range nodes {
		sortNodes(n.Replies)
	}
}

package response

import "github.com/Alturino/storefront/review/pkg/review"

type ProductReviews struct {
	ProductID    string          `json:"productId"`
	Rating       float64         `json:"rating"`
	ReviewsCount int             `json:"reviewsCount"`
	Reviews      []review.Review `json:"reviews"`
}

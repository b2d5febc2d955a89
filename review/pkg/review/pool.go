package review

import "github.com/Alturino/storefront/catalog/pkg/model"

var DefaultPool = []model.ReviewEntry{
	{Name: "A. Martin", Rating: 5, Text: "Top shelf quality. Clean, smooth, and exactly as described."},
	{Name: "J. Nguyen", Rating: 5, Text: "Packaging was solid and the product looked fresh on arrival."},
	{Name: "S. Tremblay", Rating: 4.8, Text: "Great potency and flavor profile. Would reorder."},
	{Name: "M. Patel", Rating: 5, Text: "Premium feel from start to finish. Consistent quality."},
	{Name: "K. Wilson", Rating: 4.7, Text: "Fast turnaround and the quantity matched perfectly."},
	{Name: "D. Chen", Rating: 4.9, Text: "This one hit the sweet spot, strong but not harsh."},
	{Name: "R. Singh", Rating: 4.8, Text: "Excellent value for the quality. Really impressed."},
	{Name: "C. Dubois", Rating: 4.6, Text: "Everything was sealed properly and labeled clearly."},
	{Name: "A. Martin", Rating: 5, Text: "Super smooth experience. The quality is obvious."},
	{Name: "J. Nguyen", Rating: 5, Text: "Honestly one of the best I've tried in a long time."},
	{Name: "S. Tremblay", Rating: 4.9, Text: "Very consistent batch. No surprises, just quality."},
	{Name: "M. Patel", Rating: 4.8, Text: "The effects were exactly what I was looking for."},
	{Name: "K. Wilson", Rating: 4.7, Text: "Clean burn and clean finish. You can tell it's premium."},
	{Name: "D. Chen", Rating: 5, Text: "Nice aroma and strong results. Easy 5 stars."},
	{Name: "R. Singh", Rating: 4.6, Text: "The product photos matched what I received."},
	{Name: "C. Dubois", Rating: 4.8, Text: "Great customer experience and the product delivered."},
	{Name: "A. Martin", Rating: 4.9, Text: "Fresh, potent, and clearly handled with care."},
	{Name: "J. Nguyen", Rating: 5, Text: "Legit premium. I'd recommend to friends."},
	{Name: "S. Tremblay", Rating: 4.7, Text: "Quality control feels real here. Solid."},
	{Name: "M. Patel", Rating: 4.8, Text: "Perfect for evenings. Smooth and reliable."},
}

package domain

import "errors"

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable 商品不可售（下架或无库存）
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInvalidRating 评分超出 1-5 范围
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrDuplicateReview 同一用户对同一商品重复评价
	ErrDuplicateReview = errors.New("product already reviewed by this user")
	// ErrDuplicateWishlist 商品已在心愿单中
	ErrDuplicateWishlist = errors.New("product already in wishlist")
	// ErrNotProductSeller 非商品卖家禁止操作
	ErrNotProductSeller = errors.New("operation allowed for the product seller only")
)

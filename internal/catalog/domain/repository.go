package domain

import "context"

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	CategorySlug string
	BrandSlug    string
	SellerID     uint
	Query        string
	// OnlyAvailable 为 true 时仅返回可售商品
	OnlyAvailable bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	Get(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	Delete(ctx context.Context, id uint) error
}

type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

type BrandRepository interface {
	Save(ctx context.Context, brand *Brand) error
	GetBySlug(ctx context.Context, slug string) (*Brand, error)
	List(ctx context.Context) ([]*Brand, error)
}

type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	GetByProductAndUser(ctx context.Context, productID, userID uint) (*Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]*Review, error)
	Delete(ctx context.Context, id uint) error
}

type WishlistRepository interface {
	Save(ctx context.Context, item *WishlistItem) error
	Get(ctx context.Context, userID, productID uint) (*WishlistItem, error)
	ListByUser(ctx context.Context, userID uint) ([]*WishlistItem, error)
	Delete(ctx context.Context, userID, productID uint) error
}

package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug string `gorm:"column:slug;type:varchar(100);uniqueIndex;not null" json:"slug"`
}

func (Category) TableName() string { return "categories" }

type Brand struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug string `gorm:"column:slug;type:varchar(100);uniqueIndex;not null" json:"slug"`
}

func (Brand) TableName() string { return "brands" }

type Product struct {
	gorm.Model
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug        string          `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Available   bool            `gorm:"column:available;index;not null;default:true" json:"available"`
	Image       string          `gorm:"column:image;type:varchar(255)" json:"image"`
	CategoryID  uint            `gorm:"column:category_id;index" json:"category_id"`
	BrandID     uint            `gorm:"column:brand_id;index" json:"brand_id"`
	SellerID    uint            `gorm:"column:seller_id;index;not null" json:"seller_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand       *Brand          `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Reviews     []Review        `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

func (Product) TableName() string { return "products" }

// Purchasable 商品是否可购买
func (p *Product) Purchasable() bool {
	return p.Available && p.Stock > 0
}

type Review struct {
	gorm.Model
	ProductID     uint   `gorm:"column:product_id;index:idx_review_product_user,unique;not null" json:"product_id"`
	UserID        uint   `gorm:"column:user_id;index:idx_review_product_user,unique;not null" json:"user_id"`
	Rating        int    `gorm:"column:rating;not null" json:"rating"`
	Comment       string `gorm:"column:comment;type:text" json:"comment"`
	Advantages    string `gorm:"column:advantages;type:text" json:"advantages"`
	Disadvantages string `gorm:"column:disadvantages;type:text" json:"disadvantages"`
}

func (Review) TableName() string { return "reviews" }

type WishlistItem struct {
	gorm.Model
	UserID    uint     `gorm:"column:user_id;index:idx_wishlist_user_product,unique;not null" json:"user_id"`
	ProductID uint     `gorm:"column:product_id;index:idx_wishlist_user_product,unique;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

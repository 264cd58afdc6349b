package main

import (
	"context"

	cartapp "github.com/wyfcoding/ecommerce/internal/cart/application"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	userdomain "github.com/wyfcoding/ecommerce/internal/user/domain"
)

// cartCatalogAdapter 将目录服务适配为购物车的取价接口
type cartCatalogAdapter struct {
	catalog *catalogapp.CatalogService
}

func (a cartCatalogAdapter) GetSnapshot(ctx context.Context, productID uint) (*cartapp.ProductSnapshot, error) {
	snap, err := a.catalog.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &cartapp.ProductSnapshot{
		ID:        snap.ID,
		Name:      snap.Name,
		Price:     snap.Price,
		Available: snap.Available,
	}, nil
}

// orderCatalogAdapter 将目录服务适配为结算的取价接口
type orderCatalogAdapter struct {
	catalog *catalogapp.CatalogService
}

func (a orderCatalogAdapter) GetSnapshot(ctx context.Context, productID uint) (*orderapp.ProductSnapshot, error) {
	snap, err := a.catalog.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &orderapp.ProductSnapshot{
		ID:        snap.ID,
		Name:      snap.Name,
		Price:     snap.Price,
		Available: snap.Available,
	}, nil
}

// addressBookAdapter 将用户上下文的地址簿适配为结算的收货地址接口。
// 地址本身不存邮箱，邮箱取自用户资料
type addressBookAdapter struct {
	users     userdomain.UserRepository
	addresses userdomain.AddressRepository
}

func (a addressBookAdapter) GetAddress(ctx context.Context, userID, addressID uint) (*orderapp.ShippingAddress, error) {
	address, err := a.addresses.Get(ctx, userID, addressID)
	if err != nil || address == nil {
		return nil, err
	}
	return a.toShipping(ctx, userID, address)
}

func (a addressBookAdapter) GetDefaultAddress(ctx context.Context, userID uint) (*orderapp.ShippingAddress, error) {
	address, err := a.addresses.GetDefault(ctx, userID)
	if err != nil || address == nil {
		return nil, err
	}
	return a.toShipping(ctx, userID, address)
}

func (a addressBookAdapter) toShipping(ctx context.Context, userID uint, address *userdomain.Address) (*orderapp.ShippingAddress, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	email := ""
	if user != nil {
		email = user.Email
	}
	return &orderapp.ShippingAddress{
		ID:          address.ID,
		FullName:    address.FullName,
		Email:       email,
		Phone:       address.Phone,
		AddressLine: address.Line(),
		City:        address.City,
		PostalCode:  address.PostalCode,
		Country:     address.Country,
	}, nil
}

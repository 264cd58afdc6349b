package domain

import "errors"

var (
	// ErrEmptyCart 购物车为空时不允许下单
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingAddress 用户没有可用收货地址
	ErrMissingAddress = errors.New("shipping address is required")
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
)

package domain

import "errors"

var (
	// ErrInvalidQuantity 添加时数量非正
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemNotFound 更新目标行不存在
	ErrItemNotFound = errors.New("item not found in cart")
)

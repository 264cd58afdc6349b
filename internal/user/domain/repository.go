package domain

import "context"

// UserRepository 用户仓储接口，未找到时返回 (nil, nil)
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// AddressRepository 地址仓储接口
type AddressRepository interface {
	Save(ctx context.Context, address *Address) error
	Get(ctx context.Context, userID, addressID uint) (*Address, error)
	GetDefault(ctx context.Context, userID uint) (*Address, error)
	ListByUser(ctx context.Context, userID uint) ([]*Address, error)
	Delete(ctx context.Context, userID, addressID uint) error
	// ClearDefault 将用户所有地址的默认标记清除，切换默认地址前调用
	ClearDefault(ctx context.Context, userID uint) error
}

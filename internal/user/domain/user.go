// Package domain 定义用户上下文的核心领域模型
package domain

import "gorm.io/gorm"

// User 用户聚合根
type User struct {
	gorm.Model
	Email        string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Phone        string `gorm:"size:32" json:"phone"`
	IsSeller     bool   `gorm:"default:false" json:"is_seller"`
}

// Address 收货地址。每个用户最多一个默认地址
type Address struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	FullName     string `gorm:"size:128;not null" json:"full_name"`
	Phone        string `gorm:"size:32" json:"phone"`
	AddressLine1 string `gorm:"size:256;not null" json:"address_line1"`
	AddressLine2 string `gorm:"size:256" json:"address_line2"`
	City         string `gorm:"size:64;not null" json:"city"`
	State        string `gorm:"size:64" json:"state"`
	PostalCode   string `gorm:"size:16" json:"postal_code"`
	Country      string `gorm:"size:64;not null" json:"country"`
	IsDefault    bool   `gorm:"default:false" json:"is_default"`
}

// Line 返回拼接后的完整地址行
func (a Address) Line() string {
	if a.AddressLine2 == "" {
		return a.AddressLine1
	}
	return a.AddressLine1 + ", " + a.AddressLine2
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetType classifies virtual assets such as gift cards and coupons.
type AssetType string

const (
	AssetGiftCard   AssetType = "gift_card"
	AssetCoupon     AssetType = "coupon"
	AssetVoucher    AssetType = "voucher"
	AssetMembership AssetType = "membership"
	AssetLoyalty    AssetType = "loyalty"
	AssetOther      AssetType = "other"
)

// VirtualAsset is a stored-value item with an optional expiry.
type VirtualAsset struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Type        AssetType  `json:"type" db:"type"`
	Value       float64    `json:"value" db:"value"`
	Currency    string     `json:"currency" db:"currency"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	Description *string    `json:"description,omitempty" db:"description"`
	Barcode     *string    `json:"barcode,omitempty" db:"barcode"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NewVirtualAsset creates an active asset with a fresh identifier.
func NewVirtualAsset(name string, typ AssetType, value float64, currency string) VirtualAsset {
	now := time.Now()
	return VirtualAsset{
		ID:        uuid.New(),
		Name:      name,
		Type:      typ,
		Value:     value,
		Currency:  currency,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

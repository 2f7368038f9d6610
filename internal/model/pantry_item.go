package model

import "time"

// StorageLocation identifies where a pantry item is kept.
type StorageLocation string

const (
	LocationPantry  StorageLocation = "PANTRY"
	LocationFridge  StorageLocation = "FRIDGE"
	LocationFreezer StorageLocation = "FREEZER"
)

// Valid reports whether l is one of the known storage locations.
func (l StorageLocation) Valid() bool {
	switch l {
	case LocationPantry, LocationFridge, LocationFreezer:
		return true
	}
	return false
}

// Health holds product health metadata sourced from the barcode lookup.
// Empty string / zero values mean unknown.
type Health struct {
	NutriScore string   `json:"nutriScore,omitempty" db:"nutri_score"`
	NovaGroup  int      `json:"novaGroup,omitempty" db:"nova_group"`
	EcoScore   string   `json:"ecoScore,omitempty" db:"eco_score"`
	Allergens  []string `json:"allergens,omitempty" db:"allergens"`
	Labels     []string `json:"labels,omitempty" db:"labels"`
}

// Nutrition holds per-100-unit nutrition facts. All fields are optional.
type Nutrition struct {
	EnergyKcal    *float64 `json:"energyKcal,omitempty" db:"energy_kcal"`
	Fat           *float64 `json:"fat,omitempty" db:"fat"`
	SaturatedFat  *float64 `json:"saturatedFat,omitempty" db:"saturated_fat"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty" db:"carbohydrates"`
	Sugars        *float64 `json:"sugars,omitempty" db:"sugars"`
	Fiber         *float64 `json:"fiber,omitempty" db:"fiber"`
	Proteins      *float64 `json:"proteins,omitempty" db:"proteins"`
	Salt          *float64 `json:"salt,omitempty" db:"salt"`
}

// PantryItem represents one perishable item tracked in the pantry.
type PantryItem struct {
	ID            string          `json:"id" db:"id"`
	Barcode       string          `json:"barcode" db:"barcode"`
	Name          string          `json:"name" db:"name"`
	Brand         string          `json:"brand" db:"brand"`
	ImageURL      string          `json:"imageUrl" db:"image_url"`
	ThumbURL      string          `json:"thumbUrl" db:"thumb_url"`
	Quantity      float64         `json:"quantity" db:"quantity"`
	Unit          string          `json:"unit" db:"unit"`
	PackagingSize string          `json:"packagingSize" db:"packaging_size"`
	ExpiryDate    Date            `json:"expiryDate" db:"expiry_date"`
	PurchaseDate  Date            `json:"purchaseDate" db:"purchase_date"`
	OpenDate      *Date           `json:"openDate,omitempty" db:"open_date"`
	Location      StorageLocation `json:"storageLocation" db:"storage_location"`
	Health        Health          `json:"health" db:"-"`
	Nutrition     Nutrition       `json:"nutrition" db:"-"`

	// UpdatedAt is the epoch-millisecond timestamp of the last write on
	// either side. It is the sole conflict tie-breaker.
	UpdatedAt int64 `json:"updatedAt" db:"updated_at"`

	// IsSynced is local-only and never transmitted.
	IsSynced bool `json:"-" db:"is_synced"`
}

// Key returns the record id.
func (p PantryItem) Key() string { return p.ID }

// LastUpdated returns the record's updatedAt timestamp in epoch milliseconds.
func (p PantryItem) LastUpdated() int64 { return p.UpdatedAt }

// Synced reports whether the local copy has been confirmed by the remote store.
func (p PantryItem) Synced() bool { return p.IsSynced }

// Record is the constraint shared by both synced record types.
type Record interface {
	Key() string
	LastUpdated() int64
	Synced() bool
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

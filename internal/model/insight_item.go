package model

// InsightStatus records why an item left the pantry.
type InsightStatus string

const (
	StatusConsumed InsightStatus = "CONSUMED"
	StatusWasted   InsightStatus = "WASTED"
)

// Valid reports whether s is a known insight status.
func (s InsightStatus) Valid() bool {
	return s == StatusConsumed || s == StatusWasted
}

// InsightItem is the consumption/waste record derived from a PantryItem at
// the moment it is moved out of the pantry. The health snapshot is copied
// from the source item and frozen at transition time.
type InsightItem struct {
	ID         string        `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	ImageURL   string        `json:"imageUrl" db:"image_url"`
	Quantity   float64       `json:"quantity" db:"quantity"`
	Unit       string        `json:"unit" db:"unit"`
	Status     InsightStatus `json:"status" db:"status"`
	ActionDate Date          `json:"actionDate" db:"action_date"`
	Health     Health        `json:"health" db:"-"`

	UpdatedAt int64 `json:"updatedAt" db:"updated_at"`
	IsSynced  bool  `json:"-" db:"is_synced"`
}

// Key returns the record id.
func (i InsightItem) Key() string { return i.ID }

// LastUpdated returns the record's updatedAt timestamp in epoch milliseconds.
func (i InsightItem) LastUpdated() int64 { return i.UpdatedAt }

// Synced reports whether the local copy has been confirmed by the remote store.
func (i InsightItem) Synced() bool { return i.IsSynced }

package models

import (
	"strings"
	"time"
)

type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemArchived ItemStatus = "archived"
)

type ItemState string

const (
	StateNew          ItemState = "new"
	StateLikeNew      ItemState = "like_new"
	StateGood         ItemState = "good"
	StateFair         ItemState = "fair"
	StateRepairNeeded ItemState = "repair_needed"
)

// MaxItemMedia is the hard cap on media attached to one item.
const MaxItemMedia = 10

// Item is a listing offered for exchange.
type Item struct {
	ID          string     `bson:"id" json:"id"`
	OwnerID     string     `bson:"ownerId" json:"ownerId"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Category    string     `bson:"category" json:"category"`
	State       ItemState  `bson:"state" json:"state"`
	Status      ItemStatus `bson:"status" json:"status"`
	ThemeWeekID *string    `bson:"themeWeekId" json:"themeWeekId"`
	MediaCount  int        `bson:"mediaCount" json:"mediaCount"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ItemMedia is an image registered by URL against an item.
type ItemMedia struct {
	ID        string    `bson:"id" json:"id"`
	ItemID    string    `bson:"itemId" json:"itemId"`
	URL       string    `bson:"url" json:"url"`
	Type      string    `bson:"type" json:"type"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateItemInput struct {
	Title       string    `json:"title" validate:"min=3,max=120"`
	Description string    `json:"description" validate:"min=10,max=3000"`
	Category    string    `json:"category" validate:"min=2,max=60"`
	State       ItemState `json:"state" validate:"oneof=new like_new good fair repair_needed"`
	ThemeWeekID *string   `json:"themeWeekId" validate:"omitempty,min=1"`
}

func (in *CreateItemInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

// ItemPatch carries the fields an update may change. Nil means unchanged.
// ThemeWeekSet distinguishes an explicit null from an absent themeWeekId.
type ItemPatch struct {
	Title       *string     `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string     `json:"description" validate:"omitempty,min=10,max=3000"`
	Category    *string     `json:"category" validate:"omitempty,min=2,max=60"`
	State       *ItemState  `json:"state" validate:"omitempty,oneof=new like_new good fair repair_needed"`
	Status      *ItemStatus `json:"status" validate:"omitempty,oneof=active archived"`
	ThemeWeekID OptionalID  `json:"themeWeekId"`
}

func (p *ItemPatch) Normalize() {
	for _, f := range []*string{p.Title, p.Description, p.Category} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

type UpdateItemInput struct {
	ItemID string    `json:"itemId" validate:"min=1"`
	Data   ItemPatch `json:"data"`
}

func (in *UpdateItemInput) Normalize() {
	in.Data.Normalize()
}

type ItemIDInput struct {
	ItemID string `json:"itemId" validate:"min=1"`
}

type AddItemMediaInput struct {
	ItemID string `json:"itemId" validate:"min=1"`
	URL    string `json:"url" validate:"url"`
	Type   string `json:"type" validate:"oneof=image/jpeg image/png image/webp"`
}

// ItemFilter selects items for a listing page.
type ItemFilter struct {
	OwnerID string
	Status  ItemStatus
}

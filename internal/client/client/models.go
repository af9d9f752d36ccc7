package client

import "time"

// Envelope is the response shape shared by every endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// User is the authenticated principal as returned by /auth/login and /auth/me.
type User struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone,omitempty"`
	Role            string         `json:"role,omitempty"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	Stats           map[string]any `json:"stats,omitempty"`
}

// LoginData is the data of a successful /auth/login.
type LoginData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type userData struct {
	User User `json:"user"`
}

// Tag statuses reported by the backend.
const (
	StatusInactive = "inactive"
	StatusActive   = "active"
)

// QRCode is a lost-and-found tag. Owner contact fields are only present when
// the owner chose to show them or the caller owns the tag.
type QRCode struct {
	Code            string     `json:"code"`
	Status          string     `json:"status"`
	ItemName        string     `json:"itemName,omitempty"`
	ItemDescription string     `json:"itemDescription,omitempty"`
	Category        string     `json:"category,omitempty"`
	OwnerName       string     `json:"ownerName,omitempty"`
	OwnerPhone      string     `json:"ownerPhone,omitempty"`
	OwnerEmail      string     `json:"ownerEmail,omitempty"`
	Message         string     `json:"message,omitempty"`
	ShowPhone       bool       `json:"showPhone"`
	ShowEmail       bool       `json:"showEmail"`
	ScanCount       int        `json:"scanCount"`
	ActivatedAt     *time.Time `json:"activatedAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// IsActive reports whether the tag has been claimed by an owner.
func (q QRCode) IsActive() bool {
	return q.Status == StatusActive
}

// ActivationRequest carries the fields collected when a tag is claimed.
type ActivationRequest struct {
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription,omitempty"`
	Category        string `json:"category,omitempty"`
	OwnerName       string `json:"ownerName"`
	OwnerPhone      string `json:"ownerPhone"`
	OwnerEmail      string `json:"ownerEmail,omitempty"`
	Message         string `json:"message,omitempty"`
	ShowPhone       bool   `json:"showPhone"`
	ShowEmail       bool   `json:"showEmail"`
}

// QRCodeUpdate is a partial update; nil fields are left untouched.
type QRCodeUpdate struct {
	ItemName        *string `json:"itemName,omitempty"`
	ItemDescription *string `json:"itemDescription,omitempty"`
	Category        *string `json:"category,omitempty"`
	OwnerName       *string `json:"ownerName,omitempty"`
	OwnerPhone      *string `json:"ownerPhone,omitempty"`
	OwnerEmail      *string `json:"ownerEmail,omitempty"`
	Message         *string `json:"message,omitempty"`
	ShowPhone       *bool   `json:"showPhone,omitempty"`
	ShowEmail       *bool   `json:"showEmail,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u QRCodeUpdate) Empty() bool {
	return u == QRCodeUpdate{}
}

type qrCodeData struct {
	QRCode QRCode `json:"qrCode"`
}

type qrCodesData struct {
	QRCodes []QRCode `json:"qrCodes"`
}

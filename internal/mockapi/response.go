package mockapi

import (
	"time"

	"github.com/gin-gonic/gin"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func success(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func failure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

type userView struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone,omitempty"`
	Role            string         `json:"role"`
	IsEmailVerified bool           `json:"isEmailVerified"`
	Stats           map[string]any `json:"stats,omitempty"`
}

func viewUser(u *User, stats map[string]any) userView {
	return userView{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		Stats:           stats,
	}
}

type tagView struct {
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

// viewTag renders t for viewerID. Contact details the owner chose to hide
// are only included for the owner.
func viewTag(t Tag, viewerID string) tagView {
	v := tagView{
		Code:            t.Code,
		Status:          t.Status,
		ItemName:        t.ItemName,
		ItemDescription: t.ItemDescription,
		Category:        t.Category,
		OwnerName:       t.OwnerName,
		Message:         t.Message,
		ShowPhone:       t.ShowPhone,
		ShowEmail:       t.ShowEmail,
		ScanCount:       t.ScanCount,
		ActivatedAt:     t.ActivatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	owner := viewerID != "" && viewerID == t.OwnerID
	if owner || t.ShowPhone {
		v.OwnerPhone = t.OwnerPhone
	}
	if owner || t.ShowEmail {
		v.OwnerEmail = t.OwnerEmail
	}
	return v
}

package models

import (
	"time"

	"github.com/gocql/gocql"
)

type AuditLog struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"userId"`
	UserEmail  string     `json:"userEmail"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resourceId,omitempty"`
	IPAddress  string     `json:"ipAddress"`
	UserAgent  string     `json:"userAgent"`
	Success    bool       `json:"success"`
	ErrorMsg   string     `json:"errorMsg,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

const (
	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"

	ActionCategoryCreate = "category.create"
	ActionCategoryDelete = "category.delete"

	ActionOrderStatus = "order.status"

	ActionUserStatus = "user.status"
	ActionUserRole   = "user.role"
)

const (
	ResourceProduct  = "product"
	ResourceCategory = "category"
	ResourceOrder    = "order"
	ResourceUser     = "user"
)

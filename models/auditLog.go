package models

import (
	"context"
	"time"

	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// AuditLog is append-only. Nothing in the application reads it back.
type AuditLog struct {
	ID             int       `gorm:"primary_key" json:"id"`
	OrganizationId string    `gorm:"index;not null" json:"organization_id"`
	UserId         int       `gorm:"index" json:"user_id"`
	Action         string    `gorm:"size:100;not null" json:"action"`
	Resource       string    `gorm:"size:100;not null" json:"resource"`
	ResourceId     string    `gorm:"size:100" json:"resource_id"`
	IPAddress      string    `gorm:"size:100" json:"ip_address"`
	UserAgent      string    `gorm:"size:255" json:"user_agent"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type AuditMeta struct {
	IPAddress string
	UserAgent string
}

// WriteAuditLog records an action best-effort. A failed audit write must
// never fail the operation that triggered it, so errors are logged and
// dropped here.
func WriteAuditLog(ctx context.Context, action string, resource string, resourceId string, meta AuditMeta) {
	db := config.GetDB()
	logger := config.GetLogger()

	organizationId, _ := utils.GetOrganizationIdFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)

	record := AuditLog{
		OrganizationId: organizationId,
		UserId:         userId,
		Action:         action,
		Resource:       resource,
		ResourceId:     resourceId,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	}

	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		config.LogError(logger, "auditLog.go", "WriteAuditLog", action+" "+resource, resourceId, err)
	}
}

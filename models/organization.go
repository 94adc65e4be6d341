package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/impactlens/mne_backend/config"
	"github.com/impactlens/mne_backend/utils"
)

// Organization is the tenant root. Every scoped entity carries its id and
// the tenant guard plugin keeps queries inside it.
type Organization struct {
	ID          uuid.UUID `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName string    `gorm:"size:100" json:"contact_name"`
	Email       string    `gorm:"size:255" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Website     string    `gorm:"size:255" json:"website"`
	About       string    `gorm:"type:text" json:"about"`
	Address     string    `gorm:"type:text" json:"address"`
	Country     string    `gorm:"size:100" json:"country"`
	City        string    `gorm:"size:100" json:"city"`
	IsActive    *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrganization struct {
	Name        string `json:"name" binding:"required" validate:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"required" validate:"required,email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	About       string `json:"about"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	City        string `json:"city"`
}

func CreateOrganization(ctx context.Context, input *NewOrganization) (*Organization, error) {
	db := config.GetDB()

	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	organization := Organization{
		ID:          uuid.New(),
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Website:     input.Website,
		About:       input.About,
		Address:     input.Address,
		Country:     input.Country,
		City:        input.City,
		IsActive:    utils.NewTrue(),
	}

	if err := db.WithContext(ctx).Create(&organization).Error; err != nil {
		return nil, err
	}
	return &organization, nil
}

func GetOrganizationById(ctx context.Context, id string) (*Organization, error) {
	db := config.GetDB()
	var organization Organization
	err := db.WithContext(ctx).Where("id = ?", id).First(&organization).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &organization, nil
}

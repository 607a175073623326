package repository

import (
	"errors"
	"strings"

	"github.com/colis-next/internal/models"

	"gorm.io/gorm"
)

// ClientRepository 客户（发件方）数据访问接口
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByPhone(phone string) (*models.Client, error)
	List(filter ClientListFilter) ([]models.Client, int64, error)
	Update(client *models.Client) error
	Delete(id uint) error
}

// GormClientRepository GORM 实现
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户仓库
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Create 创建客户
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID 根据 ID 获取客户
func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// GetByPhone 根据电话获取客户
func (r *GormClientRepository) GetByPhone(phone string) (*models.Client, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var client models.Client
	if err := r.db.Where("phone = ?", phone).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// List 客户列表
func (r *GormClientRepository) List(filter ClientListFilter) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{})
	if filter.PickupZone != "" {
		query = query.Where("pickup_zone = ?", filter.PickupZone)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Update 更新客户
func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete 删除客户（软删除）
func (r *GormClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}

package service

import (
	"strings"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/repository"
)

// ClientService 客户（发件商家）管理服务
type ClientService struct {
	clientRepo   repository.ClientRepository
	deliveryRepo repository.DeliveryRepository
}

// NewClientService 创建客户服务实例
func NewClientService(clientRepo repository.ClientRepository, deliveryRepo repository.DeliveryRepository) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		deliveryRepo: deliveryRepo,
	}
}

// CreateClientInput 创建客户入参
type CreateClientInput struct {
	Name          string
	Phone         string
	PickupAddress string
	PickupZone    string
	Note          string
}

func validPickupZone(zone string) bool {
	switch zone {
	case "", constants.PickupZoneTanaVille, constants.PickupZonePeripherie, constants.PickupZoneSuperPeripherie:
		return true
	default:
		return false
	}
}

// Create 创建客户
func (s *ClientService) Create(input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidParameter
	}
	if !validPickupZone(input.PickupZone) {
		return nil, ErrInvalidParameter
	}
	phone, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:          name,
		Phone:         phone,
		PickupAddress: strings.TrimSpace(input.PickupAddress),
		PickupZone:    input.PickupZone,
		Note:          strings.TrimSpace(input.Note),
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get 获取客户详情
func (s *ClientService) Get(id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// List 客户列表
func (s *ClientService) List(filter repository.ClientListFilter) ([]models.Client, int64, error) {
	return s.clientRepo.List(filter)
}

// UpdateClientInput 更新客户入参，nil 字段保持原值
type UpdateClientInput struct {
	Name          *string
	Phone         *string
	PickupAddress *string
	PickupZone    *string
	Note          *string
}

// Update 更新客户
func (s *ClientService) Update(id uint, input UpdateClientInput) (*models.Client, error) {
	client, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidParameter
		}
		client.Name = name
	}
	if input.Phone != nil {
		phone, err := NormalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		client.Phone = phone
	}
	if input.PickupAddress != nil {
		client.PickupAddress = strings.TrimSpace(*input.PickupAddress)
	}
	if input.PickupZone != nil {
		if !validPickupZone(*input.PickupZone) {
			return nil, ErrInvalidParameter
		}
		client.PickupZone = *input.PickupZone
	}
	if input.Note != nil {
		client.Note = strings.TrimSpace(*input.Note)
	}

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete 删除客户
// 名下存在配送单（含历史单）的客户不可删除，保证报表可回溯。
func (s *ClientService) Delete(id uint) error {
	client, err := s.Get(id)
	if err != nil {
		return err
	}
	count, err := s.deliveryRepo.CountBySender(client.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrClientInUse
	}
	return s.clientRepo.Delete(client.ID)
}

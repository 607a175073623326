package service

import (
	"strings"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/repository"
)

// UserService 账号管理服务（骑手与管理员）
type UserService struct {
	userRepo     repository.UserRepository
	deliveryRepo repository.DeliveryRepository
	authService  *AuthService
}

// NewUserService 创建账号服务实例
func NewUserService(userRepo repository.UserRepository, deliveryRepo repository.DeliveryRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		deliveryRepo: deliveryRepo,
		authService:  authService,
	}
}

// CreateUserInput 创建账号入参
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateCourier 创建骑手账号
func (s *UserService) CreateCourier(input CreateUserInput) (*models.User, error) {
	input.Role = constants.RoleCourier
	return s.create(input)
}

// CreateAdmin 创建管理员账号
func (s *UserService) CreateAdmin(input CreateUserInput) (*models.User, error) {
	input.Role = constants.RoleAdmin
	return s.create(input)
}

// CreateStaff 创建后台员工账号（权限由角色策略决定）
func (s *UserService) CreateStaff(input CreateUserInput) (*models.User, error) {
	input.Role = constants.RoleStaff
	return s.create(input)
}

func (s *UserService) create(input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, ErrInvalidParameter
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	phone, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.authService.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCourier 获取骑手详情
func (s *UserService) GetCourier(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != constants.RoleCourier {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListCouriers 骑手列表
func (s *UserService) ListCouriers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.Role = constants.RoleCourier
	return s.userRepo.List(filter)
}

// UpdateUserInput 更新账号入参，nil 字段保持原值
type UpdateUserInput struct {
	Name     *string
	Phone    *string
	Password *string
	Status   *string
}

// UpdateCourier 更新骑手资料
func (s *UserService) UpdateCourier(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetCourier(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidParameter
		}
		user.Name = name
	}
	if input.Phone != nil {
		phone, err := NormalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		user.Phone = phone
	}
	if input.Status != nil {
		switch *input.Status {
		case constants.UserStatusActive, constants.UserStatusDisabled:
			user.Status = *input.Status
		default:
			return nil, ErrInvalidParameter
		}
	}
	if input.Password != nil {
		if err := s.authService.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.authService.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		user.TokenVersion++
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteCourier 删除骑手
// 名下仍有配送单的骑手不可删除，先转派再删。
func (s *UserService) DeleteCourier(id uint) error {
	user, err := s.GetCourier(id)
	if err != nil {
		return err
	}
	count, err := s.deliveryRepo.CountByCourier(user.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCourierInUse
	}
	return s.userRepo.Delete(user.ID)
}

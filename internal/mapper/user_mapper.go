package mapper

import (
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/pkg/fieldcrypt"
)

// UserMapper encrypts Phone and PayoutAccount on the way to the database and
// decrypts them on the way back.
type UserMapper struct {
	cipher fieldcrypt.Cipher
}

func NewUserMapper(cipher fieldcrypt.Cipher) *UserMapper {
	if cipher == nil {
		cipher = fieldcrypt.Passthrough{}
	}
	return &UserMapper{cipher: cipher}
}

func (m *UserMapper) ToEntity(u *model.User) (*entity.User, error) {
	if u == nil {
		return nil, nil
	}
	phone, err := fieldcrypt.DecryptPtr(m.cipher, u.Phone)
	if err != nil {
		return nil, err
	}
	payout, err := fieldcrypt.DecryptPtr(m.cipher, u.PayoutAccount)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Id:            u.Id,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FullName:      u.FullName,
		Role:          entity.UserRole(u.Role),
		Status:        entity.UserStatus(u.Status),
		Phone:         phone,
		PayoutAccount: payout,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}, nil
}

func (m *UserMapper) ToModel(u *entity.User) (*model.User, error) {
	if u == nil {
		return nil, nil
	}
	phone, err := fieldcrypt.EncryptPtr(m.cipher, u.Phone)
	if err != nil {
		return nil, err
	}
	payout, err := fieldcrypt.EncryptPtr(m.cipher, u.PayoutAccount)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Id:            u.Id,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FullName:      u.FullName,
		Role:          string(u.Role),
		Status:        string(u.Status),
		Phone:         phone,
		PayoutAccount: payout,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}, nil
}

func (m *UserMapper) ToEntities(users []*model.User) ([]*entity.User, error) {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		e, err := m.ToEntity(u)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (m *UserMapper) UserProviderToModel(p *entity.UserProvider) *model.UserProvider {
	if p == nil {
		return nil
	}
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}

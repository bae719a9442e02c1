package store

import (
	"context"
	"errors"

	"budgetbe/models"

	"gorm.io/gorm"
)

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *gormUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *gormUsers) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormUsers) FamilyMemberIDs(ctx context.Context, userID uint) ([]uint, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, err
	}
	if u.FamilyID == nil {
		return nil, nil
	}
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("family_id = ? AND id <> ?", *u.FamilyID, userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *gormUsers) SaveProfile(ctx context.Context, p *models.Profile) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormUsers) ProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormUsers) CreateFamily(ctx context.Context, f *models.Family) error {
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *gormUsers) FamilyByID(ctx context.Context, id uint) (*models.Family, error) {
	var f models.Family
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (s *gormUsers) SetFamily(ctx context.Context, userID, familyID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("family_id", familyID).Error
}

type gormTokens struct {
	db *gorm.DB
}

func (s *gormTokens) Create(ctx context.Context, t *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gormTokens) ByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.db.WithContext(ctx).Where("token_hash = ?", hash).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (s *gormTokens) Revoke(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

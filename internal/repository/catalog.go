package repository

import (
	"context"
	"errors"

	"psymap-go/internal/models"

	"gorm.io/gorm"
)

type GormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

func (s *GormCatalogStore) configurationQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Tests", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_order ASC")
		}).
		Preload("Tests.TestType")
}

func (s *GormCatalogStore) GetConfiguration(ctx context.Context, id uint) (*models.Configuration, error) {
	var cfg models.Configuration
	err := s.configurationQuery(ctx).First(&cfg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *GormCatalogStore) GetConfigurationBySlug(ctx context.Context, slug string) (*models.Configuration, error) {
	var cfg models.Configuration
	err := s.configurationQuery(ctx).First(&cfg, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *GormCatalogStore) ListActiveConfigurations(ctx context.Context) ([]models.Configuration, error) {
	var cfgs []models.Configuration
	err := s.configurationQuery(ctx).
		Where("is_active = ?", true).
		Order("slug ASC").
		Find(&cfgs).Error
	return cfgs, err
}

func (s *GormCatalogStore) GetTestType(ctx context.Context, id uint) (*models.TestType, error) {
	var tt models.TestType
	err := s.db.WithContext(ctx).First(&tt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (s *GormCatalogStore) GetTestTypeBySlug(ctx context.Context, slug string) (*models.TestType, error) {
	var tt models.TestType
	err := s.db.WithContext(ctx).First(&tt, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (s *GormCatalogStore) ListActiveQuestions(ctx context.Context, testTypeID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("test_type_id = ? AND is_active = ?", testTypeID, true).
		Order("order_index ASC").
		Find(&questions).Error
	return questions, err
}

// SeedCatalog upserts the YAML catalog into the database at startup. Test
// types and questions are matched by slug/code so repeated boots converge on
// the file's content without duplicating rows.
func SeedCatalog(ctx context.Context, db *gorm.DB, catalog *models.CatalogFile) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeIDs := make(map[string]uint, len(catalog.TestTypes))

		for _, ct := range catalog.TestTypes {
			tt := models.TestType{
				Slug:        ct.Slug,
				Name:        ct.Name,
				Description: ct.Description,
				Algorithm:   ct.Algorithm,
				MaxScore:    ct.MaxScore,
				Categories:  ct.Categories,
				IsActive:    true,
			}

			var existing models.TestType
			err := tx.First(&existing, "slug = ?", ct.Slug).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&tt).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				tt.ID = existing.ID
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"name":        tt.Name,
					"description": tt.Description,
					"algorithm":   tt.Algorithm,
					"max_score":   tt.MaxScore,
					"categories":  tt.Categories,
					"is_active":   true,
				}).Error; err != nil {
					return err
				}
			}
			typeIDs[ct.Slug] = tt.ID

			for _, cq := range ct.Questions {
				q := models.Question{
					TestTypeID: tt.ID,
					Code:       cq.ID,
					Text:       cq.Text,
					Category:   cq.Category,
					Weight:     cq.Weight,
					OrderIndex: cq.Order,
					Options:    cq.Options,
					IsActive:   true,
				}
				var existingQ models.Question
				err := tx.First(&existingQ, "code = ?", cq.ID).Error
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					if err := tx.Create(&q).Error; err != nil {
						return err
					}
				case err != nil:
					return err
				default:
					if err := tx.Model(&existingQ).Updates(map[string]interface{}{
						"test_type_id": q.TestTypeID,
						"text":         q.Text,
						"category":     q.Category,
						"weight":       q.Weight,
						"order_index":  q.OrderIndex,
						"options":      q.Options,
						"is_active":    true,
					}).Error; err != nil {
						return err
					}
				}
			}
		}

		for _, cc := range catalog.Configurations {
			cfg := models.Configuration{
				Slug:        cc.Slug,
				Name:        cc.Name,
				Description: cc.Description,
				IsActive:    true,
			}
			var existing models.Configuration
			err := tx.First(&existing, "slug = ?", cc.Slug).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&cfg).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				cfg.ID = existing.ID
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"name":        cfg.Name,
					"description": cfg.Description,
					"is_active":   true,
				}).Error; err != nil {
					return err
				}
				// Sequence entries are replaced wholesale; live sessions
				// carry their own totalTests and are unaffected.
				if err := tx.Where("configuration_id = ?", cfg.ID).
					Delete(&models.ConfigurationTest{}).Error; err != nil {
					return err
				}
			}

			for _, entry := range cc.Tests {
				ct := models.ConfigurationTest{
					ConfigurationID: cfg.ID,
					TestTypeID:      typeIDs[entry.TestType],
					SequenceOrder:   entry.Order,
					IsRequired:      entry.Required,
				}
				if err := tx.Create(&ct).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

package services

import (
	"context"
	"errors"
	"fmt"

	"projector-crm-sync/config"
	"projector-crm-sync/models"

	"gorm.io/gorm"
)

var ErrUnknownCaseType = errors.New("unknown case type")

type identifierColumn struct {
	table  string
	column string
}

var identifierColumns = map[IdentifierScope]identifierColumn{
	ScopeDTRCaseNumber: {table: "dtr_cases", column: "case_number"},
	ScopeRMANumber:     {table: "rma_cases", column: "rma_number"},
	ScopeCallLogNumber: {table: "rma_cases", column: "call_log_number"},
}

// GormStore implements Store on the CRM's MySQL schema. Each call is its own
// implicit transaction except DeleteCase.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		db = config.DB
	}
	return &GormStore{db: db}
}

func findOne[T any](ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var out T
	err := db.WithContext(ctx).Where(query, args...).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) FindSiteByName(ctx context.Context, name string) (*models.Site, error) {
	return findOne[models.Site](ctx, s.db, "name = ?", name)
}

func (s *GormStore) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *GormStore) FirstSite(ctx context.Context) (*models.Site, error) {
	var site models.Site
	err := s.db.WithContext(ctx).Order("id ASC").First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (s *GormStore) CreateSite(ctx context.Context, site *models.Site) error {
	return s.db.WithContext(ctx).Create(site).Error
}

func (s *GormStore) FindProjectorModel(ctx context.Context, modelNo string) (*models.ProjectorModel, error) {
	return findOne[models.ProjectorModel](ctx, s.db, "model_no = ?", modelNo)
}

func (s *GormStore) CreateProjectorModel(ctx context.Context, model *models.ProjectorModel) error {
	return s.db.WithContext(ctx).Create(model).Error
}

func (s *GormStore) FindProjectorBySerial(ctx context.Context, serial string) (*models.Projector, error) {
	return findOne[models.Projector](ctx, s.db, "serial_number = ?", serial)
}

func (s *GormStore) ListProjectors(ctx context.Context) ([]models.Projector, error) {
	var projectors []models.Projector
	if err := s.db.WithContext(ctx).Find(&projectors).Error; err != nil {
		return nil, err
	}
	return projectors, nil
}

func (s *GormStore) CreateProjector(ctx context.Context, projector *models.Projector) error {
	return s.db.WithContext(ctx).Create(projector).Error
}

func (s *GormStore) UpdateProjectorModel(ctx context.Context, projectorID, modelID uint) error {
	return s.db.WithContext(ctx).Model(&models.Projector{}).
		Where("id = ?", projectorID).
		Update("projector_model_id", modelID).Error
}

func (s *GormStore) FindAudi(ctx context.Context, siteID uint, audiNo string) (*models.Audi, error) {
	return findOne[models.Audi](ctx, s.db, "site_id = ? AND audi_no = ?", siteID, audiNo)
}

func (s *GormStore) FindAudiByID(ctx context.Context, id uint) (*models.Audi, error) {
	return findOne[models.Audi](ctx, s.db, "id = ?", id)
}

func (s *GormStore) FindAudiByProjector(ctx context.Context, projectorID uint) (*models.Audi, error) {
	return findOne[models.Audi](ctx, s.db, "projector_id = ?", projectorID)
}

func (s *GormStore) ListAudis(ctx context.Context) ([]models.Audi, error) {
	var audis []models.Audi
	if err := s.db.WithContext(ctx).Preload("Projector").Order("id ASC").Find(&audis).Error; err != nil {
		return nil, err
	}
	return audis, nil
}

func (s *GormStore) CountAudis(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Audi{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormStore) CreateAudi(ctx context.Context, audi *models.Audi) error {
	return s.db.WithContext(ctx).Create(audi).Error
}

func (s *GormStore) SetAudiProjector(ctx context.Context, audiID uint, projectorID *uint) error {
	return s.db.WithContext(ctx).Model(&models.Audi{}).
		Where("id = ?", audiID).
		Update("projector_id", projectorID).Error
}

func (s *GormStore) MoveCasesToAudi(ctx context.Context, fromAudiID, toAudiID, toSiteID uint) error {
	updates := map[string]interface{}{
		"audi_id": toAudiID,
		"site_id": toSiteID,
	}
	if err := s.db.WithContext(ctx).Model(&models.DTRCase{}).Where("audi_id = ?", fromAudiID).Updates(updates).Error; err != nil {
		return fmt.Errorf("move dtr cases: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.RMACase{}).Where("audi_id = ?", fromAudiID).Updates(updates).Error; err != nil {
		return fmt.Errorf("move rma cases: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteAudi(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Audi{}, id).Error
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.db, "email = ?", email)
}

func (s *GormStore) IdentifierExists(ctx context.Context, scope IdentifierScope, value string) (bool, error) {
	col, ok := identifierColumns[scope]
	if !ok {
		return false, fmt.Errorf("unknown identifier scope %q", scope)
	}
	var n int64
	err := s.db.WithContext(ctx).Table(col.table).Where(col.column+" = ?", value).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) CreateDTRCase(ctx context.Context, c *models.DTRCase) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) CreateRMACase(ctx context.Context, c *models.RMACase) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) ListDTRCases(ctx context.Context) ([]models.DTRCase, error) {
	var out []models.DTRCase
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) ListRMACases(ctx context.Context) ([]models.RMACase, error) {
	var out []models.RMACase
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func caseModel(caseType string) (interface{}, error) {
	switch caseType {
	case models.CaseTypeDTR:
		return &models.DTRCase{}, nil
	case models.CaseTypeRMA:
		return &models.RMACase{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCaseType, caseType)
}

func (s *GormStore) RelinkCase(ctx context.Context, caseType string, caseID, audiID, siteID uint) error {
	model, err := caseModel(caseType)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(model).Where("id = ?", caseID).Updates(map[string]interface{}{
		"audi_id": audiID,
		"site_id": siteID,
	}).Error
}

func (s *GormStore) DeleteCase(ctx context.Context, caseType string, caseID uint) error {
	model, err := caseModel(caseType)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ? AND case_type = ?", caseID, caseType).Delete(&models.AuditLog{}).Error; err != nil {
			return fmt.Errorf("delete audit logs: %w", err)
		}
		if err := tx.Where("id = ?", caseID).Delete(model).Error; err != nil {
			return fmt.Errorf("delete case: %w", err)
		}
		return nil
	})
}

func (s *GormStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) FindPart(ctx context.Context, projectorModelID uint, partNumber string) (*models.Part, error) {
	return findOne[models.Part](ctx, s.db, "projector_model_id = ? AND part_number = ?", projectorModelID, partNumber)
}

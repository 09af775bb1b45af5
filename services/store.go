package services

import (
	"context"

	"projector-crm-sync/models"
)

// IdentifierScope is a uniqueness scope for human-facing case identifiers.
type IdentifierScope string

const (
	ScopeDTRCaseNumber IdentifierScope = "dtr_case_number"
	ScopeRMANumber     IdentifierScope = "rma_number"
	ScopeCallLogNumber IdentifierScope = "call_log_number"
)

// Store is the persistence surface the reconciliation procedure needs.
// Lookups return (nil, nil) when no row matches.
type Store interface {
	FindSiteByName(ctx context.Context, name string) (*models.Site, error)
	ListSites(ctx context.Context) ([]models.Site, error)
	FirstSite(ctx context.Context) (*models.Site, error)
	CreateSite(ctx context.Context, site *models.Site) error

	FindProjectorModel(ctx context.Context, modelNo string) (*models.ProjectorModel, error)
	CreateProjectorModel(ctx context.Context, model *models.ProjectorModel) error

	FindProjectorBySerial(ctx context.Context, serial string) (*models.Projector, error)
	ListProjectors(ctx context.Context) ([]models.Projector, error)
	CreateProjector(ctx context.Context, projector *models.Projector) error
	UpdateProjectorModel(ctx context.Context, projectorID, modelID uint) error

	FindAudi(ctx context.Context, siteID uint, audiNo string) (*models.Audi, error)
	FindAudiByID(ctx context.Context, id uint) (*models.Audi, error)
	FindAudiByProjector(ctx context.Context, projectorID uint) (*models.Audi, error)
	// ListAudis returns every audi with its Projector populated.
	ListAudis(ctx context.Context) ([]models.Audi, error)
	CountAudis(ctx context.Context) (int64, error)
	CreateAudi(ctx context.Context, audi *models.Audi) error
	SetAudiProjector(ctx context.Context, audiID uint, projectorID *uint) error
	// MoveCasesToAudi repoints every DTR and RMA case on one audi to another.
	MoveCasesToAudi(ctx context.Context, fromAudiID, toAudiID, toSiteID uint) error
	DeleteAudi(ctx context.Context, id uint) error

	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	IdentifierExists(ctx context.Context, scope IdentifierScope, value string) (bool, error)
	CreateDTRCase(ctx context.Context, c *models.DTRCase) error
	CreateRMACase(ctx context.Context, c *models.RMACase) error
	ListDTRCases(ctx context.Context) ([]models.DTRCase, error)
	ListRMACases(ctx context.Context) ([]models.RMACase, error)
	RelinkCase(ctx context.Context, caseType string, caseID, audiID, siteID uint) error
	// DeleteCase removes a case together with its audit log rows.
	DeleteCase(ctx context.Context, caseType string, caseID uint) error

	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	FindPart(ctx context.Context, projectorModelID uint, partNumber string) (*models.Part, error)
}

package services

import (
	"context"
	"fmt"

	"projector-crm-sync/models"
)

// memoryStore is an in-process Store with the same not-found contract as
// GormStore.
type memoryStore struct {
	nextID uint

	sites      []models.Site
	pmodels    []models.ProjectorModel
	projectors []models.Projector
	audis      []models.Audi
	users      []models.User
	dtrs       []models.DTRCase
	rmas       []models.RMACase
	audits     []models.AuditLog
	parts      []models.Part

	auditErr error
}

var _ Store = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (m *memoryStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) addUser(email, role string) *models.User {
	u := models.User{ID: m.id(), Name: email, Email: email, Role: role, IsActive: true}
	m.users = append(m.users, u)
	return &u
}

func (m *memoryStore) FindSiteByName(_ context.Context, name string) (*models.Site, error) {
	for _, s := range m.sites {
		if s.Name == name {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListSites(context.Context) ([]models.Site, error) {
	return append([]models.Site(nil), m.sites...), nil
}

func (m *memoryStore) FirstSite(context.Context) (*models.Site, error) {
	if len(m.sites) == 0 {
		return nil, nil
	}
	cp := m.sites[0]
	return &cp, nil
}

func (m *memoryStore) CreateSite(_ context.Context, site *models.Site) error {
	if s, _ := m.FindSiteByName(context.Background(), site.Name); s != nil {
		return fmt.Errorf("duplicate site %q", site.Name)
	}
	site.ID = m.id()
	m.sites = append(m.sites, *site)
	return nil
}

func (m *memoryStore) FindProjectorModel(_ context.Context, modelNo string) (*models.ProjectorModel, error) {
	for _, pm := range m.pmodels {
		if pm.ModelNo == modelNo {
			cp := pm
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) CreateProjectorModel(_ context.Context, model *models.ProjectorModel) error {
	model.ID = m.id()
	m.pmodels = append(m.pmodels, *model)
	return nil
}

func (m *memoryStore) FindProjectorBySerial(_ context.Context, serial string) (*models.Projector, error) {
	for _, p := range m.projectors {
		if p.SerialNumber == serial {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListProjectors(context.Context) ([]models.Projector, error) {
	return append([]models.Projector(nil), m.projectors...), nil
}

func (m *memoryStore) CreateProjector(_ context.Context, projector *models.Projector) error {
	if p, _ := m.FindProjectorBySerial(context.Background(), projector.SerialNumber); p != nil {
		return fmt.Errorf("duplicate serial %q", projector.SerialNumber)
	}
	projector.ID = m.id()
	m.projectors = append(m.projectors, *projector)
	return nil
}

func (m *memoryStore) UpdateProjectorModel(_ context.Context, projectorID, modelID uint) error {
	for i := range m.projectors {
		if m.projectors[i].ID == projectorID {
			m.projectors[i].ProjectorModelID = modelID
			return nil
		}
	}
	return fmt.Errorf("projector %d not found", projectorID)
}

func (m *memoryStore) projectorByID(id uint) *models.Projector {
	for _, p := range m.projectors {
		if p.ID == id {
			cp := p
			return &cp
		}
	}
	return nil
}

func (m *memoryStore) FindAudi(_ context.Context, siteID uint, audiNo string) (*models.Audi, error) {
	for _, a := range m.audis {
		if a.SiteID == siteID && a.AudiNo == audiNo {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) FindAudiByID(_ context.Context, id uint) (*models.Audi, error) {
	for _, a := range m.audis {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) FindAudiByProjector(_ context.Context, projectorID uint) (*models.Audi, error) {
	for _, a := range m.audis {
		if a.ProjectorID != nil && *a.ProjectorID == projectorID {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListAudis(context.Context) ([]models.Audi, error) {
	out := make([]models.Audi, 0, len(m.audis))
	for _, a := range m.audis {
		if a.ProjectorID != nil {
			a.Projector = m.projectorByID(*a.ProjectorID)
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryStore) CountAudis(context.Context) (int64, error) {
	return int64(len(m.audis)), nil
}

func (m *memoryStore) CreateAudi(_ context.Context, audi *models.Audi) error {
	if a, _ := m.FindAudi(context.Background(), audi.SiteID, audi.AudiNo); a != nil {
		return fmt.Errorf("duplicate audi %d/%s", audi.SiteID, audi.AudiNo)
	}
	audi.ID = m.id()
	m.audis = append(m.audis, *audi)
	return nil
}

func (m *memoryStore) SetAudiProjector(_ context.Context, audiID uint, projectorID *uint) error {
	for i := range m.audis {
		if m.audis[i].ID == audiID {
			m.audis[i].ProjectorID = projectorID
			return nil
		}
	}
	return fmt.Errorf("audi %d not found", audiID)
}

func (m *memoryStore) MoveCasesToAudi(_ context.Context, fromAudiID, toAudiID, toSiteID uint) error {
	for i := range m.dtrs {
		if m.dtrs[i].AudiID == fromAudiID {
			m.dtrs[i].AudiID = toAudiID
			m.dtrs[i].SiteID = toSiteID
		}
	}
	for i := range m.rmas {
		if m.rmas[i].AudiID != nil && *m.rmas[i].AudiID == fromAudiID {
			id := toAudiID
			m.rmas[i].AudiID = &id
			m.rmas[i].SiteID = toSiteID
		}
	}
	return nil
}

func (m *memoryStore) DeleteAudi(_ context.Context, id uint) error {
	for i := range m.audis {
		if m.audis[i].ID == id {
			m.audis = append(m.audis[:i], m.audis[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) IdentifierExists(_ context.Context, scope IdentifierScope, value string) (bool, error) {
	switch scope {
	case ScopeDTRCaseNumber:
		for _, d := range m.dtrs {
			if d.CaseNumber == value {
				return true, nil
			}
		}
	case ScopeRMANumber:
		for _, r := range m.rmas {
			if r.RMANumber != nil && *r.RMANumber == value {
				return true, nil
			}
		}
	case ScopeCallLogNumber:
		for _, r := range m.rmas {
			if r.CallLogNumber != nil && *r.CallLogNumber == value {
				return true, nil
			}
		}
	default:
		return false, fmt.Errorf("unknown scope %q", scope)
	}
	return false, nil
}

func (m *memoryStore) CreateDTRCase(_ context.Context, c *models.DTRCase) error {
	c.ID = m.id()
	m.dtrs = append(m.dtrs, *c)
	return nil
}

func (m *memoryStore) CreateRMACase(_ context.Context, c *models.RMACase) error {
	c.ID = m.id()
	m.rmas = append(m.rmas, *c)
	return nil
}

func (m *memoryStore) ListDTRCases(context.Context) ([]models.DTRCase, error) {
	return append([]models.DTRCase(nil), m.dtrs...), nil
}

func (m *memoryStore) ListRMACases(context.Context) ([]models.RMACase, error) {
	return append([]models.RMACase(nil), m.rmas...), nil
}

func (m *memoryStore) RelinkCase(_ context.Context, caseType string, caseID, audiID, siteID uint) error {
	switch caseType {
	case models.CaseTypeDTR:
		for i := range m.dtrs {
			if m.dtrs[i].ID == caseID {
				m.dtrs[i].AudiID = audiID
				m.dtrs[i].SiteID = siteID
				return nil
			}
		}
	case models.CaseTypeRMA:
		for i := range m.rmas {
			if m.rmas[i].ID == caseID {
				id := audiID
				m.rmas[i].AudiID = &id
				m.rmas[i].SiteID = siteID
				return nil
			}
		}
	default:
		return ErrUnknownCaseType
	}
	return fmt.Errorf("%s case %d not found", caseType, caseID)
}

func (m *memoryStore) DeleteCase(_ context.Context, caseType string, caseID uint) error {
	kept := m.audits[:0]
	for _, a := range m.audits {
		if !(a.CaseType == caseType && a.CaseID == caseID) {
			kept = append(kept, a)
		}
	}
	m.audits = kept

	switch caseType {
	case models.CaseTypeDTR:
		for i := range m.dtrs {
			if m.dtrs[i].ID == caseID {
				m.dtrs = append(m.dtrs[:i], m.dtrs[i+1:]...)
				return nil
			}
		}
	case models.CaseTypeRMA:
		for i := range m.rmas {
			if m.rmas[i].ID == caseID {
				m.rmas = append(m.rmas[:i], m.rmas[i+1:]...)
				return nil
			}
		}
	default:
		return ErrUnknownCaseType
	}
	return nil
}

func (m *memoryStore) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	if m.auditErr != nil {
		return m.auditErr
	}
	entry.ID = m.id()
	m.audits = append(m.audits, *entry)
	return nil
}

func (m *memoryStore) FindPart(_ context.Context, projectorModelID uint, partNumber string) (*models.Part, error) {
	for _, p := range m.parts {
		if p.ProjectorModelID == projectorModelID && p.PartNumber == partNumber {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

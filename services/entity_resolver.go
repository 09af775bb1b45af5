package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projector-crm-sync/models"

	"go.uber.org/zap"
)

const (
	placeholderManufacturer   = "Unknown"
	placeholderSpecifications = "Imported from spreadsheet"
)

var (
	ErrEmptySiteName = errors.New("site name is required")
	ErrEmptySerial   = errors.New("serial number is required")
	ErrEmptyAudiNo   = errors.New("audi number is required")
)

// EntityResolver finds or creates master-data rows referenced by spreadsheets.
type EntityResolver struct {
	store  Store
	logger *zap.Logger
}

func NewEntityResolver(store Store, logger *zap.Logger) *EntityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityResolver{store: store, logger: logger}
}

// ResolveSite looks a site up by exact name, then by normalized key, and creates
// it when neither matches.
func (r *EntityResolver) ResolveSite(ctx context.Context, name string) (*models.Site, error) {
	site, _, err := r.resolveSite(ctx, models.Site{Name: name})
	return site, err
}

func (r *EntityResolver) resolveSite(ctx context.Context, seed models.Site) (*models.Site, bool, error) {
	name := CleanSiteName(seed.Name)
	if name == "" {
		return nil, false, ErrEmptySiteName
	}

	site, err := r.store.FindSiteByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("find site %q: %w", name, err)
	}
	if site != nil {
		return site, false, nil
	}

	key := SiteKey(name)
	sites, err := r.store.ListSites(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list sites: %w", err)
	}
	for i := range sites {
		if SiteKey(sites[i].Name) == key {
			return &sites[i], false, nil
		}
	}

	created := &models.Site{Name: name, Address: seed.Address, Region: seed.Region}
	if err := r.store.CreateSite(ctx, created); err != nil {
		return nil, false, fmt.Errorf("create site %q: %w", name, err)
	}
	r.logger.Info("created site", zap.String("site", name), zap.Uint("site_id", created.ID))
	return created, true, nil
}

// ResolveProjectorModel returns nil when modelNo is empty or is the shared
// placeholder and no such row exists yet.
func (r *EntityResolver) ResolveProjectorModel(ctx context.Context, modelNo string) (*models.ProjectorModel, error) {
	model, _, err := r.resolveProjectorModel(ctx, models.ProjectorModel{ModelNo: modelNo})
	return model, err
}

func (r *EntityResolver) resolveProjectorModel(ctx context.Context, seed models.ProjectorModel) (*models.ProjectorModel, bool, error) {
	modelNo := strings.TrimSpace(seed.ModelNo)
	if modelNo == "" {
		return nil, false, nil
	}

	model, err := r.store.FindProjectorModel(ctx, modelNo)
	if err != nil {
		return nil, false, fmt.Errorf("find projector model %q: %w", modelNo, err)
	}
	if model != nil {
		return model, false, nil
	}
	if strings.EqualFold(modelNo, models.UnknownModelNo) {
		return nil, false, nil
	}

	created := &models.ProjectorModel{
		ModelNo:        modelNo,
		Manufacturer:   strings.TrimSpace(seed.Manufacturer),
		Specifications: strings.TrimSpace(seed.Specifications),
	}
	if created.Manufacturer == "" {
		created.Manufacturer = placeholderManufacturer
	}
	if created.Specifications == "" {
		created.Specifications = placeholderSpecifications
	}
	if err := r.store.CreateProjectorModel(ctx, created); err != nil {
		return nil, false, fmt.Errorf("create projector model %q: %w", modelNo, err)
	}
	r.logger.Info("created projector model", zap.String("model_no", modelNo))
	return created, true, nil
}

// unknownModel returns the shared placeholder model, creating it once.
func (r *EntityResolver) unknownModel(ctx context.Context) (*models.ProjectorModel, error) {
	model, err := r.store.FindProjectorModel(ctx, models.UnknownModelNo)
	if err != nil {
		return nil, fmt.Errorf("find placeholder model: %w", err)
	}
	if model != nil {
		return model, nil
	}
	model = &models.ProjectorModel{
		ModelNo:        models.UnknownModelNo,
		Manufacturer:   placeholderManufacturer,
		Specifications: placeholderSpecifications,
	}
	if err := r.store.CreateProjectorModel(ctx, model); err != nil {
		return nil, fmt.Errorf("create placeholder model: %w", err)
	}
	return model, nil
}

// ResolveProjector finds a projector by normalized serial or creates it.
func (r *EntityResolver) ResolveProjector(ctx context.Context, serial, modelNo string) (*models.Projector, error) {
	projector, _, err := r.resolveProjector(ctx, models.Projector{SerialNumber: serial}, modelNo)
	return projector, err
}

func (r *EntityResolver) resolveProjector(ctx context.Context, seed models.Projector, modelNo string) (*models.Projector, bool, error) {
	serial := NormalizeSerial(seed.SerialNumber)
	if serial == "" {
		return nil, false, ErrEmptySerial
	}

	model, err := r.ResolveProjectorModel(ctx, modelNo)
	if err != nil {
		return nil, false, err
	}

	projector, err := r.store.FindProjectorBySerial(ctx, serial)
	if err != nil {
		return nil, false, fmt.Errorf("find projector %s: %w", serial, err)
	}
	if projector != nil {
		if model != nil && model.ModelNo != models.UnknownModelNo && projector.ProjectorModelID != model.ID {
			if err := r.upgradeUnknownModel(ctx, projector, model); err != nil {
				return nil, false, err
			}
		}
		return projector, false, nil
	}

	if model == nil {
		if model, err = r.unknownModel(ctx); err != nil {
			return nil, false, err
		}
	}

	created := seed
	created.SerialNumber = serial
	created.ProjectorModelID = model.ID
	if created.Status == "" {
		created.Status = models.ProjectorStatusActive
	}
	if err := r.store.CreateProjector(ctx, &created); err != nil {
		return nil, false, fmt.Errorf("create projector %s: %w", serial, err)
	}
	r.logger.Info("created projector", zap.String("serial", serial), zap.String("model_no", model.ModelNo))
	return &created, true, nil
}

// upgradeUnknownModel moves a projector off the placeholder model once a real
// model is known. Projectors already on a real model are left alone.
func (r *EntityResolver) upgradeUnknownModel(ctx context.Context, projector *models.Projector, model *models.ProjectorModel) error {
	unknown, err := r.store.FindProjectorModel(ctx, models.UnknownModelNo)
	if err != nil {
		return fmt.Errorf("find placeholder model: %w", err)
	}
	if unknown == nil || projector.ProjectorModelID != unknown.ID {
		return nil
	}
	if err := r.store.UpdateProjectorModel(ctx, projector.ID, model.ID); err != nil {
		return fmt.Errorf("update projector %s model: %w", projector.SerialNumber, err)
	}
	projector.ProjectorModelID = model.ID
	r.logger.Info("upgraded projector model",
		zap.String("serial", projector.SerialNumber),
		zap.String("model_no", model.ModelNo),
	)
	return nil
}

// LinkAudi attaches projector to the audi (site, audiNo), creating the audi when
// needed. When another audi holds the projector, a placeholder holder has its
// cases moved over and is deleted; a real holder is detached.
func (r *EntityResolver) LinkAudi(ctx context.Context, site *models.Site, audiNo string, projector *models.Projector) (*models.Audi, error) {
	audiNo = strings.TrimSpace(audiNo)
	if audiNo == "" {
		return nil, ErrEmptyAudiNo
	}
	if site == nil {
		return nil, ErrEmptySiteName
	}

	target, err := r.store.FindAudi(ctx, site.ID, audiNo)
	if err != nil {
		return nil, fmt.Errorf("find audi %s/%s: %w", site.Name, audiNo, err)
	}

	var projectorID *uint
	var holder *models.Audi
	if projector != nil {
		id := projector.ID
		projectorID = &id
		holder, err = r.store.FindAudiByProjector(ctx, projector.ID)
		if err != nil {
			return nil, fmt.Errorf("find audi holding projector %s: %w", projector.SerialNumber, err)
		}
		if holder != nil && target != nil && holder.ID == target.ID {
			holder = nil
		}
	}

	if target == nil {
		target = &models.Audi{SiteID: site.ID, AudiNo: audiNo, ProjectorID: projectorID}
		// Release the projector first so the new audi is the only holder.
		if holder != nil && !holder.IsPlaceholder() {
			if err := r.detach(ctx, holder); err != nil {
				return nil, err
			}
			holder = nil
		}
		if err := r.store.CreateAudi(ctx, target); err != nil {
			return nil, fmt.Errorf("create audi %s/%s: %w", site.Name, audiNo, err)
		}
		r.logger.Info("created audi", zap.String("site", site.Name), zap.String("audi_no", audiNo))
	} else if projectorID != nil && (target.ProjectorID == nil || *target.ProjectorID != *projectorID) {
		if holder != nil && !holder.IsPlaceholder() {
			if err := r.detach(ctx, holder); err != nil {
				return nil, err
			}
			holder = nil
		}
		if err := r.store.SetAudiProjector(ctx, target.ID, projectorID); err != nil {
			return nil, fmt.Errorf("link audi %s/%s: %w", site.Name, audiNo, err)
		}
		target.ProjectorID = projectorID
	}

	if holder != nil {
		if err := r.absorbPlaceholder(ctx, holder, target); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func (r *EntityResolver) detach(ctx context.Context, audi *models.Audi) error {
	if err := r.store.SetAudiProjector(ctx, audi.ID, nil); err != nil {
		return fmt.Errorf("detach projector from audi %d: %w", audi.ID, err)
	}
	r.logger.Info("detached projector from previous audi", zap.Uint("audi_id", audi.ID), zap.String("audi_no", audi.AudiNo))
	audi.ProjectorID = nil
	return nil
}

// absorbPlaceholder moves every case off a placeholder audi and deletes it.
func (r *EntityResolver) absorbPlaceholder(ctx context.Context, placeholder, target *models.Audi) error {
	if err := r.store.MoveCasesToAudi(ctx, placeholder.ID, target.ID, target.SiteID); err != nil {
		return fmt.Errorf("move cases from %s: %w", placeholder.AudiNo, err)
	}
	if err := r.store.DeleteAudi(ctx, placeholder.ID); err != nil {
		return fmt.Errorf("delete placeholder audi %s: %w", placeholder.AudiNo, err)
	}
	r.logger.Info("merged placeholder audi",
		zap.String("placeholder", placeholder.AudiNo),
		zap.Uint("target_audi_id", target.ID),
	)
	return nil
}

// PlaceholderAudi creates an AUTO-<n> audi at site holding projector. n is the
// current audi count plus one; the import run lock keeps this sequential.
func (r *EntityResolver) PlaceholderAudi(ctx context.Context, site *models.Site, projector *models.Projector) (*models.Audi, error) {
	if site == nil {
		return nil, ErrEmptySiteName
	}
	count, err := r.store.CountAudis(ctx)
	if err != nil {
		return nil, fmt.Errorf("count audis: %w", err)
	}
	audiNo := fmt.Sprintf("%s%d", models.PlaceholderAudiPrefix, count+1)
	for {
		existing, err := r.store.FindAudi(ctx, site.ID, audiNo)
		if err != nil {
			return nil, fmt.Errorf("find audi %s: %w", audiNo, err)
		}
		if existing == nil {
			break
		}
		count++
		audiNo = fmt.Sprintf("%s%d", models.PlaceholderAudiPrefix, count+1)
	}

	audi := &models.Audi{SiteID: site.ID, AudiNo: audiNo}
	if projector != nil {
		id := projector.ID
		audi.ProjectorID = &id
	}
	if err := r.store.CreateAudi(ctx, audi); err != nil {
		return nil, fmt.Errorf("create placeholder audi %s: %w", audiNo, err)
	}
	r.logger.Info("created placeholder audi", zap.String("site", site.Name), zap.String("audi_no", audiNo))
	return audi, nil
}

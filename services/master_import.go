package services

import (
	"context"
	"fmt"
	"strings"

	"projector-crm-sync/models"

	"go.uber.org/zap"
)

// MasterImporter loads sites, projector models, projectors and audis.
type MasterImporter struct {
	store    Store
	resolver *EntityResolver
	logger   *zap.Logger
}

func NewMasterImporter(store Store, logger *zap.Logger) *MasterImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterImporter{
		store:    store,
		resolver: NewEntityResolver(store, logger),
		logger:   logger,
	}
}

func (m *MasterImporter) ImportSites(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, SitesFile, func(row Row) (string, error) {
		name := row.Field(FieldSiteName)
		if name == "" {
			return "", ErrEmptySiteName
		}
		_, _, err := m.resolver.resolveSite(ctx, models.Site{
			Name:    name,
			Address: optionalString(row.Field(FieldSiteAddress)),
			Region:  optionalString(row.Field(FieldSiteRegion)),
		})
		return name, err
	})
}

func (m *MasterImporter) ImportProjectorModels(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, ProjectorModelsFile, func(row Row) (string, error) {
		modelNo := row.Field(FieldModelNo)
		if modelNo == "" {
			return "", fmt.Errorf("model number is required")
		}
		_, _, err := m.resolver.resolveProjectorModel(ctx, models.ProjectorModel{
			ModelNo:        modelNo,
			Manufacturer:   row.Field(FieldManufacturer),
			Specifications: row.Field(FieldSpecifications),
		})
		return modelNo, err
	})
}

func (m *MasterImporter) ImportProjectors(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, ProjectorsFile, func(row Row) (string, error) {
		serial := NormalizeSerial(row.Field(FieldSerial))
		if serial == "" {
			return "", ErrEmptySerial
		}
		installDate, err := ParseSheetDate(row.Field(FieldInstallDate))
		if err != nil {
			return serial, fmt.Errorf("install date: %w", err)
		}
		seed := models.Projector{
			SerialNumber: serial,
			Status:       projectorStatus(row.Field(FieldProjectorState)),
			InstallDate:  installDate,
			Notes:        optionalString(row.Field(FieldNotes)),
		}
		_, _, err = m.resolver.resolveProjector(ctx, seed, row.Field(FieldModelNo))
		return serial, err
	})
}

// ImportAudis links each listed projector to its audi. Rows without a serial
// create projector-less audis.
func (m *MasterImporter) ImportAudis(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, AudisFile, func(row Row) (string, error) {
		siteName := row.Field(FieldSiteName)
		audiNo := row.Field(FieldAudiNo)
		key := fmt.Sprintf("%s/%s", siteName, audiNo)
		if audiNo == "" {
			return key, ErrEmptyAudiNo
		}
		site, err := m.resolver.ResolveSite(ctx, siteName)
		if err != nil {
			return key, err
		}

		serial := NormalizeSerial(row.Field(FieldSerial))
		if serial == "" {
			existing, err := m.store.FindAudi(ctx, site.ID, audiNo)
			if err != nil || existing != nil {
				return key, err
			}
			_, err = m.resolver.LinkAudi(ctx, site, audiNo, nil)
			return key, err
		}

		projector, err := m.resolver.ResolveProjector(ctx, serial, row.Field(FieldModelNo))
		if err != nil {
			return key, err
		}
		_, err = m.resolver.LinkAudi(ctx, site, audiNo, projector)
		return key, err
	})
}

// MasterSheets are the master-data workbooks in import order.
type MasterSheets struct {
	Sites           *Sheet
	ProjectorModels *Sheet
	Projectors      *Sheet
	Audis           *Sheet
}

// ImportAll runs the four master imports in dependency order.
func (m *MasterImporter) ImportAll(ctx context.Context, sheets MasterSheets) []*ImportReport {
	reports := []*ImportReport{
		m.ImportSites(ctx, sheets.Sites),
		m.ImportProjectorModels(ctx, sheets.ProjectorModels),
		m.ImportProjectors(ctx, sheets.Projectors),
		m.ImportAudis(ctx, sheets.Audis),
	}
	for _, r := range reports {
		m.logger.Info("master import finished",
			zap.String("file", r.File),
			zap.Int("total", r.Total),
			zap.Int("success", r.Success),
			zap.Int("failed", r.Failed),
		)
	}
	return reports
}

func projectorStatus(raw string) string {
	s := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
	if s == "" {
		return models.ProjectorStatusActive
	}
	return s
}

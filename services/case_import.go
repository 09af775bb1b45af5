package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"projector-crm-sync/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	ErrCreatorNotFound    = errors.New("creator user not found")
	ErrCaseNumberRequired = errors.New("case number is required")
	ErrNoSiteAvailable    = errors.New("no site available for placeholder audi")
)

// CaseImporter turns DTR and RMA spreadsheet rows into case rows, creating any
// master data the rows reference.
type CaseImporter struct {
	store         Store
	resolver      *EntityResolver
	xref          CrossReference
	fallbackEmail string
	logger        *zap.Logger
}

func NewCaseImporter(store Store, xref CrossReference, fallbackEmail string, logger *zap.Logger) *CaseImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseImporter{
		store:         store,
		resolver:      NewEntityResolver(store, logger),
		xref:          xref,
		fallbackEmail: fallbackEmail,
		logger:        logger,
	}
}

// caseLinks are the resolved references shared by both case types.
type caseLinks struct {
	serial     string
	projector  *models.Projector
	audi       *models.Audi
	creator    *models.User
	assigneeID *uint
}

func (c *CaseImporter) resolveLinks(ctx context.Context, row Row, modelHint string) (*caseLinks, error) {
	serial := NormalizeSerial(row.Field(FieldSerial))
	if serial == "" {
		return nil, ErrEmptySerial
	}

	entry := c.xref.Lookup(serial)
	if modelHint == "" && entry != nil {
		modelHint = entry.UnitModel
	}
	projector, err := c.resolver.ResolveProjector(ctx, serial, modelHint)
	if err != nil {
		return nil, err
	}

	audi, err := c.resolveAudi(ctx, row, projector, entry)
	if err != nil {
		return nil, err
	}

	creatorEmail := row.Field(FieldCreatedBy)
	if creatorEmail == "" {
		creatorEmail = c.fallbackEmail
	}
	creator, err := c.store.FindUserByEmail(ctx, creatorEmail)
	if err != nil {
		return nil, fmt.Errorf("find creator %s: %w", creatorEmail, err)
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: %s", ErrCreatorNotFound, creatorEmail)
	}

	links := &caseLinks{serial: serial, projector: projector, audi: audi, creator: creator}
	if email := row.Field(FieldAssignedTo); email != "" {
		assignee, err := c.store.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find assignee %s: %w", email, err)
		}
		if assignee != nil {
			id := assignee.ID
			links.assigneeID = &id
		} else {
			c.logger.Debug("assignee not found, leaving unassigned", zap.String("email", email), zap.Int("row", row.Number))
		}
	}
	return links, nil
}

// resolveAudi prefers the projector's current audi, then the cross-reference,
// then a placeholder at the row's site (or the first site on file). Case sheets
// never take a real audi away from the projector it already holds.
func (c *CaseImporter) resolveAudi(ctx context.Context, row Row, projector *models.Projector, entry *CrossRefEntry) (*models.Audi, error) {
	audi, err := c.store.FindAudiByProjector(ctx, projector.ID)
	if err != nil {
		return nil, fmt.Errorf("find audi for %s: %w", projector.SerialNumber, err)
	}
	if audi != nil {
		return audi, nil
	}

	if entry.HasAudi() {
		site, err := c.resolver.ResolveSite(ctx, entry.SiteName)
		if err != nil {
			return nil, err
		}
		target, err := c.store.FindAudi(ctx, site.ID, entry.AudiNo)
		if err != nil {
			return nil, fmt.Errorf("find audi %s/%s: %w", site.Name, entry.AudiNo, err)
		}
		if canClaimAudi(target, projector) {
			return c.resolver.LinkAudi(ctx, site, entry.AudiNo, projector)
		}
		c.logger.Warn("cross-referenced audi holds another projector, using a placeholder",
			zap.String("serial", projector.SerialNumber),
			zap.String("site", site.Name),
			zap.String("audi_no", entry.AudiNo),
			zap.Int("row", row.Number),
		)
		return c.resolver.PlaceholderAudi(ctx, site, projector)
	}

	var site *models.Site
	siteName := row.Field(FieldSiteName)
	if siteName == "" && entry != nil {
		siteName = entry.SiteName
	}
	if siteName != "" {
		if site, err = c.resolver.ResolveSite(ctx, siteName); err != nil {
			return nil, err
		}
	} else {
		if site, err = c.store.FirstSite(ctx); err != nil {
			return nil, fmt.Errorf("find first site: %w", err)
		}
		if site == nil {
			return nil, ErrNoSiteAvailable
		}
	}
	return c.resolver.PlaceholderAudi(ctx, site, projector)
}

func (c *CaseImporter) ImportDTR(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, DTRCasesFile, func(row Row) (string, error) {
		caseNumber := row.Field(FieldCaseNumber)
		key := caseNumber
		if key == "" {
			key = row.Field(FieldSerial)
		}
		return key, c.importDTRRow(ctx, sheet, row, caseNumber)
	})
}

func (c *CaseImporter) importDTRRow(ctx context.Context, sheet *Sheet, row Row, caseNumber string) error {
	if caseNumber == "" {
		return ErrCaseNumberRequired
	}
	errorDate, err := ParseSheetDate(row.Field(FieldErrorDate))
	if err != nil {
		return fmt.Errorf("error date: %w", err)
	}
	closedAt, err := ParseSheetDate(row.Field(FieldClosedAt))
	if err != nil {
		return fmt.Errorf("closed date: %w", err)
	}

	unitModel := row.Field(FieldModelNo)
	links, err := c.resolveLinks(ctx, row, unitModel)
	if err != nil {
		return err
	}

	number, err := UniqueIdentifier(ctx, c.store, ScopeDTRCaseNumber, caseNumber)
	if err != nil {
		return err
	}
	if number != caseNumber {
		c.logger.Info("case number taken, suffixed", zap.String("case_number", caseNumber), zap.String("stored_as", number))
	}

	dtr := &models.DTRCase{
		CaseNumber:      number,
		ErrorDate:       errorDate,
		SiteID:          links.audi.SiteID,
		AudiID:          links.audi.ID,
		SerialNumber:    links.serial,
		UnitModel:       optionalString(unitModel),
		NatureOfProblem: optionalString(row.Field(FieldNatureOfProblem)),
		ActionTaken:     optionalString(row.Field(FieldActionTaken)),
		Remarks:         optionalString(row.Field(FieldRemarks)),
		Status:          NormalizeDTRStatus(row.Field(FieldStatus)),
		Severity:        NormalizeSeverity(row.Field(FieldSeverity)),
		CallStatus:      optionalString(row.Field(FieldCallStatus)),
		CreatedBy:       links.creator.ID,
		AssignedTo:      links.assigneeID,
		ClosedAt:        closedAt,
	}
	if err := c.store.CreateDTRCase(ctx, dtr); err != nil {
		return fmt.Errorf("insert dtr case %s: %w", number, err)
	}
	c.writeAudit(ctx, models.CaseTypeDTR, dtr.ID, links.creator.ID, sheet, row)
	return nil
}

func (c *CaseImporter) ImportRMA(ctx context.Context, sheet *Sheet) *ImportReport {
	return importRows(sheet, RMACasesFile, func(row Row) (string, error) {
		key := row.Field(FieldRMANumber)
		if key == "" {
			key = row.Field(FieldCallLogNumber)
		}
		if key == "" {
			key = row.Field(FieldSerial)
		}
		return key, c.importRMARow(ctx, sheet, row)
	})
}

func (c *CaseImporter) importRMARow(ctx context.Context, sheet *Sheet, row Row) error {
	raisedDate, err := ParseSheetDate(row.Field(FieldRMARaisedDate))
	if err != nil {
		return fmt.Errorf("rma raised date: %w", err)
	}
	errorDate, err := ParseSheetDate(row.Field(FieldCustomerErrorDate))
	if err != nil {
		return fmt.Errorf("customer error date: %w", err)
	}
	shippedDate, err := ParseSheetDate(row.Field(FieldShippedDate))
	if err != nil {
		return fmt.Errorf("shipped date: %w", err)
	}

	productName := row.Field(FieldProductName)
	links, err := c.resolveLinks(ctx, row, productName)
	if err != nil {
		return err
	}

	rmaNumber, err := UniqueIdentifier(ctx, c.store, ScopeRMANumber, row.Field(FieldRMANumber))
	if err != nil {
		return err
	}
	callLog, err := UniqueIdentifier(ctx, c.store, ScopeCallLogNumber, row.Field(FieldCallLogNumber))
	if err != nil {
		return err
	}

	defectiveNumber := row.Field(FieldDefectivePartNumber)
	defectiveName := row.Field(FieldDefectivePartName)
	if defectiveNumber != "" {
		part, err := c.store.FindPart(ctx, links.projector.ProjectorModelID, defectiveNumber)
		if err != nil {
			return fmt.Errorf("find part %s: %w", defectiveNumber, err)
		}
		if part != nil && part.PartName != "" {
			defectiveName = part.PartName
		}
	}

	audiID := links.audi.ID
	rma := &models.RMACase{
		RMANumber:           optionalString(rmaNumber),
		CallLogNumber:       optionalString(callLog),
		RMAType:             NormalizeRMAType(row.Field(FieldRMAType)),
		RMARaisedDate:       raisedDate,
		CustomerErrorDate:   errorDate,
		SiteID:              links.audi.SiteID,
		AudiID:              &audiID,
		SerialNumber:        links.serial,
		ProductName:         optionalString(productName),
		ProductPartNumber:   optionalString(row.Field(FieldProductPartNumber)),
		DefectivePartNumber: optionalString(defectiveNumber),
		DefectivePartName:   optionalString(defectiveName),
		DefectivePartSerial: optionalString(row.Field(FieldDefectivePartSerial)),
		ReplacedPartNumber:  optionalString(row.Field(FieldReplacedPartNumber)),
		ReplacedPartSerial:  optionalString(row.Field(FieldReplacedPartSerial)),
		Symptoms:            optionalString(row.Field(FieldSymptoms)),
		IsDefectivePartDNR:  parseSheetBool(row.Field(FieldDNR)),
		ShippedDate:         shippedDate,
		TrackingNumber:      optionalString(row.Field(FieldTrackingNumber)),
		Status:              NormalizeRMAStatus(row.Field(FieldStatus)),
		Notes:               optionalString(row.Field(FieldNotes)),
		CreatedBy:           links.creator.ID,
		AssignedTo:          links.assigneeID,
	}
	if err := c.store.CreateRMACase(ctx, rma); err != nil {
		return fmt.Errorf("insert rma case: %w", err)
	}
	c.writeAudit(ctx, models.CaseTypeRMA, rma.ID, links.creator.ID, sheet, row)
	return nil
}

// writeAudit records where an imported case came from. Failure only warns; the
// case row already exists.
func (c *CaseImporter) writeAudit(ctx context.Context, caseType string, caseID, userID uint, sheet *Sheet, row Row) {
	file := ""
	if sheet != nil {
		file = filepath.Base(sheet.Path)
	}
	details, err := json.Marshal(map[string]interface{}{
		"source": file,
		"row":    row.Number,
	})
	if err != nil {
		details = nil
	}
	uid := userID
	entry := &models.AuditLog{
		CaseID:   caseID,
		CaseType: caseType,
		Action:   models.AuditActionImported,
		UserID:   &uid,
		Details:  datatypes.JSON(details),
	}
	if err := c.store.CreateAuditLog(ctx, entry); err != nil {
		c.logger.Warn("failed to write audit log",
			zap.String("case_type", caseType),
			zap.Uint("case_id", caseID),
			zap.Error(err),
		)
	}
}

// canClaimAudi reports whether a case row may link projector into audi. Only an
// empty, missing or placeholder audi, or one already holding projector, qualifies.
func canClaimAudi(audi *models.Audi, projector *models.Projector) bool {
	if audi == nil || audi.ProjectorID == nil || audi.IsPlaceholder() {
		return true
	}
	return *audi.ProjectorID == projector.ID
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"projector-crm-sync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFallbackEmail = "admin@projectorcare.local"

func TestImportDTRResolvesThroughCrossReference(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	admin := store.addUser(testFallbackEmail, models.UserRoleAdmin)

	audis := sheetOf(map[string]string{"serialNumber": "SN-1", "siteName": "Demo Cinema", "audiNo": "A1"})
	dtr := sheetOf(
		map[string]string{"caseNumber": "C", "serialNumber": "sn-1", "status": "Observation", "severity": "urgent", "errorDate": "45000"},
		map[string]string{"caseNumber": "C", "serialNumber": "SN-1", "status": "closed", "severity": "High"},
		map[string]string{"caseNumber": "", "serialNumber": "SN-1"},
		map[string]string{"caseNumber": "D", "serialNumber": ""},
	)
	xref := BuildCrossReferenceFromSheets(audis, nil, dtr, nil)

	report := NewCaseImporter(store, xref, testFallbackEmail, nil).ImportDTR(ctx, dtr)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Success)
	require.Equal(t, 2, report.Failed)
	assert.ErrorIs(t, report.Failures[0], ErrCaseNumberRequired)
	assert.Equal(t, 4, report.Failures[0].Row)
	assert.ErrorIs(t, report.Failures[1], ErrEmptySerial)

	require.Len(t, store.sites, 1)
	require.Len(t, store.audis, 1)
	audi := store.audis[0]
	assert.Equal(t, "A1", audi.AudiNo)
	require.NotNil(t, audi.ProjectorID)

	require.Len(t, store.dtrs, 2)
	first, second := store.dtrs[0], store.dtrs[1]
	assert.Equal(t, "C", first.CaseNumber)
	assert.Equal(t, "C-1", second.CaseNumber)
	assert.Equal(t, "SN-1", first.SerialNumber)
	assert.Equal(t, CaseStatusOpen, first.Status)
	assert.Equal(t, SeverityMedium, first.Severity)
	assert.Equal(t, CaseStatusClosed, second.Status)
	assert.Equal(t, SeverityHigh, second.Severity)
	assert.Equal(t, audi.ID, first.AudiID)
	assert.Equal(t, audi.ID, second.AudiID)
	assert.Equal(t, store.sites[0].ID, first.SiteID)
	assert.Equal(t, admin.ID, first.CreatedBy)
	require.NotNil(t, first.ErrorDate)
	assert.Equal(t, 2023, first.ErrorDate.Year())

	require.Len(t, store.audits, 2)
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(store.audits[0].Details, &details))
	assert.Equal(t, float64(2), details["row"])
	assert.Equal(t, models.AuditActionImported, store.audits[0].Action)
	assert.Equal(t, models.CaseTypeDTR, store.audits[0].CaseType)
}

func TestImportDTRKeepsRealAudiHoldingAnotherProjector(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addUser(testFallbackEmail, models.UserRoleAdmin)

	master := NewMasterImporter(store, nil)
	audis := sheetOf(map[string]string{"siteName": "Demo Cinema", "audiNo": "A1", "serialNumber": "SN-1"})
	require.Zero(t, master.ImportAudis(ctx, audis).Failed)
	held, err := store.FindProjectorBySerial(ctx, "SN-1")
	require.NoError(t, err)
	require.NotNil(t, held)

	dtr := sheetOf(map[string]string{"caseNumber": "C", "serialNumber": "SN-2", "siteName": "Demo Cinema", "audiNo": "A1"})
	xref := BuildCrossReferenceFromSheets(nil, nil, dtr, nil)
	report := NewCaseImporter(store, xref, testFallbackEmail, nil).ImportDTR(ctx, dtr)
	require.Equal(t, 1, report.Success)

	a1, err := store.FindAudi(ctx, store.sites[0].ID, "A1")
	require.NoError(t, err)
	require.NotNil(t, a1)
	require.NotNil(t, a1.ProjectorID)
	assert.Equal(t, held.ID, *a1.ProjectorID, "A1 keeps SN-1")

	incoming, err := store.FindProjectorBySerial(ctx, "SN-2")
	require.NoError(t, err)
	require.NotNil(t, incoming)
	placeholder, err := store.FindAudiByProjector(ctx, incoming.ID)
	require.NoError(t, err)
	require.NotNil(t, placeholder)
	assert.True(t, placeholder.IsPlaceholder())
	assert.Equal(t, store.sites[0].ID, placeholder.SiteID)

	require.Len(t, store.dtrs, 1)
	assert.Equal(t, placeholder.ID, store.dtrs[0].AudiID)
}

func TestImportDTRClaimsEmptyCrossReferencedAudi(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addUser(testFallbackEmail, models.UserRoleAdmin)
	site := &models.Site{Name: "Demo Cinema"}
	require.NoError(t, store.CreateSite(ctx, site))
	empty := &models.Audi{SiteID: site.ID, AudiNo: "A2"}
	require.NoError(t, store.CreateAudi(ctx, empty))

	dtr := sheetOf(map[string]string{"caseNumber": "C", "serialNumber": "SN-3", "siteName": "Demo Cinema", "audiNo": "A2"})
	xref := BuildCrossReferenceFromSheets(nil, nil, dtr, nil)
	report := NewCaseImporter(store, xref, testFallbackEmail, nil).ImportDTR(ctx, dtr)
	require.Equal(t, 1, report.Success)

	require.Len(t, store.audis, 1)
	require.NotNil(t, store.audis[0].ProjectorID)
	assert.Equal(t, empty.ID, store.dtrs[0].AudiID)
}

func TestImportRMAFallsBackToPlaceholderAudi(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.addUser(testFallbackEmail, models.UserRoleAdmin)
	engineer := store.addUser("eng@projectorcare.local", models.UserRoleEngineer)
	require.NoError(t, store.CreateSite(ctx, &models.Site{Name: "Existing"}))
	model := &models.ProjectorModel{ModelNo: "M7"}
	require.NoError(t, store.CreateProjectorModel(ctx, model))
	store.parts = append(store.parts, models.Part{ID: 99, PartNumber: "P-1", PartName: "Light engine", ProjectorModelID: model.ID})

	rma := sheetOf(
		map[string]string{
			"serialNumber": "SN-9", "productName": "M7", "rmaNumber": "R1", "rmaType": "RMA CI",
			"defectivePartNumber": "P-1", "isDefectivePartDNR": "yes", "createdBy": "eng@projectorcare.local",
			"assignedTo": "nobody@projectorcare.local",
		},
		map[string]string{"serialNumber": "SN-9", "rmaNumber": "R1", "status": "Under Review", "shippedDate": "bogus"},
		map[string]string{"serialNumber": "SN-9", "rmaNumber": "R1", "status": "Under Review"},
	)

	report := NewCaseImporter(store, nil, testFallbackEmail, nil).ImportRMA(ctx, rma)
	assert.Equal(t, 2, report.Success)
	require.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Failures[0].Error(), "shipped date")

	require.Len(t, store.audis, 1)
	placeholder := store.audis[0]
	assert.Equal(t, "AUTO-1", placeholder.AudiNo)
	assert.Equal(t, store.sites[0].ID, placeholder.SiteID)

	require.Len(t, store.rmas, 2)
	first, second := store.rmas[0], store.rmas[1]
	require.NotNil(t, first.RMANumber)
	assert.Equal(t, "R1", *first.RMANumber)
	require.NotNil(t, second.RMANumber)
	assert.Equal(t, "R1-1", *second.RMANumber)
	assert.Nil(t, first.CallLogNumber)
	assert.Equal(t, RMATypeRMACL, first.RMAType)
	assert.Equal(t, CaseStatusOpen, first.Status)
	assert.Equal(t, RMAStatusUnderReview, second.Status)
	assert.True(t, first.IsDefectivePartDNR)
	require.NotNil(t, first.DefectivePartName)
	assert.Equal(t, "Light engine", *first.DefectivePartName)
	assert.Equal(t, engineer.ID, first.CreatedBy)
	assert.Nil(t, first.AssignedTo)
	require.NotNil(t, first.AudiID)
	assert.Equal(t, placeholder.ID, *first.AudiID)
}

func TestImportCaseRowFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no site for placeholder", func(t *testing.T) {
		store := newMemoryStore()
		store.addUser(testFallbackEmail, models.UserRoleAdmin)
		report := NewCaseImporter(store, nil, testFallbackEmail, nil).
			ImportDTR(ctx, sheetOf(map[string]string{"caseNumber": "C", "serialNumber": "SN-1"}))
		require.Equal(t, 1, report.Failed)
		assert.ErrorIs(t, report.Failures[0], ErrNoSiteAvailable)
	})

	t.Run("creator missing", func(t *testing.T) {
		store := newMemoryStore()
		report := NewCaseImporter(store, nil, testFallbackEmail, nil).
			ImportRMA(ctx, sheetOf(map[string]string{"serialNumber": "SN-1", "siteName": "Demo Cinema"}))
		require.Equal(t, 1, report.Failed)
		assert.ErrorIs(t, report.Failures[0], ErrCreatorNotFound)
		assert.Empty(t, store.rmas)
	})

	t.Run("audit failure only warns", func(t *testing.T) {
		store := newMemoryStore()
		store.addUser(testFallbackEmail, models.UserRoleAdmin)
		store.auditErr = errors.New("audit table locked")
		report := NewCaseImporter(store, nil, testFallbackEmail, nil).
			ImportDTR(ctx, sheetOf(map[string]string{"caseNumber": "C", "serialNumber": "SN-1", "siteName": "Demo Cinema"}))
		assert.Equal(t, 1, report.Success)
		assert.Len(t, store.dtrs, 1)
	})
}

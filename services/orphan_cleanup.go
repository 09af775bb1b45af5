package services

import (
	"context"
	"fmt"
	"io"

	"projector-crm-sync/models"

	"go.uber.org/zap"
)

const (
	CleanupActionValid    = "valid"
	CleanupActionKept     = "kept"
	CleanupActionRelinked = "relinked"
	CleanupActionDeleted  = "deleted"
)

type CleanupOptions struct {
	DryRun bool
	Relink bool
}

// CleanupEntry describes what happened to one case during a cleanup pass.
type CleanupEntry struct {
	CaseType   string `json:"case_type"`
	CaseID     uint   `json:"case_id"`
	Identifier string `json:"identifier"`
	Serial     string `json:"serial"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

type CleanupReport struct {
	Name     string         `json:"name"`
	DryRun   bool           `json:"dry_run"`
	Checked  int            `json:"checked"`
	Valid    int            `json:"valid"`
	Kept     int            `json:"kept"`
	Relinked int            `json:"relinked"`
	Deleted  int            `json:"deleted"`
	Failed   int            `json:"failed"`
	Entries  []CleanupEntry `json:"entries,omitempty"`
	Failures []string       `json:"failures,omitempty"`
}

func (r *CleanupReport) add(entry CleanupEntry) {
	switch entry.Action {
	case CleanupActionValid:
		r.Valid++
		return
	case CleanupActionKept:
		r.Kept++
	case CleanupActionRelinked:
		r.Kept++
		r.Relinked++
	case CleanupActionDeleted:
		r.Deleted++
	}
	r.Entries = append(r.Entries, entry)
}

func (r *CleanupReport) fail(entry CleanupEntry, err error) {
	r.Failed++
	r.Failures = append(r.Failures, fmt.Sprintf("%s %s (%d): %v", entry.CaseType, entry.Identifier, entry.CaseID, err))
}

func (r *CleanupReport) WriteSummary(w io.Writer) {
	deleted := "deleted"
	if r.DryRun {
		deleted = "would delete"
	}
	fmt.Fprintf(w, "%s: checked %d, valid %d, kept %d (relinked %d), %s %d, failed %d\n",
		r.Name, r.Checked, r.Valid, r.Kept, r.Relinked, deleted, r.Deleted, r.Failed)
	for _, e := range r.Entries {
		fmt.Fprintf(w, "  - [%s] %s %s serial=%s: %s\n", e.Action, e.CaseType, e.Identifier, e.Serial, e.Reason)
	}
	for _, msg := range r.Failures {
		fmt.Fprintf(w, "  ! %s\n", msg)
	}
}

// evidenceIndex is a snapshot of where each serial currently lives.
type evidenceIndex struct {
	audis      map[uint]*models.Audi
	holders    map[string]*models.Audi
	projectors map[string]struct{}
	xref       CrossReference
}

func loadEvidence(ctx context.Context, store Store, xref CrossReference) (*evidenceIndex, error) {
	audis, err := store.ListAudis(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audis: %w", err)
	}
	projectors, err := store.ListProjectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projectors: %w", err)
	}

	idx := &evidenceIndex{
		audis:      make(map[uint]*models.Audi, len(audis)),
		holders:    make(map[string]*models.Audi, len(audis)),
		projectors: make(map[string]struct{}, len(projectors)),
		xref:       xref,
	}
	for i := range audis {
		a := &audis[i]
		idx.audis[a.ID] = a
		if a.Projector == nil {
			continue
		}
		serial := NormalizeSerial(a.Projector.SerialNumber)
		if _, ok := idx.holders[serial]; !ok {
			idx.holders[serial] = a
		}
	}
	for _, p := range projectors {
		idx.projectors[NormalizeSerial(p.SerialNumber)] = struct{}{}
	}
	return idx, nil
}

// verdict is the evidence found for one case serial.
type verdict struct {
	linked   bool
	holder   *models.Audi
	inSheets bool
	known    bool
}

func (v verdict) hasHome() bool {
	return v.holder != nil || v.inSheets || v.known
}

func (v verdict) reason() string {
	switch {
	case v.linked:
		return "linked audi holds this projector"
	case v.holder != nil:
		return fmt.Sprintf("projector installed at audi %s (id %d)", v.holder.AudiNo, v.holder.ID)
	case v.inSheets:
		return "serial present in spreadsheets"
	case v.known:
		return "projector exists without an audi"
	default:
		return "no projector, audi or spreadsheet row for serial"
	}
}

func (idx *evidenceIndex) check(serial string, audiID *uint) verdict {
	var v verdict
	if serial == "" {
		return v
	}
	if audiID != nil {
		if a, ok := idx.audis[*audiID]; ok && a.Projector != nil && NormalizeSerial(a.Projector.SerialNumber) == serial {
			v.linked = true
		}
	}
	if holder, ok := idx.holders[serial]; ok && (audiID == nil || holder.ID != *audiID) {
		v.holder = holder
	}
	v.inSheets = idx.xref.Lookup(serial) != nil
	_, v.known = idx.projectors[serial]
	return v
}

// OrphanCleaner deletes cases whose serial has no surviving evidence and
// reports the ones that only lost their audi link.
type OrphanCleaner struct {
	store  Store
	xref   CrossReference
	opts   CleanupOptions
	logger *zap.Logger
}

func NewOrphanCleaner(store Store, xref CrossReference, opts CleanupOptions, logger *zap.Logger) *OrphanCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanCleaner{store: store, xref: xref, opts: opts, logger: logger}
}

func (c *OrphanCleaner) Run(ctx context.Context) (*CleanupReport, error) {
	idx, err := loadEvidence(ctx, c.store, c.xref)
	if err != nil {
		return nil, err
	}
	dtrs, err := c.store.ListDTRCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dtr cases: %w", err)
	}
	rmas, err := c.store.ListRMACases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rma cases: %w", err)
	}

	report := &CleanupReport{Name: "orphan cleanup", DryRun: c.opts.DryRun}
	for _, dtr := range dtrs {
		audiID := dtr.AudiID
		c.handle(ctx, idx, report, models.CaseTypeDTR, dtr.ID, dtr.CaseNumber, dtr.SerialNumber, &audiID)
	}
	for _, rma := range rmas {
		c.handle(ctx, idx, report, models.CaseTypeRMA, rma.ID, rmaIdentifier(rma), rma.SerialNumber, rma.AudiID)
	}

	c.logger.Info("orphan cleanup finished",
		zap.Int("checked", report.Checked),
		zap.Int("kept", report.Kept),
		zap.Int("deleted", report.Deleted),
		zap.Bool("dry_run", c.opts.DryRun),
	)
	return report, nil
}

func (c *OrphanCleaner) handle(ctx context.Context, idx *evidenceIndex, report *CleanupReport, caseType string, caseID uint, identifier, rawSerial string, audiID *uint) {
	report.Checked++
	serial := NormalizeSerial(rawSerial)
	v := idx.check(serial, audiID)
	entry := CleanupEntry{
		CaseType:   caseType,
		CaseID:     caseID,
		Identifier: identifier,
		Serial:     serial,
		Reason:     v.reason(),
	}

	switch {
	case v.linked:
		entry.Action = CleanupActionValid
	case v.hasHome():
		entry.Action = CleanupActionKept
		if c.opts.Relink && v.holder != nil {
			entry.Action = CleanupActionRelinked
			if !c.opts.DryRun {
				if err := c.store.RelinkCase(ctx, caseType, caseID, v.holder.ID, v.holder.SiteID); err != nil {
					report.fail(entry, err)
					return
				}
			}
		}
	default:
		entry.Action = CleanupActionDeleted
		if !c.opts.DryRun {
			if err := c.store.DeleteCase(ctx, caseType, caseID); err != nil {
				report.fail(entry, err)
				return
			}
		}
		c.logger.Info("orphaned case removed",
			zap.String("case_type", caseType),
			zap.String("identifier", identifier),
			zap.String("serial", serial),
			zap.Bool("dry_run", c.opts.DryRun),
		)
	}
	report.add(entry)
}

func rmaIdentifier(rma models.RMACase) string {
	if rma.RMANumber != nil && *rma.RMANumber != "" {
		return *rma.RMANumber
	}
	if rma.CallLogNumber != nil && *rma.CallLogNumber != "" {
		return *rma.CallLogNumber
	}
	return fmt.Sprintf("#%d", rma.ID)
}

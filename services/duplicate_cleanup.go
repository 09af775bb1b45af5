package services

import (
	"context"
	"fmt"

	"projector-crm-sync/models"

	"go.uber.org/zap"
)

// DuplicateCleaner removes suffixed cases (C-1, C-2, ...) that re-imported the
// same ticket: the base identifier exists and both carry the same serial.
type DuplicateCleaner struct {
	store  Store
	dryRun bool
	logger *zap.Logger
}

func NewDuplicateCleaner(store Store, dryRun bool, logger *zap.Logger) *DuplicateCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuplicateCleaner{store: store, dryRun: dryRun, logger: logger}
}

func (c *DuplicateCleaner) Run(ctx context.Context) (*CleanupReport, error) {
	report := &CleanupReport{Name: "duplicate cleanup", DryRun: c.dryRun}

	dtrs, err := c.store.ListDTRCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dtr cases: %w", err)
	}
	dtrSerials := make(map[string]string, len(dtrs))
	for _, d := range dtrs {
		dtrSerials[d.CaseNumber] = NormalizeSerial(d.SerialNumber)
	}
	for _, d := range dtrs {
		report.Checked++
		serial := NormalizeSerial(d.SerialNumber)
		if base, ok := duplicateOf(d.CaseNumber, serial, dtrSerials); ok {
			c.remove(ctx, report, CleanupEntry{
				CaseType:   models.CaseTypeDTR,
				CaseID:     d.ID,
				Identifier: d.CaseNumber,
				Serial:     serial,
				Reason:     fmt.Sprintf("duplicate of %s", base),
			})
			continue
		}
		report.Valid++
	}

	rmas, err := c.store.ListRMACases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rma cases: %w", err)
	}
	rmaNumbers := make(map[string]string, len(rmas))
	callLogs := make(map[string]string, len(rmas))
	for _, r := range rmas {
		serial := NormalizeSerial(r.SerialNumber)
		if r.RMANumber != nil && *r.RMANumber != "" {
			rmaNumbers[*r.RMANumber] = serial
		}
		if r.CallLogNumber != nil && *r.CallLogNumber != "" {
			callLogs[*r.CallLogNumber] = serial
		}
	}
	for _, r := range rmas {
		report.Checked++
		serial := NormalizeSerial(r.SerialNumber)
		base, ok := "", false
		if r.RMANumber != nil {
			base, ok = duplicateOf(*r.RMANumber, serial, rmaNumbers)
		}
		if !ok && r.CallLogNumber != nil {
			base, ok = duplicateOf(*r.CallLogNumber, serial, callLogs)
		}
		if ok {
			c.remove(ctx, report, CleanupEntry{
				CaseType:   models.CaseTypeRMA,
				CaseID:     r.ID,
				Identifier: rmaIdentifier(r),
				Serial:     serial,
				Reason:     fmt.Sprintf("duplicate of %s", base),
			})
			continue
		}
		report.Valid++
	}

	c.logger.Info("duplicate cleanup finished",
		zap.Int("checked", report.Checked),
		zap.Int("deleted", report.Deleted),
		zap.Bool("dry_run", c.dryRun),
	)
	return report, nil
}

func (c *DuplicateCleaner) remove(ctx context.Context, report *CleanupReport, entry CleanupEntry) {
	entry.Action = CleanupActionDeleted
	if !c.dryRun {
		if err := c.store.DeleteCase(ctx, entry.CaseType, entry.CaseID); err != nil {
			report.fail(entry, err)
			return
		}
	}
	report.add(entry)
}

// duplicateOf reports the base identifier when id is a suffixed copy of a case
// already on file with the same serial.
func duplicateOf(id, serial string, serialsByID map[string]string) (string, bool) {
	base, _, ok := SplitSuffix(id)
	if !ok || serial == "" {
		return "", false
	}
	baseSerial, exists := serialsByID[base]
	if !exists || baseSerial != serial {
		return "", false
	}
	return base, true
}

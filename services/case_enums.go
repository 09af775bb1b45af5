package services

import "strings"

const (
	CaseStatusOpen         = "open"
	CaseStatusInProgress   = "in_progress"
	CaseStatusClosed       = "closed"
	CaseStatusShiftedToRMA = "shifted_to_rma"

	RMAStatusUnderReview   = "under_review"
	RMAStatusRaised        = "rma_raised_yet_to_deliver"
	RMAStatusFaultyTransit = "faulty_transit_to_cds"
	RMAStatusCompleted     = "completed"
	RMAStatusCancelled     = "cancelled"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	RMATypeRMA   = "RMA"
	RMATypeSRMA  = "SRMA"
	RMATypeRMACL = "RMA_CL"
	RMATypeLamps = "LAMPS"
)

var (
	dtrStatuses = setOf(CaseStatusOpen, CaseStatusInProgress, CaseStatusClosed, CaseStatusShiftedToRMA)
	rmaStatuses = setOf(CaseStatusOpen, CaseStatusClosed, RMAStatusUnderReview, RMAStatusRaised,
		RMAStatusFaultyTransit, RMAStatusCompleted, RMAStatusCancelled)
	severities = setOf(SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical)
	rmaTypes   = setOf(RMATypeRMA, RMATypeSRMA, RMATypeRMACL, RMATypeLamps)

	// Applied after lower-casing and replacing spaces with underscores.
	statusFixes = map[string]string{
		"observation":       CaseStatusOpen,
		"under_observation": CaseStatusOpen,
		"new":               CaseStatusOpen,
		"pending":           CaseStatusOpen,
		"inprogress":        CaseStatusInProgress,
		"in-progress":       CaseStatusInProgress,
		"wip":               CaseStatusInProgress,
		"close":             CaseStatusClosed,
		"resolved":          CaseStatusClosed,
		"shifted_to_rma":    CaseStatusShiftedToRMA,
		"shift_to_rma":      CaseStatusShiftedToRMA,
		"rma":               CaseStatusShiftedToRMA,
		"rma_raised":        RMAStatusRaised,
		"faulty_in_transit": RMAStatusFaultyTransit,
		"complete":          RMAStatusCompleted,
		"canceled":          RMAStatusCancelled,
	}

	severityFixes = map[string]string{
		"major":   SeverityHigh,
		"minor":   SeverityLow,
		"normal":  SeverityMedium,
		"med":     SeverityMedium,
		"blocker": SeverityCritical,
	}
)

func setOf(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

func statusKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = whitespace.ReplaceAllString(key, "_")
	if fixed, ok := statusFixes[key]; ok {
		return fixed
	}
	return key
}

// NormalizeDTRStatus maps free-text status to a DTR status, defaulting to open.
func NormalizeDTRStatus(raw string) string {
	key := statusKey(raw)
	if _, ok := dtrStatuses[key]; ok {
		return key
	}
	return CaseStatusOpen
}

// NormalizeRMAStatus maps free-text status to an RMA status, defaulting to open.
func NormalizeRMAStatus(raw string) string {
	key := statusKey(raw)
	if _, ok := rmaStatuses[key]; ok {
		return key
	}
	return CaseStatusOpen
}

// NormalizeSeverity falls back to medium for anything unrecognized.
func NormalizeSeverity(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if fixed, ok := severityFixes[key]; ok {
		key = fixed
	}
	if _, ok := severities[key]; ok {
		return key
	}
	return SeverityMedium
}

// NormalizeRMAType repairs the "RMA CI" typo and forces unknown types to RMA.
func NormalizeRMAType(raw string) string {
	val := strings.ReplaceAll(strings.TrimSpace(raw), "RMA CI", RMATypeRMACL)
	val = whitespace.ReplaceAllString(strings.ToUpper(val), "_")
	if _, ok := rmaTypes[val]; ok {
		return val
	}
	return RMATypeRMA
}

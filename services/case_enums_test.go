package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDTRStatus(t *testing.T) {
	cases := map[string]string{
		"Observation":    CaseStatusOpen,
		"In Progress":    CaseStatusInProgress,
		"CLOSED":         CaseStatusClosed,
		"Shifted to RMA": CaseStatusShiftedToRMA,
		"":               CaseStatusOpen,
		"whatever":       CaseStatusOpen,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDTRStatus(in), "input %q", in)
	}
}

func TestNormalizeRMAStatus(t *testing.T) {
	cases := map[string]string{
		"Under Review":              RMAStatusUnderReview,
		"RMA Raised Yet To Deliver": RMAStatusRaised,
		"Canceled":                  RMAStatusCancelled,
		"Observation":               CaseStatusOpen,
		"":                          CaseStatusOpen,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeRMAStatus(in), "input %q", in)
	}
}

func TestNormalizeSeverity(t *testing.T) {
	cases := map[string]string{
		"urgent":   SeverityMedium,
		"High":     SeverityHigh,
		"major":    SeverityHigh,
		"Critical": SeverityCritical,
		"":         SeverityMedium,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeSeverity(in), "input %q", in)
	}
}

func TestNormalizeRMAType(t *testing.T) {
	cases := map[string]string{
		"RMA CI": RMATypeRMACL,
		"rma cl": RMATypeRMACL,
		"srma":   RMATypeSRMA,
		"Lamps":  RMATypeLamps,
		"":       RMATypeRMA,
		"other":  RMATypeRMA,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeRMAType(in), "input %q", in)
	}
}

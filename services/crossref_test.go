package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetOf(rows ...map[string]string) *Sheet {
	s := &Sheet{}
	for i, values := range rows {
		s.Rows = append(s.Rows, NewRow(i+2, values))
	}
	return s
}

func TestBuildCrossReferenceKeepsHigherPriorityFields(t *testing.T) {
	audis := sheetOf(map[string]string{"serialNumber": "sn-1", "siteName": "Demo Cinema", "audiNo": "A1"})
	projectors := sheetOf(
		map[string]string{"serial_number": "SN-1", "modelNo": "M1", "siteName": "Elsewhere"},
		map[string]string{"serial_number": "SN-2", "modelNo": "M2"},
	)
	dtr := sheetOf(map[string]string{"serialNumber": " sn-1", "unitModel": "M9", "audiNo": "A7"})
	rma := sheetOf(
		map[string]string{"serialNumber": "SN-2", "siteName": "Mall Mall Multiplexx", "productName": "M5"},
		map[string]string{"serialNumber": "", "siteName": "ignored"},
	)

	xref := BuildCrossReferenceFromSheets(audis, projectors, dtr, rma)
	require.Len(t, xref, 2)

	one := xref.Lookup("sn-1")
	require.NotNil(t, one)
	assert.Equal(t, "SN-1", one.Serial)
	assert.Equal(t, "Demo Cinema", one.SiteName)
	assert.Equal(t, "A1", one.AudiNo)
	assert.Equal(t, "M1", one.UnitModel, "model is filled from the projectors sheet, not overwritten by DTR")
	assert.True(t, one.HasAudi())

	two := xref.Lookup("SN-2")
	require.NotNil(t, two)
	assert.Equal(t, "M2", two.UnitModel)
	assert.Equal(t, "Mall Multiplex", two.SiteName, "site names are cleaned on the way in")
	assert.False(t, two.HasAudi())
}

func TestCrossReferenceLookupOnNil(t *testing.T) {
	var xref CrossReference
	assert.Nil(t, xref.Lookup("SN-1"))

	var entry *CrossRefEntry
	assert.False(t, entry.HasAudi())

	empty := BuildCrossReferenceFromSheets(nil, nil, nil, nil)
	assert.Empty(t, empty)
}

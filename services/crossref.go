package services

// CrossRefEntry is the merged view of one projector serial across all sheets.
type CrossRefEntry struct {
	Serial    string
	SiteName  string
	AudiNo    string
	UnitModel string
}

func (e *CrossRefEntry) HasAudi() bool {
	return e != nil && e.SiteName != "" && e.AudiNo != ""
}

// CrossReference maps a normalized serial to its merged entry.
type CrossReference map[string]*CrossRefEntry

// Lookup is safe on a nil map and normalizes the serial.
func (x CrossReference) Lookup(serial string) *CrossRefEntry {
	if x == nil {
		return nil
	}
	return x[NormalizeSerial(serial)]
}

// CrossRefAliases names the header aliases probed for each merged field.
type CrossRefAliases struct {
	Serial    []string
	SiteName  []string
	AudiNo    []string
	UnitModel []string
}

func DefaultCrossRefAliases() CrossRefAliases {
	return CrossRefAliases{
		Serial:    Aliases(FieldSerial),
		SiteName:  Aliases(FieldSiteName),
		AudiNo:    Aliases(FieldAudiNo),
		UnitModel: append(append([]string{}, Aliases(FieldModelNo)...), Aliases(FieldProductName)...),
	}
}

// BuildCrossReference merges row-sets given in priority order. The first sheet
// to mention a serial creates its entry; later sheets only fill empty fields.
func BuildCrossReference(rowSets [][]Row, aliases CrossRefAliases) CrossReference {
	xref := make(CrossReference)
	for _, rows := range rowSets {
		for _, row := range rows {
			serial := NormalizeSerial(row.First(aliases.Serial...))
			if serial == "" {
				continue
			}
			site := CleanSiteName(row.First(aliases.SiteName...))
			audi := row.First(aliases.AudiNo...)
			model := row.First(aliases.UnitModel...)

			entry, ok := xref[serial]
			if !ok {
				xref[serial] = &CrossRefEntry{
					Serial:    serial,
					SiteName:  site,
					AudiNo:    audi,
					UnitModel: model,
				}
				continue
			}
			if entry.SiteName == "" {
				entry.SiteName = site
			}
			if entry.AudiNo == "" {
				entry.AudiNo = audi
			}
			if entry.UnitModel == "" {
				entry.UnitModel = model
			}
		}
	}
	return xref
}

// BuildCrossReferenceFromSheets applies the standard sheet priority:
// audis > projectors > DTR cases > RMA cases.
func BuildCrossReferenceFromSheets(audis, projectors, dtr, rma *Sheet) CrossReference {
	sets := make([][]Row, 0, 4)
	for _, s := range []*Sheet{audis, projectors, dtr, rma} {
		if s != nil {
			sets = append(sets, s.Rows)
		}
	}
	return BuildCrossReference(sets, DefaultCrossRefAliases())
}

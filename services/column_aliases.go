package services

// Field is a logical spreadsheet column, probed through its header aliases.
type Field string

const (
	FieldSerial         Field = "serial"
	FieldSiteName       Field = "site_name"
	FieldSiteAddress    Field = "site_address"
	FieldSiteRegion     Field = "site_region"
	FieldAudiNo         Field = "audi_no"
	FieldModelNo        Field = "model_no"
	FieldManufacturer   Field = "manufacturer"
	FieldSpecifications Field = "specifications"
	FieldProjectorState Field = "projector_status"
	FieldInstallDate    Field = "install_date"
	FieldNotes          Field = "notes"

	FieldCaseNumber      Field = "case_number"
	FieldErrorDate       Field = "error_date"
	FieldNatureOfProblem Field = "nature_of_problem"
	FieldActionTaken     Field = "action_taken"
	FieldRemarks         Field = "remarks"
	FieldStatus          Field = "status"
	FieldSeverity        Field = "severity"
	FieldCallStatus      Field = "call_status"
	FieldCreatedBy       Field = "created_by"
	FieldAssignedTo      Field = "assigned_to"
	FieldClosedAt        Field = "closed_at"

	FieldRMANumber           Field = "rma_number"
	FieldCallLogNumber       Field = "call_log_number"
	FieldRMAType             Field = "rma_type"
	FieldRMARaisedDate       Field = "rma_raised_date"
	FieldCustomerErrorDate   Field = "customer_error_date"
	FieldProductName         Field = "product_name"
	FieldProductPartNumber   Field = "product_part_number"
	FieldDefectivePartNumber Field = "defective_part_number"
	FieldDefectivePartName   Field = "defective_part_name"
	FieldDefectivePartSerial Field = "defective_part_serial"
	FieldReplacedPartNumber  Field = "replaced_part_number"
	FieldReplacedPartSerial  Field = "replaced_part_serial"
	FieldSymptoms            Field = "symptoms"
	FieldDNR                 Field = "dnr"
	FieldShippedDate         Field = "shipped_date"
	FieldTrackingNumber      Field = "tracking_number"
)

// columnAliases lists accepted header spellings per field, most common first.
var columnAliases = map[Field][]string{
	FieldSerial:         {"serialNumber", "SerialNumber", "serial_number", "Serial Number", "unitSerial", "UnitSerial", "unit_serial", "projectorSerial", "ProjectorSerial", "serial"},
	FieldSiteName:       {"siteName", "SiteName", "site_name", "Site Name", "site", "Site"},
	FieldSiteAddress:    {"address", "Address", "siteAddress", "SiteAddress", "site_address"},
	FieldSiteRegion:     {"region", "Region", "siteRegion", "site_region"},
	FieldAudiNo:         {"audiNo", "AudiNo", "audi_no", "audiNumber", "AudiNumber", "audi_number", "Audi No", "audi", "Audi"},
	FieldModelNo:        {"modelNo", "ModelNo", "model_no", "unitModel", "UnitModel", "unit_model", "projectorModel", "ProjectorModel", "model"},
	FieldManufacturer:   {"manufacturer", "Manufacturer", "make", "brand"},
	FieldSpecifications: {"specifications", "Specifications", "specs", "spec"},
	FieldProjectorState: {"status", "Status", "projectorStatus", "projector_status"},
	FieldInstallDate:    {"installDate", "InstallDate", "install_date", "installationDate", "installation_date"},
	FieldNotes:          {"notes", "Notes", "remarks", "Remarks"},

	FieldCaseNumber:      {"caseNumber", "CaseNumber", "case_number", "Case No", "dtrNumber", "DTRNumber", "dtr_number"},
	FieldErrorDate:       {"errorDate", "ErrorDate", "error_date", "date", "reportedDate", "reported_date"},
	FieldNatureOfProblem: {"natureOfProblem", "NatureOfProblem", "nature_of_problem", "problem", "Problem"},
	FieldActionTaken:     {"actionTaken", "ActionTaken", "action_taken"},
	FieldRemarks:         {"remarks", "Remarks", "comments", "Comments"},
	FieldStatus:          {"status", "Status", "caseStatus", "case_status"},
	FieldSeverity:        {"severity", "Severity", "priority", "Priority"},
	FieldCallStatus:      {"callStatus", "CallStatus", "call_status"},
	FieldCreatedBy:       {"createdBy", "CreatedBy", "created_by", "createdByEmail", "created_by_email"},
	FieldAssignedTo:      {"assignedTo", "AssignedTo", "assigned_to", "assignedToEmail", "assigned_to_email", "engineer"},
	FieldClosedAt:        {"closedAt", "ClosedAt", "closed_at", "closedDate", "closed_date"},

	FieldRMANumber:           {"rmaNumber", "RMANumber", "RmaNumber", "rma_number", "RMA No"},
	FieldCallLogNumber:       {"callLogNumber", "CallLogNumber", "call_log_number", "callLog", "Call Log No"},
	FieldRMAType:             {"rmaType", "RMAType", "RmaType", "rma_type"},
	FieldRMARaisedDate:       {"rmaRaisedDate", "RMARaisedDate", "rma_raised_date", "raisedDate"},
	FieldCustomerErrorDate:   {"customerErrorDate", "CustomerErrorDate", "customer_error_date", "errorDate", "error_date"},
	FieldProductName:         {"productName", "ProductName", "product_name", "unitModel", "UnitModel", "modelNo", "model_no"},
	FieldProductPartNumber:   {"productPartNumber", "ProductPartNumber", "product_part_number"},
	FieldDefectivePartNumber: {"defectivePartNumber", "DefectivePartNumber", "defective_part_number"},
	FieldDefectivePartName:   {"defectivePartName", "DefectivePartName", "defective_part_name"},
	FieldDefectivePartSerial: {"defectivePartSerial", "DefectivePartSerial", "defective_part_serial"},
	FieldReplacedPartNumber:  {"replacedPartNumber", "ReplacedPartNumber", "replaced_part_number"},
	FieldReplacedPartSerial:  {"replacedPartSerial", "ReplacedPartSerial", "replaced_part_serial"},
	FieldSymptoms:            {"symptoms", "Symptoms"},
	FieldDNR:                 {"isDefectivePartDNR", "IsDefectivePartDNR", "is_defective_part_dnr", "dnr", "DNR"},
	FieldShippedDate:         {"shippedDate", "ShippedDate", "shipped_date"},
	FieldTrackingNumber:      {"trackingNumber", "TrackingNumber", "tracking_number"},
}

// Aliases returns the header spellings accepted for a field.
func Aliases(f Field) []string {
	return columnAliases[f]
}

// Field returns the first non-empty value among the field's aliases.
func (r Row) Field(f Field) string {
	return r.First(columnAliases[f]...)
}

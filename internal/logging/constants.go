package logging

// Field names shared by every component so log lines can be filtered
// the same way regardless of which package emitted them.
const (
	FieldTransactionID = "transaction_id"
	FieldDescription   = "description"
	FieldVendor        = "vendor"
	FieldNormalized    = "normalized"
	FieldRule          = "rule"
	FieldRuleType      = "rule_type"
	FieldFingerprint   = "fingerprint"
	FieldAccount       = "account_id"
	FieldGroupKey      = "group_key"
	FieldFrequency     = "frequency"
	FieldConfidence    = "confidence"
	FieldReason        = "reason"
	FieldRow           = "row"
	FieldCount         = "count"
	FieldPage          = "page"
	FieldError         = "error"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldDatabase      = "database"
	FieldDistinct      = "distinct"
	FieldPatterns      = "patterns"
	FieldAmount        = "amount"
	FieldRead          = "read"
	FieldImported      = "imported"
	FieldDuplicates    = "duplicates"
	FieldRejected      = "rejected"
	FieldScanned       = "scanned"
	FieldUpdated       = "updated"
	FieldUnchanged     = "unchanged"
)

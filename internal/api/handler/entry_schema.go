package handler

// createEntryRequest is the shared test-entry submission schema. Date keys the
// bucket; date_code follows the casting date-code format when present.
type createEntryRequest struct {
	Date          string  `json:"date"           validate:"required"`
	PartName      string  `json:"part_name"      validate:"required"`
	DateCode      string  `json:"date_code"      validate:"omitempty,datecode"`
	Specification float64 `json:"specification"  validate:"omitempty,gt=0"`
	Observed      string  `json:"observed"`
	Result        string  `json:"result"         validate:"omitempty,oneof=pass fail hold"`
	Remarks       string  `json:"remarks"`
	Shift         string  `json:"shift"          validate:"omitempty,oneof=A B C"`
	Operator      string  `json:"operator"`
}

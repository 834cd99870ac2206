package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateBucket is the single document holding all records for one department on
// one calendar day. At most one bucket exists per department per date; the
// unique index on date enforces this even under concurrent creation.
type DateBucket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      time.Time          `bson:"date" json:"date"`
	Entries   []Entry            `bson:"entries,omitempty" json:"entries,omitempty"`
	Sections  map[string]any     `bson:"sections,omitempty" json:"sections,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewBucket returns an empty bucket for the given UTC-midnight date.
func NewBucket(date time.Time) *DateBucket {
	now := time.Now().UTC()
	return &DateBucket{
		Date:      TruncateToDay(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Entry is a single test result embedded in an entry-department bucket. It is
// owned exclusively by its parent bucket and has no lifecycle of its own.
type Entry struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	PartName      string             `bson:"part_name" json:"part_name"`
	DateCode      string             `bson:"date_code,omitempty" json:"date_code,omitempty"`
	Specification float64            `bson:"specification,omitempty" json:"specification,omitempty"`
	Observed      string             `bson:"observed,omitempty" json:"observed,omitempty"`
	Result        string             `bson:"result,omitempty" json:"result,omitempty"`
	Remarks       string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Shift         string             `bson:"shift,omitempty" json:"shift,omitempty"`
	Operator      string             `bson:"operator,omitempty" json:"operator,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// FieldKind is the JSON value type an allow-listed update field accepts.
type FieldKind int

const (
	StringField FieldKind = iota
	NumberField
	BoolField
)

// EntryUpdatableFields is the allow-list of entry fields a PUT may change,
// each bound to its expected value type. Anything outside this set is
// rejected rather than written blindly.
var EntryUpdatableFields = map[string]FieldKind{
	"part_name":     StringField,
	"date_code":     StringField,
	"specification": NumberField,
	"observed":      StringField,
	"result":        StringField,
	"remarks":       StringField,
	"shift":         StringField,
	"operator":      StringField,
}

// ValidateEntryUpdate checks a PUT field map against the allow-list, names
// and types both. There is no save-time schema in front of the collection, so
// a mistyped value would land verbatim in the typed bson field and every
// later decode of the bucket would fail.
func ValidateEntryUpdate(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		kind, ok := EntryUpdatableFields[k]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotAllowed, k)
		}
		coerced, err := coerceField(k, v, kind)
		if err != nil {
			return nil, err
		}
		out[k] = coerced
	}
	return out, nil
}

func coerceField(name string, v any, kind FieldKind) (any, error) {
	switch kind {
	case StringField:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidFieldValue, name)
	case NumberField:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidFieldValue, name)
	case BoolField:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidFieldValue, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrFieldNotAllowed, name)
}

// DatedEntry annotates an entry with its parent bucket date, used when range
// queries flatten per-day sub-arrays into one list.
type DatedEntry struct {
	Date  time.Time `json:"date"`
	Entry Entry     `json:"entry"`
}

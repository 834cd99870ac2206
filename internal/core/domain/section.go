package domain

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionKind is the closed set of section shapes a date bucket can carry.
// Every section a department exposes is registered with exactly one kind, and
// merge behaviour follows the kind, never the payload.
type SectionKind int

const (
	// ScalarSection is a flat group of named values; payload keys overwrite
	// stored keys outright.
	ScalarSection SectionKind = iota
	// ObjectSection is a nested object; the merge is shallow at each nesting
	// level, so stored keys absent from the payload are preserved.
	ObjectSection
	// TableSection is an append-only list of rows with serial numbers that
	// continue from the current length. Rows are never updated or removed
	// through the merge path.
	TableSection
)

// SectionDef binds a section name to its kind.
type SectionDef struct {
	Name string
	Kind SectionKind
}

// sectionRegistry is the complete section layout per section department.
var sectionRegistry = map[Department][]SectionDef{
	DeptMelting: {
		{Name: "charging_kg", Kind: ObjectSection},
		{Name: "electrical_readings", Kind: ObjectSection},
		{Name: "heat_summary", Kind: ScalarSection},
		{Name: "delay_rows", Kind: TableSection},
	},
	DeptMoulding: {
		{Name: "machine_settings", Kind: ScalarSection},
		{Name: "sand_parameters", Kind: ObjectSection},
		{Name: "production_rows", Kind: TableSection},
		{Name: "delay_rows", Kind: TableSection},
	},
	DeptSandLab: {
		{Name: "sand_shifts", Kind: ObjectSection},
		{Name: "test_results", Kind: ScalarSection},
		{Name: "sieve_rows", Kind: TableSection},
	},
	DeptQCProduction: {
		{Name: "rejection_summary", Kind: ObjectSection},
		{Name: "remarks", Kind: ScalarSection},
		{Name: "production_rows", Kind: TableSection},
		{Name: "hardness_rows", Kind: TableSection},
	},
}

// SectionDefs returns the sections a department exposes, nil for
// entry-shaped departments.
func (d Department) SectionDefs() []SectionDef {
	return sectionRegistry[d]
}

// Section resolves a section name for the department. Unknown names are a
// typed error, never a silent no-op.
func (d Department) Section(name string) (SectionDef, error) {
	for _, def := range sectionRegistry[d] {
		if def.Name == name {
			return def, nil
		}
	}
	return SectionDef{}, fmt.Errorf("%w: %q in department %q", ErrUnknownSection, name, d)
}

// serialField is the auto-assigned row number in table sections.
const serialField = "serial"

// SectionUpdate is the persistence plan produced by a merge: per-field $set
// paths plus $push row batches. Writing individual paths instead of the whole
// document means concurrent merges to sibling fields both survive.
type SectionUpdate struct {
	Set  map[string]any
	Push map[string][]map[string]any
}

// IsEmpty reports whether the update would write nothing.
func (u SectionUpdate) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Push) == 0
}

// BuildSectionUpdate merges payload into the named section of sections
// (current persisted state) according to the section's kind. It returns the
// persistence plan and the merged section value as it will read back.
func BuildSectionUpdate(def SectionDef, sections map[string]any, payload any) (SectionUpdate, any, error) {
	update := SectionUpdate{Set: map[string]any{}, Push: map[string][]map[string]any{}}
	prefix := "sections." + def.Name

	switch def.Kind {
	case ScalarSection:
		in, ok := toMap(payload)
		if !ok {
			return SectionUpdate{}, nil, fmt.Errorf("section %q expects an object payload", def.Name)
		}
		merged, _ := toMap(sections[def.Name])
		if merged == nil {
			merged = map[string]any{}
		}
		for k, v := range in {
			merged[k] = v
			update.Set[prefix+"."+k] = v
		}
		return update, merged, nil

	case ObjectSection:
		in, ok := toMap(payload)
		if !ok {
			return SectionUpdate{}, nil, fmt.Errorf("section %q expects an object payload", def.Name)
		}
		current, _ := toMap(sections[def.Name])
		merged := mergeShallow(current, in)
		for path, v := range leafPaths(prefix, in) {
			update.Set[path] = v
		}
		return update, merged, nil

	case TableSection:
		rows, ok := toRows(payload)
		if !ok {
			return SectionUpdate{}, nil, fmt.Errorf("section %q expects an array of row objects", def.Name)
		}
		existing, _ := toSlice(sections[def.Name])
		next := len(existing) + 1
		appended := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			if rowIsEmpty(row) {
				continue
			}
			row[serialField] = next
			next++
			appended = append(appended, row)
		}
		if len(appended) > 0 {
			update.Push[prefix] = appended
		}
		merged := append(append([]any{}, existing...), anySlice(appended)...)
		return update, merged, nil
	}

	return SectionUpdate{}, nil, fmt.Errorf("%w: unhandled section kind %d", ErrUnknownSection, def.Kind)
}

// mergeShallow merges src into dst one level at a time: keys present in src
// overwrite, keys absent from src are kept, and object values recurse.
func mergeShallow(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		sv, srcIsMap := toMap(v)
		dv, dstIsMap := toMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = mergeShallow(dv, sv)
			continue
		}
		out[k] = v
	}
	return out
}

// leafPaths flattens a payload object into dotted field paths so the store
// can $set each leaf independently. Empty payload objects produce no paths at
// all: writing one would replace the stored subtree, while mergeShallow keeps
// it, and the two must agree.
func leafPaths(prefix string, in map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range in {
		path := prefix + "." + k
		if m, ok := toMap(v); ok {
			for p, lv := range leafPaths(path, m) {
				out[p] = lv
			}
			continue
		}
		out[path] = v
	}
	return out
}

// rowIsEmpty reports whether every field of the row is nil or blank. Such
// rows are filtered out before append, never inserted.
func rowIsEmpty(row map[string]any) bool {
	for k, v := range row {
		if k == serialField {
			continue
		}
		switch t := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(t) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// toMap accepts both plain maps and the bson document shapes the Mongo driver
// decodes into untyped fields.
func toMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case bson.M:
		return map[string]any(t), true
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = e.Value
		}
		return out, true
	default:
		return nil, false
	}
}

func toSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case primitive.A:
		return []any(t), true
	default:
		return nil, false
	}
}

func toRows(v any) ([]map[string]any, bool) {
	if rows, ok := v.([]map[string]any); ok {
		return rows, true
	}
	raw, ok := toSlice(v)
	if !ok {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		m, ok := toMap(item)
		if !ok {
			return nil, false
		}
		rows = append(rows, m)
	}
	return rows, true
}

func anySlice(rows []map[string]any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

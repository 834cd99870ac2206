package domain

import (
	"errors"
	"testing"
)

func mustSection(t *testing.T, dept Department, name string) SectionDef {
	t.Helper()
	def, err := dept.Section(name)
	if err != nil {
		t.Fatalf("Section(%q) returned error: %v", name, err)
	}
	return def
}

func TestSection_UnknownName(t *testing.T) {
	_, err := DeptMelting.Section("no_such_section")
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestSection_EntryDepartmentHasNoSections(t *testing.T) {
	if defs := DeptImpact.SectionDefs(); defs != nil {
		t.Fatalf("expected no sections for impact, got %v", defs)
	}
}

func TestBuildSectionUpdate_ObjectMergePreservesSiblings(t *testing.T) {
	def := mustSection(t, DeptMelting, "charging_kg")
	sections := map[string]any{
		"charging_kg": map[string]any{"sectionA": map[string]any{"y": 2}},
	}

	update, merged, err := BuildSectionUpdate(def, sections, map[string]any{
		"sectionA": map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}

	m, ok := toMap(merged)
	if !ok {
		t.Fatalf("merged is not a map: %T", merged)
	}
	inner, _ := toMap(m["sectionA"])
	if inner["x"] != 1 || inner["y"] != 2 {
		t.Fatalf("expected {x:1 y:2}, got %v", inner)
	}

	// Only the payload leaf is written; the sibling path is untouched.
	if v, ok := update.Set["sections.charging_kg.sectionA.x"]; !ok || v != 1 {
		t.Fatalf("expected $set on leaf path, got %v", update.Set)
	}
	if _, ok := update.Set["sections.charging_kg.sectionA.y"]; ok {
		t.Fatalf("sibling field must not appear in the update plan")
	}
}

func TestBuildSectionUpdate_EmptyNestedObjectLeavesSubtreeAlone(t *testing.T) {
	def := mustSection(t, DeptMelting, "charging_kg")
	sections := map[string]any{
		"charging_kg": map[string]any{"sectionA": map[string]any{"y": 2}},
	}

	update, merged, err := BuildSectionUpdate(def, sections, map[string]any{
		"sectionA": map[string]any{},
	})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}

	// The merged view keeps the stored subtree, so the update plan must not
	// write anything over it.
	m, _ := toMap(merged)
	inner, _ := toMap(m["sectionA"])
	if inner["y"] != 2 {
		t.Fatalf("expected stored key preserved, got %v", inner)
	}
	if len(update.Set) != 0 {
		t.Fatalf("empty nested object must produce no $set paths, got %v", update.Set)
	}
}

func TestBuildSectionUpdate_ObjectMergeOverwritesLeaves(t *testing.T) {
	def := mustSection(t, DeptMoulding, "sand_parameters")
	sections := map[string]any{
		"sand_parameters": map[string]any{"moisture": 3.1, "gcs": 1200},
	}

	_, merged, err := BuildSectionUpdate(def, sections, map[string]any{"moisture": 3.4})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}
	m, _ := toMap(merged)
	if m["moisture"] != 3.4 {
		t.Fatalf("expected moisture overwritten to 3.4, got %v", m["moisture"])
	}
	if m["gcs"] != 1200 {
		t.Fatalf("expected gcs preserved, got %v", m["gcs"])
	}
}

func TestBuildSectionUpdate_ScalarOverwrite(t *testing.T) {
	def := mustSection(t, DeptMelting, "heat_summary")
	sections := map[string]any{
		"heat_summary": map[string]any{"heats": 4, "grade": "SG500/7"},
	}

	update, merged, err := BuildSectionUpdate(def, sections, map[string]any{"heats": 5})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}
	m, _ := toMap(merged)
	if m["heats"] != 5 || m["grade"] != "SG500/7" {
		t.Fatalf("unexpected merged scalars: %v", m)
	}
	if v := update.Set["sections.heat_summary.heats"]; v != 5 {
		t.Fatalf("expected $set path for heats, got %v", update.Set)
	}
}

func TestBuildSectionUpdate_TableAppendContinuesSerials(t *testing.T) {
	def := mustSection(t, DeptQCProduction, "production_rows")
	sections := map[string]any{
		"production_rows": []any{
			map[string]any{"serial": 1, "part": "Hub"},
			map[string]any{"serial": 2, "part": "Disc"},
		},
	}

	update, merged, err := BuildSectionUpdate(def, sections, []any{
		map[string]any{"part": "Crankshaft", "qty": 12},
	})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}

	rows := update.Push["sections.production_rows"]
	if len(rows) != 1 {
		t.Fatalf("expected 1 pushed row, got %d", len(rows))
	}
	if rows[0]["serial"] != 3 {
		t.Fatalf("expected serial 3, got %v", rows[0]["serial"])
	}

	all, _ := toSlice(merged)
	if len(all) != 3 {
		t.Fatalf("expected merged table of 3 rows, got %d", len(all))
	}
}

func TestBuildSectionUpdate_TableFiltersEmptyRows(t *testing.T) {
	def := mustSection(t, DeptMoulding, "delay_rows")

	update, _, err := BuildSectionUpdate(def, map[string]any{}, []any{
		map[string]any{"reason": "", "minutes": nil},
		map[string]any{"reason": "power cut", "minutes": 20},
		map[string]any{"reason": "   "},
	})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}

	rows := update.Push["sections.delay_rows"]
	if len(rows) != 1 {
		t.Fatalf("expected only the non-empty row, got %d", len(rows))
	}
	if rows[0]["reason"] != "power cut" || rows[0]["serial"] != 1 {
		t.Fatalf("unexpected row: %v", rows[0])
	}
}

func TestBuildSectionUpdate_TableRejectsObjectPayload(t *testing.T) {
	def := mustSection(t, DeptSandLab, "sieve_rows")
	if _, _, err := BuildSectionUpdate(def, map[string]any{}, map[string]any{"not": "rows"}); err == nil {
		t.Fatalf("expected error for non-array table payload")
	}
}

func TestBuildSectionUpdate_ObjectRejectsArrayPayload(t *testing.T) {
	def := mustSection(t, DeptSandLab, "sand_shifts")
	if _, _, err := BuildSectionUpdate(def, map[string]any{}, []any{1, 2}); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}

func TestBuildSectionUpdate_EmptyTablePayloadWritesNothing(t *testing.T) {
	def := mustSection(t, DeptMelting, "delay_rows")
	update, _, err := BuildSectionUpdate(def, map[string]any{}, []any{
		map[string]any{"reason": ""},
	})
	if err != nil {
		t.Fatalf("BuildSectionUpdate returned error: %v", err)
	}
	if !update.IsEmpty() {
		t.Fatalf("expected empty update plan, got %+v", update)
	}
}

package domain

import "fmt"

// Department identifies a quality-control department. Each department owns
// one MongoDB collection of per-calendar-day date buckets.
type Department string

const (
	DeptTensile        Department = "tensile"
	DeptImpact         Department = "impact"
	DeptMicroStructure Department = "microstructure"
	DeptMicroTensile   Department = "microtensile"
	DeptProcess        Department = "process"
	DeptMelting        Department = "melting"
	DeptMoulding       Department = "moulding"
	DeptSandLab        Department = "sandlab"
	DeptQCProduction   Department = "qcproduction"
)

// EntryDepartments hold per-test sub-entries inside their date buckets.
var EntryDepartments = []Department{
	DeptTensile, DeptImpact, DeptMicroStructure, DeptMicroTensile, DeptProcess,
}

// SectionDepartments hold named merge sections inside their date buckets.
var SectionDepartments = []Department{
	DeptMelting, DeptMoulding, DeptSandLab, DeptQCProduction,
}

// AllDepartments lists every department, entry-shaped first.
var AllDepartments = append(append([]Department{}, EntryDepartments...), SectionDepartments...)

// ParseDepartment converts a route/user department string to a Department.
func ParseDepartment(s string) (Department, error) {
	d := Department(s)
	for _, known := range AllDepartments {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDepartment, s)
}

// HasEntries reports whether the department's buckets carry a sub-entry list.
func (d Department) HasEntries() bool {
	for _, e := range EntryDepartments {
		if d == e {
			return true
		}
	}
	return false
}

// Collection returns the MongoDB collection name for the department.
func (d Department) Collection() string {
	return string(d) + "_buckets"
}

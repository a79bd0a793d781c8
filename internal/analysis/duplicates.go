// Package analysis holds the maintenance reports run over a master
// dataset: duplicate groups, name dedupe, country variants and area
// recomputation.
package analysis

import (
	"io"
	"sort"
	"strings"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/identity"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store/xlsx"
)

// DuplicateKind describes one key examined for duplicates.
type DuplicateKind struct {
	Kind identity.KeyKind `json:"kind" yaml:"kind"`
	// Label is the short name used in the summary.
	Label string `json:"label" yaml:"label"`
	// Sheet is the workbook sheet the groups are exported to.
	Sheet string `json:"sheet" yaml:"sheet"`
	// KeyType is written in the "Duplicate Key Type" column.
	KeyType string `json:"key_type" yaml:"key_type"`
}

// DuplicateKinds are the keys examined, in report order.
var DuplicateKinds = []DuplicateKind{
	{identity.KeyName, "Nombre", "Duplicados Nombre", "Nombre completo"},
	{identity.KeyEmail, "Email", "Duplicados Email", "Correo electrónico"},
	{identity.KeyPhone, "Teléfono", "Duplicados Teléfono", "Teléfono"},
	{identity.KeyID, "Identificación", "Duplicados ID", "Identificación"},
	{identity.KeyNameDOB, "Nombre + Nacimiento", "Duplicados Nombre+Nac", "Nombre completo + Fecha de nacimiento"},
}

// Group is a set of rows sharing one present key.
type Group struct {
	Key       string `json:"key" yaml:"key"`
	Positions []int  `json:"positions" yaml:"positions"`
}

// KindDuplicates holds the groups found for one key.
type KindDuplicates struct {
	DuplicateKind `yaml:",inline"`
	Groups        []Group `json:"groups" yaml:"groups"`
}

// Rows is the number of rows that belong to a group.
func (k KindDuplicates) Rows() int {
	n := 0
	for _, g := range k.Groups {
		n += len(g.Positions)
	}
	return n
}

// DuplicateReport is the outcome of Duplicates.
type DuplicateReport struct {
	Total int              `json:"total" yaml:"total"`
	Kinds []KindDuplicates `json:"kinds" yaml:"kinds"`
}

// Duplicates groups the rows of ds that share a present key, for every
// kind in DuplicateKinds. Groups are ordered by their first row.
func Duplicates(ds *records.Dataset, resolver *columns.Resolver) *DuplicateReport {
	if resolver == nil {
		resolver = columns.DefaultResolver()
	}
	ix := identity.BuildIndex(ds, identity.NewExtractor(resolver.Resolve(ds.Columns)))

	rep := &DuplicateReport{Total: ds.Len()}
	for _, kind := range DuplicateKinds {
		kd := KindDuplicates{DuplicateKind: kind}
		ix.Groups(kind.Kind, func(key string, positions []int) {
			kd.Groups = append(kd.Groups, Group{Key: displayKey(key), Positions: positions})
		})
		sort.Slice(kd.Groups, func(i, j int) bool {
			return kd.Groups[i].Positions[0] < kd.Groups[j].Positions[0]
		})
		rep.Kinds = append(rep.Kinds, kd)
	}
	return rep
}

// Summary returns one row per kind: label, group count and rows in groups.
func (r *DuplicateReport) Summary() (headers []string, rows [][]string) {
	headers = []string{"Clave", "Grupos duplicados", "Filas en grupos duplicados"}
	for _, k := range r.Kinds {
		rows = append(rows, []string{k.Label, itoa(len(k.Groups)), itoa(k.Rows())})
	}
	return headers, rows
}

// SummaryDataset returns Summary as a dataset for workbook export.
func (r *DuplicateReport) SummaryDataset() *records.Dataset {
	headers, _ := r.Summary()
	out := records.New("Resumen", headers...)
	for _, k := range r.Kinds {
		out.AppendValues(records.String(k.Label), records.Int(len(k.Groups)), records.Int(k.Rows()))
	}
	return out
}

// WriteWorkbook writes the summary sheet followed by one sheet per kind.
func (r *DuplicateReport) WriteWorkbook(w io.Writer, ds *records.Dataset) error {
	sheets := []xlsx.Sheets{{Name: "Resumen", Data: r.SummaryDataset()}}
	for _, k := range r.Kinds {
		sheets = append(sheets, xlsx.Sheets{Name: k.Sheet, Data: k.Export(ds)})
	}
	return xlsx.WriteSheets(w, sheets...)
}

// Export returns the rows of ds that belong to a group of kind, with the
// key type, key value and group size prepended.
func (k KindDuplicates) Export(ds *records.Dataset) *records.Dataset {
	lead := []string{"Duplicate Key Type", "Duplicate Key Value", "Duplicate Group Count"}
	out := records.New(k.Sheet, append(lead, ds.Columns...)...)

	type member struct {
		pos   int
		group Group
	}
	var members []member
	for _, g := range k.Groups {
		for _, p := range g.Positions {
			members = append(members, member{p, g})
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].pos < members[j].pos })

	for _, m := range members {
		rec := ds.Rows[m.pos].Clone()
		rec.Set(lead[0], records.String(k.KeyType))
		rec.Set(lead[1], records.String(m.group.Key))
		rec.Set(lead[2], records.Int(len(m.group.Positions)))
		out.Append(rec)
	}
	return out
}

// displayKey renders the composite name and DOB key readably.
func displayKey(key string) string {
	return strings.ReplaceAll(key, "\x1f", " | ")
}

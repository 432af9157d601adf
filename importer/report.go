package importer

// Report is a flat, serializable summary of an import result, suitable
// for exporting from tooling. It references nothing from the metadata
// graph.
type Report struct {
	Schema uint16

	NewTypes    []ReportType
	MergedTypes []ReportMerge
	Diagnostics []ReportDiagnostic
}

// reportSchemaVersion increments when the Report layout changes.
const reportSchemaVersion uint16 = 1

// ReportType summarizes one freshly imported type.
type ReportType struct {
	Name    string
	Renamed bool
	Fields  int
	Methods int
}

// ReportMerge summarizes one in-place merge.
type ReportMerge struct {
	Name          string
	NewFields     []string
	NewMethods    []string
	NewProperties []string
	NewEvents     []string
	NewNested     []string
	EditedMethods []string
}

// ReportDiagnostic is one diagnostic row.
type ReportDiagnostic struct {
	Severity string
	Code     string
	Message  string
}

// Summarize flattens the result into a Report.
func (r *ImportResult) Summarize() Report {
	rep := Report{Schema: reportSchemaVersion}
	for _, nt := range r.NewTypes {
		rep.NewTypes = append(rep.NewTypes, ReportType{
			Name:    nt.Target.FullName(),
			Renamed: nt.Renamed,
			Fields:  len(nt.Target.Fields),
			Methods: len(nt.Target.Methods),
		})
	}
	for _, mt := range r.MergedTypes {
		m := ReportMerge{Name: mt.Target.FullName()}
		for _, f := range mt.NewFields {
			m.NewFields = append(m.NewFields, f.Name)
		}
		for _, md := range mt.NewMethods {
			m.NewMethods = append(m.NewMethods, md.Name)
		}
		for _, p := range mt.NewProperties {
			m.NewProperties = append(m.NewProperties, p.Name)
		}
		for _, e := range mt.NewEvents {
			m.NewEvents = append(m.NewEvents, e.Name)
		}
		for _, n := range mt.NewNestedTypes {
			m.NewNested = append(m.NewNested, n.Target.Name)
		}
		for _, eb := range mt.EditedMethodBodies {
			m.EditedMethods = append(m.EditedMethods, eb.TargetMethod.FullName())
		}
		rep.MergedTypes = append(rep.MergedTypes, m)
	}
	for _, d := range r.Diagnostics {
		rep.Diagnostics = append(rep.Diagnostics, ReportDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
		})
	}
	return rep
}

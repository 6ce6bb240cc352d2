package lookups

// since there are no joins in MongoDB, text descriptions of code values are fetched by the API

// Registry of Lookup/Code Types
const (
	LTtargetType = iota
	LTreportReason
	LTreportState
)

// LookupType returns names of the available code types
func LookupType(lt int) string {

	var str = ""

	switch {
	case lt == LTtargetType:
		str = "target type"
	case lt == LTreportReason:
		str = "report reason"
	case lt == LTreportState:
		str = "report state"
	}

	return str
}

package lookups

// engagement target types
// (the only entity types whose documents carry contended counters/sets)
const (
	TargetTopic   = "topic"
	TargetComment = "comment"
)

// ValidTargetType checks whether a target type is part of the registry
func ValidTargetType(targetType string) bool {
	switch targetType {
	case TargetTopic, TargetComment:
		return true
	}
	return false
}

package lookups

// well-known report reasons - free text is allowed too,
// these are just the codes offered by the client's drop-down
const (
	ReportReasonSpam      = "spam"
	ReportReasonAbuse     = "abuse"
	ReportReasonOffTopic  = "off-topic"
	ReportReasonCopyright = "copyright"
	ReportReasonOther     = "other"
)

// ReportReasonText returns the display text to a reason code
func ReportReasonText(reason string) string {

	var str = ""

	switch reason {
	case ReportReasonSpam:
		str = "Spam or advertising"
	case ReportReasonAbuse:
		str = "Abusive or harmful"
	case ReportReasonOffTopic:
		str = "Off-topic"
	case ReportReasonCopyright:
		str = "Copyright violation"
	case ReportReasonOther:
		str = "Something else"
	}

	return str
}

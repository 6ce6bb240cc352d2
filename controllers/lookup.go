package controllers

import (
	"forum-core/lookups"
	"net/http"

	"github.com/gin-gonic/gin"
)

type lookupValue struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// ListLookups returns the code registries for the client's drop-downs
func ListLookups(c *gin.Context) {

	reasons := []string{
		lookups.ReportReasonSpam,
		lookups.ReportReasonAbuse,
		lookups.ReportReasonOffTopic,
		lookups.ReportReasonCopyright,
		lookups.ReportReasonOther,
	}

	reasonValues := make([]lookupValue, 0, len(reasons))
	for _, code := range reasons {
		reasonValues = append(reasonValues, lookupValue{Code: code, Text: lookups.ReportReasonText(code)})
	}

	c.JSON(http.StatusOK, gin.H{
		lookups.LookupType(lookups.LTtargetType):   []string{lookups.TargetTopic, lookups.TargetComment},
		lookups.LookupType(lookups.LTreportReason): reasonValues,
	})
}

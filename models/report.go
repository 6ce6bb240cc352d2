package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"forum-core/lookups"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a user's abuse notice about some content.
// Once Done is true it never flips back, and reports are never deleted here.
type Report struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	TargetID   primitive.ObjectID `json:"targetId" bson:"targetId"`
	TargetType string             `json:"targetType" bson:"targetType"`
	URL        string             `json:"url" bson:"url"`
	Reason     string             `json:"reason" bson:"reason"`
	// optional - anonymous reports are accepted
	ReporterID primitive.ObjectID `json:"reporterId,omitempty" bson:"reporterId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	Done       bool               `json:"done" bson:"done"`
	ResolvedID primitive.ObjectID `json:"resolvedId,omitempty" bson:"resolvedId,omitempty"`
	ResolvedAt *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

// ReportStore is the storage contract of the moderation queue.
// ResolveOpen must flip done in one atomic conditional operation: only an
// open report matches, apperror.ErrNoData otherwise - so two concurrent
// resolutions can never both write.
type ReportStore interface {
	Insert(ctx context.Context, report *Report) error
	ResolveOpen(ctx context.Context, reportID string, resolverID string, at time.Time) (*Report, error)
	Get(ctx context.Context, reportID string) (*Report, error)
	ListPending(ctx context.Context, limit int64) ([]Report, error)
}

// ReportModel provides the moderation queue
type ReportModel struct {
	Store ReportStore
	Now   helpers.Clock
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m ReportModel) Validate(report Report) (*Report, error) {

	cleaned := report

	cleaned.TargetType = strings.TrimSpace(cleaned.TargetType)
	cleaned.URL = strings.TrimSpace(cleaned.URL)
	cleaned.Reason = strings.TrimSpace(cleaned.Reason)

	if cleaned.TargetType == "" || cleaned.URL == "" || cleaned.Reason == "" {
		return nil, ErrInvalidReport
	}

	if !lookups.ValidTargetType(cleaned.TargetType) {
		return nil, ErrInvalidReport
	}

	return &cleaned, nil
}

// File persists a new report with done = false
func (m ReportModel) File(report *Report) (string, error) {

	cleaned, err := m.Validate(*report)
	if err != nil {
		return "", err
	}

	cleaned.ID = primitive.NewObjectID()
	cleaned.CreatedAt = m.now()
	cleaned.Done = false
	cleaned.ResolvedID = primitive.NilObjectID
	cleaned.ResolvedAt = nil

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err = m.Store.Insert(ctx, cleaned)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return cleaned.ID.Hex(), nil
}

// Resolve flips done to true exactly once. Resolving an already-done report
// is not an error - the existing record comes back unchanged (idempotent),
// so moderators racing each other both see success.
func (m ReportModel) Resolve(reportID string, resolverID string) (*Report, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	report, err := m.Store.ResolveOpen(ctx, reportID, resolverID, m.now())
	if err == nil {
		return report, nil
	}
	if err != apperror.ErrNoData {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// no open report matched - either already done (fine) or truly absent
	report, err = m.Store.Get(ctx, reportID)
	if err != nil {
		if err == apperror.ErrNoData {
			return nil, ErrReportNotFound
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return report, nil
}

// ListPending returns open reports for the moderator view (oldest first)
func (m ReportModel) ListPending(limit int64) ([]Report, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	reports, err := m.Store.ListPending(ctx, limit)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return reports, nil
}

func (m ReportModel) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"forum-core/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentStore is the storage contract of the engagement ledger.
// Every operation must be one atomic conditional store primitive on the
// target document: SetInsert/SetRemove report a failed membership
// precondition as apperror.ErrConflict and a missing document as
// apperror.ErrNoData. Two concurrent duplicate requests must never both
// succeed, and no increment may ever be lost.
type ContentStore interface {
	Inc(ctx context.Context, targetType string, targetID string, field string) error
	SetInsert(ctx context.Context, targetType string, targetID string, field string, userID string) error
	SetRemove(ctx context.Context, targetType string, targetID string, field string, userID string) error
	SetUpdated(ctx context.Context, targetType string, targetID string, updated Updated) error
}

// EngagementModel maintains the contended counters and membership sets on
// content documents.
//
// Likes and bookmarks are sets (not counters) on purpose: the "already acted"
// precondition and the insert become one atomic update this way.
type EngagementModel struct {
	Store ContentStore
	Now   helpers.Clock
}

// Updated records the last content editor, stored within the target document
type Updated struct {
	By   primitive.ObjectID `json:"by" bson:"by"`
	Date time.Time          `json:"date" bson:"date"`
}

// RecordView counts a view on a topic. Every call counts - repeated views by
// the same visitor are filtered by the client registry before this is reached.
func (m EngagementModel) RecordView(targetID string) error {
	return m.inc(lookups.TargetTopic, targetID, "views")
}

// Like adds the user to the topic's likes set.
// A duplicate - concurrent or not - fails with ErrAlreadyLiked.
func (m EngagementModel) Like(targetID string, userID string) error {
	return m.setInsert(targetID, userID, "likes", ErrAlreadyLiked)
}

// Unlike removes the user from the topic's likes set
func (m EngagementModel) Unlike(targetID string, userID string) error {
	return m.setRemove(targetID, userID, "likes", ErrNotLiked)
}

// Bookmark adds the user to the topic's bookmarks set (same contract as Like)
func (m EngagementModel) Bookmark(targetID string, userID string) error {
	return m.setInsert(targetID, userID, "bookmarks", ErrAlreadyBookmarked)
}

// Unbookmark removes the user from the topic's bookmarks set
func (m EngagementModel) Unbookmark(targetID string, userID string) error {
	return m.setRemove(targetID, userID, "bookmarks", ErrNotBookmarked)
}

// Upvote counts a vote for a topic or comment.
// No actor identity is stored, so the ledger itself cannot stop a user from
// voting twice; callers wanting that compose it from the Like pattern.
func (m EngagementModel) Upvote(targetType string, targetID string) error {
	return m.inc(targetType, targetID, "upVotes")
}

// Downvote counts a vote against a topic or comment
func (m EngagementModel) Downvote(targetType string, targetID string) error {
	return m.inc(targetType, targetID, "downVotes")
}

// MarkUpdated records the last editor and timestamp (unconditional overwrite)
func (m EngagementModel) MarkUpdated(targetType string, targetID string, editorID string) error {

	if !lookups.ValidTargetType(targetType) {
		return ErrInvalidTarget
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.Store.SetUpdated(ctx, targetType, targetID,
		Updated{By: helpers.ObjectID(editorID), Date: m.now()})
	return m.passOrWrap(err)
}

// inc atomically increments a counter field by 1
func (m EngagementModel) inc(targetType string, targetID string, field string) error {

	if !lookups.ValidTargetType(targetType) {
		return ErrInvalidTarget
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.Store.Inc(ctx, targetType, targetID, field)
	return m.passOrWrap(err)
}

// setInsert adds userID to a membership set, refusing duplicates atomically
func (m EngagementModel) setInsert(targetID string, userID string, field string, dupErr error) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.Store.SetInsert(ctx, lookups.TargetTopic, targetID, field, userID)
	if err == apperror.ErrConflict {
		return dupErr
	}
	return m.passOrWrap(err)
}

// setRemove takes userID out of a membership set, refusing absent entries atomically
func (m EngagementModel) setRemove(targetID string, userID string, field string, absentErr error) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.Store.SetRemove(ctx, lookups.TargetTopic, targetID, field, userID)
	if err == apperror.ErrConflict {
		return absentErr
	}
	return m.passOrWrap(err)
}

// passOrWrap surfaces domain outcomes unchanged and wraps store failures
// (the retryable kind)
func (m EngagementModel) passOrWrap(err error) error {
	switch err {
	case nil, apperror.ErrNoData, ErrInvalidTarget:
		return err
	}
	return helpers.WrapError(err, helpers.FuncName())
}

func (m EngagementModel) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

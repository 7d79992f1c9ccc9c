package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daybreak-labs/remindbot/internal/repository"
)

// ErrDestinationGone classifies a destination that no longer exists
// (deleted channel or guild). Retirement is immediate.
var ErrDestinationGone = errors.New("destination gone")

// ErrAccessDenied classifies a destination that exists but rejects the
// bot (missing access or send permission). Retried a bounded number of
// times before retirement.
var ErrAccessDenied = errors.New("access denied")

// RestrictedReason names the recoverable-but-currently-unusable states of
// a destination.
type RestrictedReason string

const (
	ReasonArchived RestrictedReason = "archived"
	ReasonLocked   RestrictedReason = "locked"
)

// RestrictedError classifies a destination in a restricted state. The
// reminder is retired only after a grace window tied to the reason.
type RestrictedError struct {
	Reason RestrictedReason
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("destination restricted: %s", e.Reason)
}

var _ error = (*RestrictedError)(nil)

// NoticeKind selects the owner notification variant.
type NoticeKind string

const (
	NoticeRetired  NoticeKind = "retired"
	NoticeArchived NoticeKind = "archived"
	NoticeLocked   NoticeKind = "locked"
)

// Notice is a best-effort direct message to a reminder's owner about a
// delivery problem.
type Notice struct {
	Kind     NoticeKind
	Reason   string
	Reminder repository.Reminder
}

// handleFailure applies the delivery-failure policy. The record was
// neither retired nor rescheduled by the caller; every branch here decides
// its fate explicitly.
func (d *Dispatcher) handleFailure(ctx context.Context, r repository.Reminder, now time.Time, err error) {
	var restricted *RestrictedError

	switch {
	case errors.Is(err, ErrDestinationGone):
		slog.Warn("destination gone, retiring reminder", "id", r.ID, "channelID", r.ChannelID)
		d.retire(ctx, r, "채널/스레드가 삭제됨")

	case errors.Is(err, ErrAccessDenied):
		if r.RetryCount < d.maxRetries {
			attempt := r.RetryCount + 1
			next := now.Add(d.retryBackoff)
			if err := d.store.UpdateRetry(ctx, r.ID, next, attempt); err != nil {
				slog.Error("failed to schedule retry", "id", r.ID, "error", err)
				return
			}
			slog.Warn("access denied, retry scheduled",
				"id", r.ID, "attempt", attempt, "maxRetries", d.maxRetries)
		} else {
			slog.Warn("access denied and retries exhausted, retiring reminder", "id", r.ID)
			d.retire(ctx, r, "메시지 전송 권한 없음")
		}

	case errors.As(err, &restricted):
		d.handleRestricted(ctx, r, now, restricted.Reason)

	default:
		// Unclassified failures (timeouts, transport errors) are logged
		// and the record stays due for the next cycle.
		slog.Error("failed to deliver reminder", "id", r.ID, "error", err)
	}
}

// handleRestricted defers retirement by a grace window. The deadline is
// persisted so it survives restarts, the owner is notified once when the
// window is armed, and the reminder is removed on the first cycle past the
// deadline where the destination is still restricted.
func (d *Dispatcher) handleRestricted(ctx context.Context, r repository.Reminder, now time.Time, reason RestrictedReason) {
	if r.RetireAt != nil {
		if now.Before(*r.RetireAt) {
			return
		}
		slog.Warn("grace window expired, retiring reminder", "id", r.ID, "reason", string(reason))
		d.retire(ctx, r, fmt.Sprintf("스레드 %s 상태가 지속됨", restrictedReasonText(reason)))
		return
	}

	grace := d.archivedGrace
	kind := NoticeArchived
	if reason == ReasonLocked {
		grace = d.lockedGrace
		kind = NoticeLocked
	}

	deadline := now.Add(grace)
	if err := d.store.SetRetireAt(ctx, r.ID, deadline); err != nil {
		slog.Error("failed to arm retirement deadline", "id", r.ID, "error", err)
		return
	}
	slog.Warn("destination restricted, grace window armed",
		"id", r.ID, "reason", string(reason), "retireAt", deadline.Format(time.RFC3339))
	d.notify(ctx, r, Notice{Kind: kind, Reason: restrictedReasonText(reason), Reminder: r})
}

// retire removes the record and tells the owner why. Notification is
// best-effort and never blocks the removal.
func (d *Dispatcher) retire(ctx context.Context, r repository.Reminder, reason string) {
	if err := d.store.Remove(ctx, r.ID); err != nil {
		slog.Error("failed to retire reminder", "id", r.ID, "error", err)
		return
	}
	d.notify(ctx, r, Notice{Kind: NoticeRetired, Reason: reason, Reminder: r})
}

func (d *Dispatcher) notify(ctx context.Context, r repository.Reminder, n Notice) {
	if err := d.sender.Notify(ctx, r.OwnerID, n); err != nil {
		slog.Warn("failed to notify reminder owner", "id", r.ID, "ownerID", r.OwnerID, "error", err)
	}
}

func restrictedReasonText(reason RestrictedReason) string {
	if reason == ReasonLocked {
		return "잠김"
	}
	return "보관됨"
}

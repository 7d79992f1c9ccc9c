// Package delivery adapts a discordgo session to the dispatcher's Sender
// contract, classifying Discord REST errors and thread states into the
// dispatch failure taxonomy.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/daybreak-labs/remindbot/internal/dispatch"
	"github.com/daybreak-labs/remindbot/internal/presenters"
	"github.com/daybreak-labs/remindbot/internal/repository"
)

type DiscordSender struct {
	session *discordgo.Session
	loc     *time.Location
}

func NewDiscordSender(session *discordgo.Session, loc *time.Location) *DiscordSender {
	return &DiscordSender{session: session, loc: loc}
}

// Resolve fetches the destination channel and checks that it can accept a
// message. Archived and locked threads resolve to a RestrictedError so the
// dispatcher can apply its grace-window policy.
func (s *DiscordSender) Resolve(ctx context.Context, channelID string) (dispatch.Destination, error) {
	ch, err := s.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return dispatch.Destination{}, classify(err)
	}

	if ch.IsThread() && ch.ThreadMetadata != nil {
		if ch.ThreadMetadata.Archived {
			return dispatch.Destination{}, &dispatch.RestrictedError{Reason: dispatch.ReasonArchived}
		}
		if ch.ThreadMetadata.Locked {
			return dispatch.Destination{}, &dispatch.RestrictedError{Reason: dispatch.ReasonLocked}
		}
	}

	return dispatch.Destination{ID: ch.ID, Name: ch.Name}, nil
}

// Send delivers the reminder embed into its destination, mentioning the
// owner in the message content.
func (s *DiscordSender) Send(ctx context.Context, dest dispatch.Destination, r repository.Reminder) error {
	msg := &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", r.OwnerID),
		Embeds:  []*discordgo.MessageEmbed{presenters.ReminderEmbed(r, s.loc, time.Now())},
	}
	if _, err := s.session.ChannelMessageSendComplex(dest.ID, msg, discordgo.WithContext(ctx)); err != nil {
		return classify(err)
	}
	return nil
}

// Notify direct-messages the reminder's owner. Callers treat failures as
// best-effort.
func (s *DiscordSender) Notify(ctx context.Context, userID string, n dispatch.Notice) error {
	ch, err := s.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := s.session.ChannelMessageSendEmbed(ch.ID, presenters.NoticeEmbed(n), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// classify maps Discord REST error codes onto the dispatch taxonomy.
// Unknown channel/guild means the destination is permanently gone; missing
// access/permissions is retriable.
func classify(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownGuild:
			return fmt.Errorf("%w: %v", dispatch.ErrDestinationGone, err)
		case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
			return fmt.Errorf("%w: %v", dispatch.ErrAccessDenied, err)
		}
	}
	return err
}

var _ dispatch.Sender = (*DiscordSender)(nil)

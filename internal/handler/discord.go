package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/daybreak-labs/remindbot/internal/presenters"
	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/repository"
	"github.com/daybreak-labs/remindbot/internal/timeparse"
)

type ReadyHandler = func(*discordgo.Session, *discordgo.Ready)
type InteractionCreateHandler = func(*discordgo.Session, *discordgo.InteractionCreate)

var ReadyLog = func(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "username", r.User.Username, "userID", r.User.ID)
}

// MakeInteractionCreateHandler routes slash commands to the reminder
// store. The store and display location are injected; the handler owns no
// state of its own.
func MakeInteractionCreateHandler(store repository.ReminderStore, loc *time.Location) InteractionCreateHandler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}

		ctx := context.Background()
		command := i.ApplicationCommandData()
		switch command.Name {
		case "ping":
			respondText(s, i, "Pong!")
		case "remind":
			handleRemind(ctx, s, i, store, loc)
		case "remind-repeat":
			handleRemindRepeat(ctx, s, i, store, loc)
		case "remind-schedule":
			handleRemindSchedule(ctx, s, i, store, loc)
		case "remind-list":
			handleRemindList(ctx, s, i, store, loc)
		case "remind-delete":
			handleRemindDelete(ctx, s, i, store,
				"✅ ID %d번 리마인더가 삭제되었습니다.")
		case "remind-stop":
			handleRemindDelete(ctx, s, i, store,
				"🛑 ID %d번 반복 리마인더가 정지되었습니다.")
		}
	}
}

func handleRemind(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, store repository.ReminderStore, loc *time.Location) {
	req, err := CommandToRemindRequest(i.ApplicationCommandData().Options, time.Now().In(loc))
	if err != nil {
		respondError(s, i, err, "❌ 리마인더 설정 중 오류가 발생했습니다. 다시 시도해주세요.")
		return
	}

	id, err := store.Create(ctx, repository.Reminder{
		OwnerID:    interactionUserID(i),
		ChannelID:  i.ChannelID,
		Message:    req.Message,
		DueAt:      req.DueAt.UTC(),
		Recurrence: recurrence.None,
	})
	if err != nil {
		slog.Error("failed to create reminder", "error", err)
		respondText(s, i, "❌ 리마인더 설정 중 오류가 발생했습니다. 다시 시도해주세요.")
		return
	}

	slog.Info("reminder created", "id", id, "dueAt", req.DueAt.UTC().Format(time.RFC3339))
	respondText(s, i, fmt.Sprintf("⏰ **%s**에 %q 알림이 설정되었습니다!",
		timeparse.FormatTime(req.DueAt), req.Message))
}

func handleRemindRepeat(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, store repository.ReminderStore, loc *time.Location) {
	req, err := CommandToRepeatRequest(i.ApplicationCommandData().Options, time.Now().In(loc))
	if err != nil {
		respondError(s, i, err, "❌ 반복 리마인더 설정 중 오류가 발생했습니다.")
		return
	}

	id, err := store.Create(ctx, repository.Reminder{
		OwnerID:    interactionUserID(i),
		ChannelID:  i.ChannelID,
		Message:    req.Message,
		DueAt:      req.StartAt.UTC(),
		Recurrence: recurrence.NewInterval(req.Interval),
	})
	if err != nil {
		slog.Error("failed to create repeating reminder", "error", err)
		respondText(s, i, "❌ 반복 리마인더 설정 중 오류가 발생했습니다.")
		return
	}

	slog.Info("repeating reminder created", "id", id, "interval", timeparse.FormatInterval(req.Interval))
	respondText(s, i, fmt.Sprintf(
		"🔄 **%s**부터 **%s**마다 %q 반복 알림이 설정되었습니다!\n⚠️ 반복 리마인더는 수동으로 삭제해야 합니다.",
		timeparse.FormatTime(req.StartAt), timeparse.FormatInterval(req.Interval), req.Message))
}

func handleRemindSchedule(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, store repository.ReminderStore, loc *time.Location) {
	req, err := CommandToScheduleRequest(i.ApplicationCommandData().Options, time.Now().In(loc))
	if err != nil {
		respondError(s, i, err, "❌ 스케줄 리마인더 설정 중 오류가 발생했습니다.")
		return
	}

	id, err := store.Create(ctx, repository.Reminder{
		OwnerID:    interactionUserID(i),
		ChannelID:  i.ChannelID,
		Message:    req.Message,
		DueAt:      req.NextAt.UTC(),
		Recurrence: recurrence.NewCalendar(req.Schedule),
	})
	if err != nil {
		slog.Error("failed to create scheduled reminder", "error", err)
		respondText(s, i, "❌ 스케줄 리마인더 설정 중 오류가 발생했습니다.")
		return
	}

	slog.Info("scheduled reminder created", "id", id, "schedule", timeparse.FormatSchedule(req.Schedule))
	respondText(s, i, fmt.Sprintf(
		"📅 **%s**에 %q 스케줄 리마인더가 설정되었습니다!\n⏰ 다음 실행: **%s**\n⚠️ 스케줄 리마인더는 수동으로 정지해야 합니다.",
		timeparse.FormatSchedule(req.Schedule), req.Message, timeparse.FormatTime(req.NextAt)))
}

func handleRemindList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, store repository.ReminderStore, loc *time.Location) {
	reminders, err := store.ListByOwner(ctx, interactionUserID(i))
	if err != nil {
		slog.Error("failed to list reminders", "error", err)
		respondText(s, i, "❌ 리마인더 목록을 조회하는 중 오류가 발생했습니다.")
		return
	}
	respond(s, i, presenters.BuildListResponse(reminders, loc))
}

func handleRemindDelete(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, store repository.ReminderStore, successFormat string) {
	id := integerOption(i.ApplicationCommandData().Options, "id")

	deleted, err := store.Delete(ctx, id, interactionUserID(i))
	if err != nil {
		slog.Error("failed to delete reminder", "id", id, "error", err)
		respondText(s, i, "❌ 리마인더 삭제 중 오류가 발생했습니다.")
		return
	}
	if !deleted {
		respondText(s, i, fmt.Sprintf(
			"❌ ID %d번 리마인더를 찾을 수 없습니다.\n/remind-list 명령어로 리마인더 목록을 확인해주세요.", id))
		return
	}
	respondText(s, i, fmt.Sprintf(successFormat, id))
}

// interactionUserID works for both guild interactions (Member) and DMs
// (User).
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondError replies with the UserError's own text when the failure is a
// rejected input, and with the generic fallback otherwise.
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, fallback string) {
	var userErr *UserError
	if errors.As(err, &userErr) {
		respondText(s, i, userErr.Message)
		return
	}
	slog.Error("command failed", "command", i.ApplicationCommandData().Name, "error", err)
	respondText(s, i, fallback)
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error("failed to respond to interaction", "error", err)
	}
}

type Handlers struct {
	Ready             ReadyHandler
	InteractionCreate InteractionCreateHandler
}

func NewSession(token string, handlers Handlers) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.AddHandler(handlers.Ready)
	s.AddHandler(handlers.InteractionCreate)

	return s, nil
}

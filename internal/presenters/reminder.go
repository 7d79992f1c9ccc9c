// Package presenters builds the Discord responses and embeds the bot shows
// to users. All user-facing text is Korean, matching the product.
package presenters

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/daybreak-labs/remindbot/internal/dispatch"
	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/repository"
	"github.com/daybreak-labs/remindbot/internal/timeparse"
)

const (
	colorReminder = 0x0099FF
	colorRetired  = 0xFF6B6B
	colorArchived = 0xFFA500
	colorLocked   = 0x808080
)

const listFieldLimit = 25

// ReminderEmbed renders a firing reminder for delivery into its channel.
func ReminderEmbed(r repository.Reminder, loc *time.Location, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       colorReminder,
		Title:       "⏰ 리마인더",
		Description: r.Message,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "요청자", Value: fmt.Sprintf("<@%s>", r.OwnerID), Inline: true},
			{Name: "설정 시간", Value: timeparse.FormatTime(r.CreatedAt.In(loc)), Inline: true},
		},
		Timestamp: now.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Discord Reminder Bot"},
	}
}

// NoticeEmbed renders an owner notification about a retired or endangered
// reminder.
func NoticeEmbed(n dispatch.Notice) *discordgo.MessageEmbed {
	switch n.Kind {
	case dispatch.NoticeArchived:
		return &discordgo.MessageEmbed{
			Color:       colorArchived,
			Title:       "📁 스레드 보관으로 인한 알림",
			Description: "리마인더가 설정된 스레드가 보관되었습니다. 3일 후 자동으로 리마인더가 제거됩니다.",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "리마인더 내용", Value: n.Reminder.Message},
				{Name: "스레드 ID", Value: n.Reminder.ChannelID, Inline: true},
				{Name: "해결 방법", Value: "스레드를 다시 활성화하거나 새 채널에서 리마인더를 다시 설정하세요"},
			},
		}
	case dispatch.NoticeLocked:
		return &discordgo.MessageEmbed{
			Color:       colorLocked,
			Title:       "🔒 스레드 잠금으로 인한 알림",
			Description: "리마인더가 설정된 스레드가 잠겨있습니다. 1일 후 자동으로 리마인더가 제거됩니다.",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "리마인더 내용", Value: n.Reminder.Message},
			},
		}
	default:
		return &discordgo.MessageEmbed{
			Color:       colorRetired,
			Title:       "⚠️ 리마인더 자동 제거됨",
			Description: "설정하신 리마인더가 자동으로 제거되었습니다.",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "제거 이유", Value: n.Reason},
				{Name: "리마인더 내용", Value: n.Reminder.Message},
				{Name: "원래 채널 ID", Value: n.Reminder.ChannelID, Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "새로운 리마인더를 설정하려면 /remind 명령어를 사용하세요"},
		}
	}
}

var noRemindersResponse = &discordgo.InteractionResponse{
	Type: discordgo.InteractionResponseChannelMessageWithSource,
	Data: &discordgo.InteractionResponseData{
		Content: "📝 설정된 리마인더가 없습니다.",
		Flags:   discordgo.MessageFlagsEphemeral,
	},
}

// BuildListResponse renders an owner's reminders, soonest first. Discord
// caps embeds at 25 fields, so longer lists are truncated with a warning.
func BuildListResponse(reminders []repository.Reminder, loc *time.Location) *discordgo.InteractionResponse {
	if len(reminders) == 0 {
		return noRemindersResponse
	}

	embed := &discordgo.MessageEmbed{
		Color:  colorReminder,
		Title:  "📝 내 리마인더 목록",
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("총 %d개의 리마인더", len(reminders))},
	}

	for i, r := range reminders {
		if i == listFieldLimit {
			embed.Description = "⚠️ 리마인더가 많아 처음 25개만 표시됩니다."
			break
		}
		value := fmt.Sprintf("⏰ %s\n🆔 ID: %d", timeparse.FormatTime(r.DueAt.In(loc)), r.ID)
		if text := recurrenceText(r.Recurrence); text != "" {
			value += fmt.Sprintf("\n🔄 반복: %s", text)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, r.Message),
			Value: value,
		})
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}
}

func recurrenceText(rec recurrence.Recurrence) string {
	switch rec.Kind {
	case recurrence.KindInterval:
		return timeparse.FormatInterval(rec.Interval) + "마다"
	case recurrence.KindCalendar:
		return timeparse.FormatSchedule(rec.Schedule)
	}
	return ""
}

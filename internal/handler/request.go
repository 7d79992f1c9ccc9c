package handler

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/timeparse"
)

// MaxMessageLength caps the reminder payload. Longer messages are rejected
// at this boundary, not by the scheduling core.
const MaxMessageLength = 2000

// defaultRepeatStart is the start time used when /remind-repeat is given
// none: the first fire lands on the next dispatch cycle.
const defaultRepeatStart = "1분"

type RemindRequest struct {
	DueAt   time.Time
	Message string
}

type RepeatRequest struct {
	StartAt  time.Time
	Interval recurrence.Interval
	Message  string
}

type ScheduleRequest struct {
	Schedule recurrence.Schedule
	NextAt   time.Time
	Message  string
}

// CommandToRemindRequest extracts and validates the /remind arguments.
// Rejected input comes back as a *UserError carrying the reply text.
func CommandToRemindRequest(
	options []*discordgo.ApplicationCommandInteractionDataOption,
	now time.Time,
) (*RemindRequest, error) {
	message, err := messageOption(options)
	if err != nil {
		return nil, err
	}

	dueAt, ok := timeparse.ParseTime(stringOption(options, "time"), now)
	if !ok || !timeparse.IsValidFireTime(dueAt, now) {
		return nil, &UserError{Message: "❌ 시간 형식을 확인해주세요. (예: 30분, 2시간, 내일 오후 3시)"}
	}

	return &RemindRequest{DueAt: dueAt, Message: message}, nil
}

// CommandToRepeatRequest extracts and validates the /remind-repeat
// arguments.
func CommandToRepeatRequest(
	options []*discordgo.ApplicationCommandInteractionDataOption,
	now time.Time,
) (*RepeatRequest, error) {
	message, err := messageOption(options)
	if err != nil {
		return nil, err
	}

	interval, ok := timeparse.ParseInterval(stringOption(options, "interval"))
	if !ok {
		return nil, &UserError{Message: "❌ 반복 주기 형식을 확인해주세요. (예: 30분, 1시간, 1일, 1주)"}
	}

	startText := stringOption(options, "start_time")
	if startText == "" {
		startText = defaultRepeatStart
	}
	startAt, ok := timeparse.ParseTime(startText, now)
	if !ok || !timeparse.IsValidFireTime(startAt, now) {
		return nil, &UserError{Message: "❌ 시작 시간 형식을 확인해주세요."}
	}

	return &RepeatRequest{StartAt: startAt, Interval: interval, Message: message}, nil
}

// CommandToScheduleRequest extracts and validates the /remind-schedule
// arguments and precomputes the first fire time.
func CommandToScheduleRequest(
	options []*discordgo.ApplicationCommandInteractionDataOption,
	now time.Time,
) (*ScheduleRequest, error) {
	message, err := messageOption(options)
	if err != nil {
		return nil, err
	}

	schedule, ok := timeparse.ParseSchedule(stringOption(options, "schedule"))
	if !ok {
		return nil, &UserError{Message: "❌ 스케줄 형식을 확인해주세요.\n\n**사용 가능한 형식:**\n" +
			"• `매일-오전9시` - 매일 오전 9시\n" +
			"• `매주-월요일-오후6시` - 매주 월요일 오후 6시\n" +
			"• `매월-1일-오전10시` - 매월 1일 오전 10시\n" +
			"• `평일-오후5시` - 평일(월~금) 오후 5시\n" +
			"• `주말-오전11시` - 주말(토,일) 오전 11시"}
	}

	nextAt, ok := recurrence.Next(schedule, now)
	if !ok {
		return nil, &UserError{Message: "❌ 스케줄 시간 계산에 실패했습니다."}
	}

	return &ScheduleRequest{Schedule: schedule, NextAt: nextAt, Message: message}, nil
}

func messageOption(options []*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	message := stringOption(options, "message")
	if strings.TrimSpace(message) == "" {
		return "", &UserError{Message: "❌ 메시지를 입력해주세요."}
	}
	if len([]rune(message)) > MaxMessageLength {
		return "", &UserError{Message: "❌ 메시지는 2000자 이하로 입력해주세요."}
	}
	return message, nil
}

func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, option := range options {
		if option.Name == name && option.Type == discordgo.ApplicationCommandOptionString {
			return option.StringValue()
		}
	}
	return ""
}

func integerOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, option := range options {
		if option.Name == name && option.Type == discordgo.ApplicationCommandOptionInteger {
			return option.IntValue()
		}
	}
	return 0
}

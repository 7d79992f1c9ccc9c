package handler_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/daybreak-labs/remindbot/internal/handler"
	"github.com/daybreak-labs/remindbot/internal/recurrence"
)

var kst = time.FixedZone("UTC+9", 9*3600)

// 2025-06-16 is a Monday.
var commandNow = time.Date(2025, 6, 16, 18, 36, 0, 0, kst)

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func requireUserError(t *testing.T, err error) *handler.UserError {
	t.Helper()
	var userErr *handler.UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("expected a user error, got %v", err)
	}
	return userErr
}

func TestCommandToRemindRequest(t *testing.T) {
	t.Run("valid time and message", func(t *testing.T) {
		got, err := handler.CommandToRemindRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("time", "30분"),
			stringOpt("message", "한잔해"),
		}, commandNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := time.Date(2025, 6, 16, 19, 6, 0, 0, kst)
		if !got.DueAt.Equal(want) {
			t.Errorf("due time = %v; want %v", got.DueAt, want)
		}
		if got.Message != "한잔해" {
			t.Errorf("message = %q; want %q", got.Message, "한잔해")
		}
	})

	t.Run("unparseable time", func(t *testing.T) {
		_, err := handler.CommandToRemindRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("time", "언젠가"),
			stringOpt("message", "한잔해"),
		}, commandNow)
		userErr := requireUserError(t, err)
		if !strings.Contains(userErr.Message, "시간 형식을 확인해주세요") {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := handler.CommandToRemindRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("time", "30분"),
			stringOpt("message", "   "),
		}, commandNow)
		userErr := requireUserError(t, err)
		if userErr.Message != "❌ 메시지를 입력해주세요." {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
	})

	t.Run("over-length message", func(t *testing.T) {
		_, err := handler.CommandToRemindRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("time", "30분"),
			stringOpt("message", strings.Repeat("가", handler.MaxMessageLength+1)),
		}, commandNow)
		userErr := requireUserError(t, err)
		if userErr.Message != "❌ 메시지는 2000자 이하로 입력해주세요." {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
	})

	t.Run("message at the length cap passes", func(t *testing.T) {
		_, err := handler.CommandToRemindRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("time", "30분"),
			stringOpt("message", strings.Repeat("가", handler.MaxMessageLength)),
		}, commandNow)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCommandToRepeatRequest(t *testing.T) {
	t.Run("interval with explicit start time", func(t *testing.T) {
		got, err := handler.CommandToRepeatRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("interval", "2시간"),
			stringOpt("message", "물 마시기"),
			stringOpt("start_time", "내일 오전 9시"),
		}, commandNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Interval != (recurrence.Interval{Unit: recurrence.UnitHours, Count: 2}) {
			t.Errorf("interval = %+v", got.Interval)
		}
		want := time.Date(2025, 6, 17, 9, 0, 0, 0, kst)
		if !got.StartAt.Equal(want) {
			t.Errorf("start time = %v; want %v", got.StartAt, want)
		}
	})

	t.Run("missing start time defaults to one minute out", func(t *testing.T) {
		got, err := handler.CommandToRepeatRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("interval", "30분"),
			stringOpt("message", "물 마시기"),
		}, commandNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := commandNow.Add(time.Minute)
		if !got.StartAt.Equal(want) {
			t.Errorf("start time = %v; want %v", got.StartAt, want)
		}
	})

	t.Run("unparseable interval", func(t *testing.T) {
		_, err := handler.CommandToRepeatRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("interval", "가끔"),
			stringOpt("message", "물 마시기"),
		}, commandNow)
		userErr := requireUserError(t, err)
		if !strings.Contains(userErr.Message, "반복 주기 형식을 확인해주세요") {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
	})

	t.Run("unparseable start time", func(t *testing.T) {
		_, err := handler.CommandToRepeatRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("interval", "30분"),
			stringOpt("message", "물 마시기"),
			stringOpt("start_time", "아무때나"),
		}, commandNow)
		userErr := requireUserError(t, err)
		if userErr.Message != "❌ 시작 시간 형식을 확인해주세요." {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
	})
}

func TestCommandToScheduleRequest(t *testing.T) {
	t.Run("weekly schedule precomputes the first fire", func(t *testing.T) {
		got, err := handler.CommandToScheduleRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("schedule", "매주-월요일-오전11시"),
			stringOpt("message", "주간 회의"),
		}, commandNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantSchedule := recurrence.Schedule{Kind: recurrence.Weekly, DayOfWeek: 1, Hour: 11}
		if got.Schedule != wantSchedule {
			t.Errorf("schedule = %+v; want %+v", got.Schedule, wantSchedule)
		}
		// Monday 11:00 has passed at 18:36, so the first fire is next Monday.
		wantNext := time.Date(2025, 6, 23, 11, 0, 0, 0, kst)
		if !got.NextAt.Equal(wantNext) {
			t.Errorf("first fire = %v; want %v", got.NextAt, wantNext)
		}
	})

	t.Run("unparseable schedule gets the usage reply", func(t *testing.T) {
		_, err := handler.CommandToScheduleRequest([]*discordgo.ApplicationCommandInteractionDataOption{
			stringOpt("schedule", "종종"),
			stringOpt("message", "주간 회의"),
		}, commandNow)
		userErr := requireUserError(t, err)
		if !strings.Contains(userErr.Message, "스케줄 형식을 확인해주세요") {
			t.Errorf("unexpected reply: %q", userErr.Message)
		}
		if !strings.Contains(userErr.Message, "매일-오전9시") {
			t.Errorf("usage examples missing from reply: %q", userErr.Message)
		}
	})
}

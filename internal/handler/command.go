package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands is the full slash-command surface of the bot. It is used to
// register the commands with Discord.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "remind",
		Description: "리마인더를 설정합니다",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "time",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "언제 알림을 받을지 (예: 30분, 2시간, 내일 오후 3시)",
				Required:    true,
			},
			{
				Name:        "message",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "리마인더 메시지",
				Required:    true,
			},
		},
	},
	{
		Name:        "remind-repeat",
		Description: "주기적으로 반복되는 리마인더를 설정합니다",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "interval",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "반복 주기 (예: 30분, 1시간, 1일, 1주)",
				Required:    true,
			},
			{
				Name:        "message",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "반복할 메시지",
				Required:    true,
			},
			{
				Name:        "start_time",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "시작 시간 (기본값: 지금 바로 시작)",
				Required:    false,
			},
		},
	},
	{
		Name:        "remind-schedule",
		Description: "특정 시간/요일에 반복되는 리마인더를 설정합니다",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "schedule",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "반복 일정 (예: 매일-오전9시, 매주-월요일-오후6시, 매월-1일-오전10시)",
				Required:    true,
			},
			{
				Name:        "message",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "반복할 메시지",
				Required:    true,
			},
		},
	},
	{
		Name:        "remind-list",
		Description: "내 리마인더 목록을 확인합니다",
	},
	{
		Name:        "remind-delete",
		Description: "리마인더를 삭제합니다",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "id",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "삭제할 리마인더의 ID 번호",
				Required:    true,
			},
		},
	},
	{
		Name:        "remind-stop",
		Description: "반복 리마인더를 정지합니다",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "id",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Description: "정지할 반복 리마인더의 ID 번호",
				Required:    true,
			},
		},
	},
	{
		Name:        "ping",
		Description: "봇 응답을 확인합니다",
	},
}

func EstablishCommands(s *discordgo.Session, guildID string) error {
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, Commands)
	if err != nil {
		return fmt.Errorf("failed to establish commands: %w", err)
	}
	return nil
}

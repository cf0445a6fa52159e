package gateway

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DiscordGateway struct {
	Session *discordgo.Session
}

func NewDiscordGateway(token string) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordGateway{Session: session}, nil
}

// Start opens the websocket connection.
func (dg *DiscordGateway) Start() error {
	return dg.Session.Open()
}

func (dg *DiscordGateway) Send(channelID string, text string) error {
	if channelID == "" {
		return fmt.Errorf("invalid channel ID: %q", channelID)
	}
	_, err := dg.Session.ChannelMessageSend(channelID, text)
	return err
}

func (dg *DiscordGateway) Stop() error {
	return dg.Session.Close()
}

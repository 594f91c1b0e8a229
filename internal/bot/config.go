package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram bot token
	Token string
	// Telegram IDs allowed to use the admin panel
	AdminIDs map[int64]bool
	// How long an untouched quiz session stays alive
	SessionMaxIdle time.Duration
	// How often idle sessions are swept
	SweepInterval time.Duration
	// How many recent results the "My Results" screen shows
	ResultsLimit int
	// Whether the idle-session sweep runs
	SchedulerEnabled bool
}

// ConfigFromEnv builds the bot configuration from environment variables
func ConfigFromEnv() (*BotConfig, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	config := &BotConfig{
		Token:            token,
		AdminIDs:         make(map[int64]bool),
		SessionMaxIdle:   60 * time.Minute,
		SweepInterval:    5 * time.Minute,
		ResultsLimit:     10,
		SchedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
	}

	if adminIDs := os.Getenv("ADMIN_IDS"); adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				log.Printf("Warning: Invalid admin user ID: %s", idStr)
				continue
			}
			config.AdminIDs[id] = true
		}
	}

	if idleStr := os.Getenv("SESSION_MAX_IDLE_MINUTES"); idleStr != "" {
		if minutes, err := strconv.Atoi(idleStr); err == nil && minutes > 0 {
			config.SessionMaxIdle = time.Duration(minutes) * time.Minute
		} else {
			log.Printf("Warning: Invalid SESSION_MAX_IDLE_MINUTES: %s", idleStr)
		}
	}

	return config, nil
}

// IsAdmin reports whether the user belongs to the configured admin set
func (c *BotConfig) IsAdmin(userID int64) bool {
	return c.AdminIDs[userID]
}

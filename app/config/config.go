package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server"`
	WhatsApp WhatsApp `yaml:"whatsapp"`
	OpenAI   OpenAI   `yaml:"openai"`
	Storage  Storage  `yaml:"storage"`
}

type Server struct {
	// Address to bind the webhook server to
	Addr string `yaml:"addr" example:":3000"`
}

type WhatsApp struct {
	// Token Meta compares against on the GET verification challenge
	VerifyToken string `yaml:"verify_token" example:"my-verify-token" validate:"required"`
	// Cloud API access token
	AccessToken string `yaml:"access_token" example:"EAAGm0PX4ZCpsBO..." validate:"required"`
	// Phone number id of the business account
	PhoneNumberID string `yaml:"phone_number_id" example:"106540352242922" validate:"required"`
	// Graph API base url
	APIBaseURL string `yaml:"api_base_url" example:"https://graph.facebook.com/v20.0"`
}

type OpenAI struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
}

type Storage struct {
	// Path to the append-only mood log
	MoodLogPath string `yaml:"mood_log_path" example:"data/moods.jsonl"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":3000"
	}
	if result.WhatsApp.APIBaseURL == "" {
		result.WhatsApp.APIBaseURL = "https://graph.facebook.com/v20.0"
	}
	if result.Storage.MoodLogPath == "" {
		result.Storage.MoodLogPath = "data/moods.jsonl"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

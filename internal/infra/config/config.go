package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию бота и вспомогательных утилит.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	TZ          string `envconfig:"TZ" default:"UTC"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	PushgateURL string `envconfig:"METRICS_PUSHGATEWAY_URL"`

	Store struct {
		MessagesDir string `envconfig:"MESSAGES_DIR" default:"messages"`
		WeeklyFile  string `envconfig:"WEEKLY_MESSAGES_FILE" default:"weekly.yaml"`
	} `envconfig:""`

	Delivery struct {
		Platform string        `envconfig:"DELIVERY_PLATFORM" default:"slack"`
		Timeout  time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"15s"`
	} `envconfig:""`

	Slack struct {
		Token     string `envconfig:"SLACK_BOT_TOKEN"`
		ChannelID string `envconfig:"SLACK_CHANNEL_ID"`
		Channel   string `envconfig:"SLACK_CHANNEL"`
	} `envconfig:""`

	Telegram struct {
		Token    string `envconfig:"TG_BOT_TOKEN"`
		Endpoint string `envconfig:"TG_API_ENDPOINT"`
	} `envconfig:""`

	OpenAI struct {
		APIKey  string        `envconfig:"OPENAI_API_KEY"`
		BaseURL string        `envconfig:"OPENAI_BASE_URL"`
		Model   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`
	} `envconfig:""`

	Drafts struct {
		Parallelism int `envconfig:"DRAFT_PARALLELISM" default:"3"`
	} `envconfig:""`

	Cron struct {
		Daily  string `envconfig:"DAILY_CRON" default:"0 7 * * *"`
		Weekly string `envconfig:"WEEKLY_CRON"`
	} `envconfig:""`

	Reminders struct {
		DefaultGroup string `envconfig:"ANALYSE_GRUPPE" default:"Analysegruppen"`
		OutputDir    string `envconfig:"REMINDERS_DIR" default:"messages/diskusjon"`
		MacroFile    string `envconfig:"MACRO_FILE" default:"macro/macro.json"`
		ReportsDir   string `envconfig:"REPORTS_DIR" default:"reports"`
		LegacyFile   string `envconfig:"REPORTS_LEGACY_FILE" default:"reports.json"`
		StocksCSV    string `envconfig:"STOCKS_CSV" default:"stocks.csv"`
	} `envconfig:""`
}

// DefaultChannel выбирает канал по умолчанию: SLACK_CHANNEL_ID, затем SLACK_CHANNEL.
// Пустое или пробельное значение считается незаданным.
func (c AppConfig) DefaultChannel() string {
	return FirstNonEmpty(c.Slack.ChannelID, c.Slack.Channel)
}

// FirstNonEmpty возвращает первое значение с непробельным содержимым.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Process читает конфиг из окружения без выхода из процесса.
func Process() (AppConfig, error) {
	var cfg AppConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// Load подхватывает .env (если есть) и загружает конфиг из окружения.
func Load() AppConfig {
	_ = godotenv.Load()
	cfg, err := Process()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

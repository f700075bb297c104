package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingRequired = errors.New("required environment variable is not set")
	errInvalidValue    = errors.New("invalid environment variable value")
)

// LabelPolicy определяет, когда issue помечается обработанным
type LabelPolicy string

const (
	// LabelOnCreate метка ставится только после создания команды
	LabelOnCreate LabelPolicy = "on-create"
	// LabelOnSuccess метка ставится после каждой успешной сверки
	LabelOnSuccess LabelPolicy = "on-success"
)

type AppConfig struct {
	Env            string
	Port           string
	RequestTimeout time.Duration
	Workers        int
}

type GitHubConfig struct {
	Token          string
	BaseURL        string
	Owner          string
	Repo           string
	WebhookSecret  string
	OnboardingTag  string
	ProcessedLabel string
	TitleMarker    string
	LabelPolicy    LabelPolicy
}

type FossaConfig struct {
	Token          string
	BaseURL        string
	OrganizationId int
	TeamRoleId     int
}

type SheetsConfig struct {
	SpreadsheetId   string
	Range           string
	CredentialsFile string
	BaseURL         string
}

type AuditConfig struct {
	Path string
}

type Config struct {
	App         AppConfig
	GitHub      GitHubConfig
	Fossa       FossaConfig
	Sheets      SheetsConfig
	Audit       AuditConfig
	HTTPTimeout time.Duration
}

// LoadConfig читает .env (если есть) и окружение процесса.
// Явно переданные файлы обязаны читаться.
func LoadConfig(envFiles ...string) (*Config, error) {
	// значения из окружения имеют приоритет
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("loading env files %v: %w", envFiles, err)
	}

	c := &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "dev"),
			Port: getEnv("APP_PORT", "8080"),
		},
		GitHub: GitHubConfig{
			Token:          os.Getenv("GITHUB_TOKEN"),
			BaseURL:        getEnv("GITHUB_API_URL", ""),
			Owner:          getEnv("GITHUB_OWNER", "cncf"),
			Repo:           getEnv("GITHUB_REPO", "toc"),
			WebhookSecret:  getEnv("GITHUB_WEBHOOK_SECRET", ""),
			OnboardingTag:  getEnv("ONBOARDING_LABEL", "static-code-checks"),
			ProcessedLabel: getEnv("PROCESSED_LABEL", "fossa-team-created"),
			TitleMarker:    getEnv("PROJECT_TITLE_MARKER", "[SANDBOX PROJECT ONBOARDING]"),
			LabelPolicy:    LabelPolicy(getEnv("LABEL_POLICY", string(LabelOnCreate))),
		},
		Fossa: FossaConfig{
			Token:   os.Getenv("FOSSA_TOKEN"),
			BaseURL: getEnv("FOSSA_API_URL", "https://app.fossa.com/api"),
		},
		Sheets: SheetsConfig{
			SpreadsheetId:   os.Getenv("MAINTAINER_SPREADSHEET_ID"),
			Range:           getEnv("SHEETS_RANGE", "Active"),
			CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "./service-account-key.json"),
			BaseURL:         getEnv("SHEETS_API_URL", ""),
		},
		Audit: AuditConfig{
			Path: getEnv("AUDIT_LOG_PATH", "fossa-log.json"),
		},
	}

	if err := requireEnv(
		"GITHUB_TOKEN", c.GitHub.Token,
		"FOSSA_TOKEN", c.Fossa.Token,
		"MAINTAINER_SPREADSHEET_ID", c.Sheets.SpreadsheetId,
	); err != nil {
		return nil, err
	}

	var err error
	if c.Fossa.OrganizationId, err = getEnvAsInt("FOSSA_ORGANIZATION_ID", 162); err != nil {
		return nil, err
	}
	if c.Fossa.TeamRoleId, err = getEnvAsInt("FOSSA_TEAM_ROLE_ID", 4); err != nil {
		return nil, err
	}
	if c.App.Workers, err = getEnvAsInt("RECONCILE_WORKERS", 4); err != nil {
		return nil, err
	}
	if c.App.Workers < 1 {
		return nil, fmt.Errorf("%w: RECONCILE_WORKERS must be positive", errInvalidValue)
	}
	if c.HTTPTimeout, err = getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if c.App.RequestTimeout, err = getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	switch c.GitHub.LabelPolicy {
	case LabelOnCreate, LabelOnSuccess:
	default:
		return nil, fmt.Errorf("%w: LABEL_POLICY=%q", errInvalidValue, c.GitHub.LabelPolicy)
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidValue, key, v)
	}
	return n, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidValue, key, v)
	}
	return d, nil
}

// requireEnv принимает пары ключ-значение и собирает все пустые ключи
func requireEnv(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

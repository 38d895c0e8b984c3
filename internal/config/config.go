package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Media storage (S3-compatible)
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Analytics event stream
	GCPProjectID    string `envconfig:"GCP_PROJECT_ID"`
	ViewEventsTopic string `envconfig:"VIEW_EVENTS_TOPIC" default:"course-view-events"`

	// Completion service (chatbot fallback). The API key comes from the
	// environment, or from Secret Manager when only a project is set.
	OpenRouterAPIKey     string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL    string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	OpenRouterModel      string `envconfig:"OPENROUTER_MODEL" default:"mistralai/mistral-7b-instruct"`
	OpenRouterSecretName string `envconfig:"OPENROUTER_SECRET_NAME" default:"openrouter-api-key"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

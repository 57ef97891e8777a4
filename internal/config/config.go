package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Input struct {
		Path        string `yaml:"path" validate:"required_without=SQLitePath"`
		RecordsPath string `yaml:"records_path"`
		SQLitePath  string `yaml:"sqlite_path"`
		SQLiteTable string `yaml:"sqlite_table"`
	} `yaml:"input"`
	Output struct {
		Path string `yaml:"path" validate:"required"`
		Echo bool   `yaml:"echo"`
	} `yaml:"output"`
	Planner struct {
		Capital    float64 `yaml:"capital" validate:"gte=0"`
		Risk       string  `yaml:"risk" validate:"omitempty,oneof=leve moderado volatil"`
		Term       string  `yaml:"term" validate:"omitempty,oneof=24h 30d 1a"`
		TopN       int     `yaml:"top_n" validate:"gte=1"`
		MinCapital float64 `yaml:"min_capital" validate:"gt=0"`
		RiskTable  string  `yaml:"risk_table" validate:"required"`
	} `yaml:"planner"`
	RiskTables []model.RiskTable `yaml:"risk_tables"`
	Telegram   struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Schedule struct {
		PlanCron   string `yaml:"plan_cron"`
		WatchInput bool   `yaml:"watch_input"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PLANNER_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("PLANNER_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("PLANNER_RISK_TABLE"); v != "" {
		cfg.Planner.RiskTable = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Input.SQLitePath = v
	}
	if v := os.Getenv("CRON_PLAN"); v != "" {
		cfg.Schedule.PlanCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Input.Path == "" && cfg.Input.SQLitePath == "" {
		cfg.Input.Path = "public/data/criptos_predichas.json"
	}
	if cfg.Input.RecordsPath == "" {
		cfg.Input.RecordsPath = "$"
	}
	if cfg.Input.SQLiteTable == "" {
		cfg.Input.SQLiteTable = "candidates"
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "public/data/recomendaciones.json"
	}
	if cfg.Planner.TopN == 0 {
		cfg.Planner.TopN = strategy.DefaultTopN
	}
	if cfg.Planner.MinCapital == 0 {
		cfg.Planner.MinCapital = strategy.DefaultMinCapital
	}
	if cfg.Planner.RiskTable == "" {
		cfg.Planner.RiskTable = strategy.StandardTable.Name
	}

	return cfg, nil
}

// Validate checks field constraints and that the selected risk table exists and is complete.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, t := range c.RiskTables {
		if err := validateTable(t); err != nil {
			return err
		}
	}

	if _, ok := c.Tables()[c.Planner.RiskTable]; !ok {
		return fmt.Errorf("planner.risk_table %q is not defined (have %s)",
			c.Planner.RiskTable, strings.Join(strategy.TableNames(c.Tables()), ", "))
	}
	return nil
}

func validateTable(t model.RiskTable) error {
	if t.Name == "" {
		return errors.New("risk_tables: every table needs a name")
	}
	for r := range t.Tiers {
		if !slices.Contains(model.RiskProfiles, r) {
			return fmt.Errorf("risk_tables.%s: unknown tier %q (use leve, moderado or volatil)", t.Name, r)
		}
	}
	for _, r := range model.RiskProfiles {
		p, ok := t.Tiers[r]
		if !ok {
			return fmt.Errorf("risk_tables.%s: missing tier %q", t.Name, r)
		}
		if err := validateBounds(p.Bounds); err != nil {
			return fmt.Errorf("risk_tables.%s.%s: %w", t.Name, r, err)
		}
		if p.Clamp < 0 {
			return fmt.Errorf("risk_tables.%s.%s: clamp must not be negative", t.Name, r)
		}
		for term, b := range p.TermBounds {
			if !slices.Contains(model.TermLabels, term) {
				return fmt.Errorf("risk_tables.%s.%s: unknown term %q in term_bounds (use 24h, 30d or 1a)", t.Name, r, term)
			}
			if err := validateBounds(b); err != nil {
				return fmt.Errorf("risk_tables.%s.%s.term_bounds.%s: %w", t.Name, r, term, err)
			}
		}
	}
	return nil
}

// validateBounds rejects empty windows and thresholds no score in (0, 1] can pass.
func validateBounds(b model.Bounds) error {
	if b.Upper <= b.Lower {
		return errors.New("upper must exceed lower")
	}
	if b.MinScore < 0 || b.MinScore >= 1 {
		return fmt.Errorf("min_score %g must be in [0, 1)", b.MinScore)
	}
	return nil
}

// Tables returns the built-in risk tables merged with the configured ones.
// A configured table replaces a built-in one of the same name.
func (c *Config) Tables() map[string]model.RiskTable {
	tables := strategy.BuiltinTables()
	for _, t := range c.RiskTables {
		tables[t.Name] = t
	}
	return tables
}

// Table returns the risk table selected by planner.risk_table or the given override.
func (c *Config) Table(override string) (model.RiskTable, error) {
	name := c.Planner.RiskTable
	if override != "" {
		name = override
	}
	t, ok := c.Tables()[name]
	if !ok {
		return model.RiskTable{}, fmt.Errorf("unknown risk table %q", name)
	}
	return t, nil
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Package config loads the shop configuration: pipeline order, per-department
// capacity and overtime tiers, holidays, and quote conversion rates. Missing
// fields fall back to the stock six-department shop so a bare install works
// without a config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/averyhollis/fabline/internal/calendar"
	"github.com/averyhollis/fabline/internal/capacity"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/quote"
	"github.com/averyhollis/fabline/internal/scheduler"
)

const (
	defaultWeeklyPoints = 850
	defaultGapDays      = 1

	dateLayout = "2006-01-02"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "FABLINE_CONFIG"

type Config struct {
	// DataDir holds the sqlite database. Empty means ~/.fabline.
	DataDir     string                      `yaml:"data_dir"`
	Pipeline    []string                    `yaml:"pipeline"`
	Departments map[string]DepartmentConfig `yaml:"departments"`
	Holidays    []string                    `yaml:"holidays"`
	Schedule    ScheduleConfig              `yaml:"schedule"`
	Quote       QuoteConfig                 `yaml:"quote"`
}

type DepartmentConfig struct {
	WeeklyPoints float64 `yaml:"weekly_points"`
	// DailyRate converts points to work days; zero means weekly / 5.
	DailyRate     float64      `yaml:"daily_rate"`
	Share         float64      `yaml:"share"`
	OvertimeTiers []TierConfig `yaml:"overtime_tiers"`
}

type TierConfig struct {
	Label       string  `yaml:"label"`
	BonusPoints float64 `yaml:"bonus_points"`
	Days        string  `yaml:"days"`
}

type ScheduleConfig struct {
	// GapDays is the idle buffer between department windows. Pointer so an
	// explicit zero survives defaulting.
	GapDays             *int    `yaml:"gap_days"`
	DefaultWeeklyPoints float64 `yaml:"default_weekly_points"`
}

type QuoteConfig struct {
	DollarsPerPoint  float64 `yaml:"dollars_per_point"`
	BigRockThreshold float64 `yaml:"big_rock_threshold"`
}

// DefaultPath returns the config file location: $FABLINE_CONFIG when set,
// otherwise ~/.fabline/shop.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "shop.yaml"
	}
	return filepath.Join(home, ".fabline", "shop.yaml")
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	setDefaults(&cfg)
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, formatConfigErrors(errs)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when the file exists and returns the built-in
// defaults when it does not.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the stock shop configuration.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if len(cfg.Pipeline) == 0 {
		for _, d := range domain.DefaultPipeline().Departments() {
			cfg.Pipeline = append(cfg.Pipeline, string(d))
		}
	}
	if cfg.Departments == nil {
		cfg.Departments = make(map[string]DepartmentConfig)
	}
	if cfg.Schedule.GapDays == nil {
		gap := defaultGapDays
		cfg.Schedule.GapDays = &gap
	}
	if cfg.Schedule.DefaultWeeklyPoints == 0 {
		cfg.Schedule.DefaultWeeklyPoints = defaultWeeklyPoints
	}
	for _, name := range cfg.Pipeline {
		dc := cfg.Departments[name]
		if len(dc.OvertimeTiers) == 0 {
			base := dc.WeeklyPoints
			if base == 0 {
				base = cfg.Schedule.DefaultWeeklyPoints
			}
			dc.OvertimeTiers = defaultTiers(base)
		}
		cfg.Departments[name] = dc
	}
	if cfg.Quote.DollarsPerPoint == 0 {
		cfg.Quote.DollarsPerPoint = quote.DefaultDollarsPerPoint
	}
	if cfg.Quote.BigRockThreshold == 0 {
		cfg.Quote.BigRockThreshold = quote.DefaultBigRockThreshold
	}
}

// defaultTiers is the stock overtime ladder: two weekday-hour extensions and
// a Saturday shift, granting 10/20/30 percent of the base budget.
func defaultTiers(base float64) []TierConfig {
	return []TierConfig{
		{Label: "weekday +2h", BonusPoints: base * 0.10, Days: "Mon-Fri"},
		{Label: "weekday +4h", BonusPoints: base * 0.20, Days: "Mon-Fri"},
		{Label: "saturday shift", BonusPoints: base * 0.30, Days: "Sat"},
	}
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() []error {
	var errs []error

	if len(c.Pipeline) == 0 {
		errs = append(errs, fmt.Errorf("pipeline must list at least one department"))
	}
	inPipeline := make(map[string]bool, len(c.Pipeline))
	for i, name := range c.Pipeline {
		if name == "" {
			errs = append(errs, fmt.Errorf("pipeline[%d]: department name must not be empty", i))
			continue
		}
		if inPipeline[name] {
			errs = append(errs, fmt.Errorf("pipeline[%d]: department %q appears twice", i, name))
		}
		inPipeline[name] = true
	}

	for name, dc := range c.Departments {
		if !inPipeline[name] {
			errs = append(errs, fmt.Errorf("departments.%s: not in the pipeline", name))
		}
		if dc.WeeklyPoints < 0 {
			errs = append(errs, fmt.Errorf("departments.%s: weekly_points must not be negative", name))
		}
		if dc.DailyRate < 0 {
			errs = append(errs, fmt.Errorf("departments.%s: daily_rate must not be negative", name))
		}
		if dc.Share < 0 {
			errs = append(errs, fmt.Errorf("departments.%s: share must not be negative", name))
		}
		for i, tier := range dc.OvertimeTiers {
			if tier.BonusPoints <= 0 {
				errs = append(errs, fmt.Errorf("departments.%s.overtime_tiers[%d]: bonus_points must be positive", name, i))
			}
		}
	}

	if c.Schedule.GapDays != nil && *c.Schedule.GapDays < 0 {
		errs = append(errs, fmt.Errorf("schedule.gap_days must not be negative"))
	}
	if c.Schedule.DefaultWeeklyPoints < 0 {
		errs = append(errs, fmt.Errorf("schedule.default_weekly_points must not be negative"))
	}

	for i, h := range c.Holidays {
		if _, err := time.Parse(dateLayout, h); err != nil {
			errs = append(errs, fmt.Errorf("holidays[%d]: invalid date %q (expected YYYY-MM-DD)", i, h))
		}
	}

	if c.Quote.DollarsPerPoint < 0 {
		errs = append(errs, fmt.Errorf("quote.dollars_per_point must not be negative"))
	}
	if c.Quote.BigRockThreshold < 0 {
		errs = append(errs, fmt.Errorf("quote.big_rock_threshold must not be negative"))
	}

	return errs
}

// ToPipeline converts the configured department order.
func (c *Config) ToPipeline() (domain.Pipeline, error) {
	depts := make([]domain.Department, 0, len(c.Pipeline))
	for _, name := range c.Pipeline {
		depts = append(depts, domain.Department(name))
	}
	return domain.NewPipeline(depts)
}

// ToCalendar builds the shop calendar from the configured holidays.
func (c *Config) ToCalendar() (calendar.Calendar, error) {
	holidays := make([]time.Time, 0, len(c.Holidays))
	for i, h := range c.Holidays {
		d, err := time.Parse(dateLayout, h)
		if err != nil {
			return calendar.Calendar{}, fmt.Errorf("holidays[%d]: %w", i, err)
		}
		holidays = append(holidays, d)
	}
	return calendar.New(holidays), nil
}

// ToCapacityModel converts the department table into the engine's model.
func (c *Config) ToCapacityModel() capacity.Model {
	model := capacity.Model{
		ByDept:        make(map[domain.Department]capacity.DeptCapacity, len(c.Departments)),
		DefaultWeekly: c.Schedule.DefaultWeeklyPoints,
	}
	for name, dc := range c.Departments {
		tiers := make([]capacity.OTTier, 0, len(dc.OvertimeTiers))
		for i, tier := range dc.OvertimeTiers {
			tiers = append(tiers, capacity.OTTier{
				Ordinal:     i + 1,
				Label:       tier.Label,
				BonusPoints: tier.BonusPoints,
				Days:        tier.Days,
			})
		}
		model.ByDept[domain.Department(name)] = capacity.DeptCapacity{
			BaseWeekly: dc.WeeklyPoints,
			DailyRate:  dc.DailyRate,
			Share:      dc.Share,
			Tiers:      tiers,
		}
	}
	return model
}

// ToSchedulerOptions converts the scheduling knobs.
func (c *Config) ToSchedulerOptions() scheduler.Options {
	opts := scheduler.DefaultOptions()
	if c.Schedule.GapDays != nil {
		opts.GapDays = *c.Schedule.GapDays
	}
	return opts
}

func formatConfigErrors(errs []error) error {
	msg := fmt.Sprintf("config validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

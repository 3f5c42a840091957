package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service and worker settings.
type Config struct {
	Port             int
	OperationTimeout time.Duration
	DB               DB
	Kafka            Kafka
	Matching         Matching
	Sweep            Sweep
}

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Kafka stores broker and topic settings. Empty Brokers disables Kafka.
type Kafka struct {
	Brokers                []string
	GroupID                string
	TopicDonationCreated   string
	TopicAssignmentCreated string
	TopicAssignmentUpdated string
	TopicNotifications     string
}

// Matching holds the tuning constants of the matching engine.
type Matching struct {
	OfferTimeout        time.Duration
	MaxRadiusKm         float64
	MaxAttempts         int
	BatchCap            int
	TransporterRadiusKm float64
	MaxDetourKm         float64
	VehicleQuantity     int
	WeightDistance      float64
	WeightUrgency       float64
	WeightNeed          float64
	NeedLevel           float64
	Timezone            string
}

// Location resolves the timezone used for availability slots.
func (m Matching) Location() (*time.Location, error) {
	return time.LoadLocation(m.Timezone)
}

// Sweep stores expiry sweep settings.
type Sweep struct {
	Interval time.Duration
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:             DefaultPort(),
		OperationTimeout: DefaultOperationTimeout(),
		DB:               DefaultDB(),
		Kafka:            DefaultKafka(),
		Matching:         DefaultMatching(),
		Sweep:            DefaultSweep(),
	}

	var errs []error
	envInt("PORT", &cfg.Port, &errs)
	envDuration("OPERATION_TIMEOUT", &cfg.OperationTimeout, &errs)

	envString("POSTGRES_HOST", &cfg.DB.Host)
	envString("POSTGRES_PORT", &cfg.DB.Port)
	envString("POSTGRES_USER", &cfg.DB.User)
	envString("POSTGRES_PASSWORD", &cfg.DB.Pass)
	envString("POSTGRES_DB", &cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		errs = append(errs, fmt.Errorf("POSTGRES_PORT: %w", err))
	}

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	envString("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	envString("KAFKA_TOPIC_DONATION_CREATED", &cfg.Kafka.TopicDonationCreated)
	envString("KAFKA_TOPIC_ASSIGNMENT_CREATED", &cfg.Kafka.TopicAssignmentCreated)
	envString("KAFKA_TOPIC_ASSIGNMENT_UPDATED", &cfg.Kafka.TopicAssignmentUpdated)
	envString("KAFKA_TOPIC_NOTIFICATIONS", &cfg.Kafka.TopicNotifications)

	m := &cfg.Matching
	envDuration("MATCH_OFFER_TIMEOUT", &m.OfferTimeout, &errs)
	envFloat("MATCH_MAX_RADIUS_KM", &m.MaxRadiusKm, &errs)
	envInt("MATCH_MAX_ATTEMPTS", &m.MaxAttempts, &errs)
	envInt("MATCH_BATCH_CAP", &m.BatchCap, &errs)
	envFloat("MATCH_TRANSPORTER_RADIUS_KM", &m.TransporterRadiusKm, &errs)
	envFloat("MATCH_MAX_DETOUR_KM", &m.MaxDetourKm, &errs)
	envInt("MATCH_VEHICLE_QUANTITY", &m.VehicleQuantity, &errs)
	envFloat("MATCH_WEIGHT_DISTANCE", &m.WeightDistance, &errs)
	envFloat("MATCH_WEIGHT_URGENCY", &m.WeightUrgency, &errs)
	envFloat("MATCH_WEIGHT_NEED", &m.WeightNeed, &errs)
	envFloat("MATCH_NEED_LEVEL", &m.NeedLevel, &errs)
	envString("MATCH_TIMEZONE", &m.Timezone)

	envDuration("EXPIRY_SWEEP_INTERVAL", &cfg.Sweep.Interval, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.DurationVar(&cfg.Sweep.Interval, "sweep-interval", cfg.Sweep.Interval, "expiry sweep interval")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", c.OperationTimeout)
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("invalid sweep interval: %s", c.Sweep.Interval)
	}
	return c.Matching.validate()
}

func (m Matching) validate() error {
	if m.OfferTimeout <= 0 {
		return fmt.Errorf("invalid offer timeout: %s", m.OfferTimeout)
	}
	if m.MaxRadiusKm <= 0 || m.TransporterRadiusKm <= 0 || m.MaxDetourKm <= 0 {
		return errors.New("radii and detour must be positive")
	}
	if m.MaxAttempts <= 0 || m.BatchCap <= 0 {
		return errors.New("max attempts and batch cap must be positive")
	}
	for name, w := range map[string]float64{
		"distance":   m.WeightDistance,
		"urgency":    m.WeightUrgency,
		"need":       m.WeightNeed,
		"need level": m.NeedLevel,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("weight %s out of [0,1]: %v", name, w)
		}
	}
	if _, err := m.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", m.Timezone, err)
	}
	return nil
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int, errs *[]error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func envFloat(key string, dst *float64, errs *[]error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = f
}

func envDuration(key string, dst *time.Duration, errs *[]error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/meowid"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

var validate = validator.New()

type Config struct {
	BotToken string  `validate:"required"`
	AdminIds []int64 `validate:"dive,gt=0"`
	Emojis   []string `validate:"min=1,dive,required"`

	StoreDriver string `validate:"oneof=sqlite mongo"`
	DBPath      string `validate:"required_if=StoreDriver sqlite"`
	MongoURI    string `validate:"required_if=StoreDriver mongo"`
	MongoDB     string `validate:"required_if=StoreDriver mongo"`

	RedisURI  string
	SentryDSN string
	NodeId    int `validate:"min=0,max=2047"`

	PollTimeout time.Duration `validate:"gt=0"`

	HTTPAddress     string
	EventsAddress   string   `validate:"excluded_without=RedisURI"`
	AllowedNetworks []string `validate:"dive,cidr"`
	RealIPHeader    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("REACTION_EMOJIS", strings.Join(emojis.Default, ","))
	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "reactions.sqlite3")
	v.SetDefault("MONGO_DB", "reactions")
	v.SetDefault("POLL_TIMEOUT", "10s")
}

// Load reads envFile into the environment (a missing file is fine) and
// builds the config from environment variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	adminIds, err := parseIds(v.GetString("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}
	nodeId, err := meowid.ParseNodeId(v.GetString("NODE_ID"))
	if err != nil {
		return nil, fmt.Errorf("NODE_ID: %w", err)
	}

	cfg := &Config{
		BotToken: v.GetString("BOT_TOKEN"),
		AdminIds: adminIds,
		Emojis:   splitList(v.GetString("REACTION_EMOJIS")),

		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DBPath:      v.GetString("DB_PATH"),
		MongoURI:    v.GetString("MONGO_URI"),
		MongoDB:     v.GetString("MONGO_DB"),

		RedisURI:  v.GetString("REDIS_URI"),
		SentryDSN: v.GetString("SENTRY_DSN"),
		NodeId:    nodeId,

		PollTimeout: v.GetDuration("POLL_TIMEOUT"),

		HTTPAddress:     v.GetString("HTTP_ADDRESS"),
		EventsAddress:   v.GetString("EVENTS_ADDRESS"),
		AllowedNetworks: splitList(v.GetString("API_ALLOWED_NETWORKS")),
		RealIPHeader:    v.GetString("REAL_IP_HEADER"),
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EmojiSet builds the configured emoji enumeration.
func (c *Config) EmojiSet() (*emojis.Set, error) {
	return emojis.NewSet(c.Emojis)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseIds(s string) ([]int64, error) {
	var ids []int64
	for _, item := range splitList(s) {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		ChatId  int64  `yaml:"chat_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"NovaChatBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey string `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
	} `yaml:"openai"`
	Anthropic struct {
		ApiKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY" env-default:""`
	} `yaml:"anthropic"`
	Mongo struct {
		Enabled     bool   `yaml:"enabled" env-default:"false"`
		Host        string `yaml:"host" env-default:"127.0.0.1"`
		Port        string `yaml:"port" env-default:"27017"`
		User        string `yaml:"user" env-default:"admin"`
		Password    string `yaml:"password" env-default:"pass"`
		Database    string `yaml:"database" env-default:""`
		ExpiredDays int    `yaml:"expired_days" env-default:"7"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Addr     string `yaml:"addr" env-default:"127.0.0.1:6379"`
		Password string `yaml:"password" env-default:""`
		DB       int    `yaml:"db" env-default:"0"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled bool     `yaml:"enabled" env-default:"false"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic" env-default:"novachat-events"`
	} `yaml:"kafka"`
	Widget struct {
		HistoryLimit   int `yaml:"history_limit" env-default:"100"`
		PresenceTTLSec int `yaml:"presence_ttl_sec" env-default:"90"`
		RatePerMinute  int `yaml:"rate_per_minute" env-default:"60"`
		JanitorMinutes int `yaml:"janitor_minutes" env-default:"30"`
	} `yaml:"widget"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9200"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

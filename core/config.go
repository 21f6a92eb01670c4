package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the console settings. Only API_BASE_URL is meant to be set per deployment;
// everything else has a working default.
type Config struct {
	Env          string
	Build        string
	Debug        bool
	TestMode     bool
	AppName      string
	SecretKey    string
	RollbarToken string

	API struct {
		BaseURL string
		Timeout time.Duration
	}

	Server struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	Session struct {
		Path string
	}
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "GEA CESDE")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "k2$9vd!x)q7m4&zt^p1w8ne0(r5@yc3u")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("server.host", ":3000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("session.path", filepath.Join("data", "session.db"))

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()
	_ = v.BindEnv("api.baseURL", "API_BASE_URL") // unprefixed

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.API.BaseURL = strings.TrimRight(v.GetString("api.baseURL"), "/")
	conf.API.Timeout = v.GetDuration("api.timeout")
	conf.Server.Host = v.GetString("server.host")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Session.Path = v.GetString("session.path")
	return conf
}

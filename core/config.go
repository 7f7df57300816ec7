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

const (
	APIModeDevelopment = "development"
	APIModeProduction  = "production"
)

type Config struct {
	Env          string
	Build        string
	Debug        bool
	TestMode     bool
	AppName      string
	SecretKey    string
	RollbarToken string

	JWTExpirationDelta time.Duration

	Server struct {
		Address         string
		Host            string
		ShutdownTimeout time.Duration
	}

	API struct {
		Mode      string
		LocalURL  string
		RemoteURL string
		Timeout   time.Duration
	}

	Identity struct {
		URL     string
		Offline bool
	}

	Session struct {
		CookieName string
		MaxAge     int
		File       string
	}

	MockAPI struct {
		Address  string
		SeedFile string
	}
}

// BaseURL switches between the local (mock) store and the deployed one.
func (c *Config) BaseURL() string {
	if c.API.Mode == APIModeDevelopment {
		return c.API.LocalURL
	}
	return c.API.RemoteURL
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "CourseSphere")
	v.SetDefault("secretKey", "k2t%9!x_v7q$wm3(ue0^a#8lrj+c@5zd=fy1)gh4o6pb&ni-")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("api.mode", APIModeDevelopment)
	v.SetDefault("api.localUrl", "http://localhost:3001")
	v.SetDefault("api.remoteUrl", "https://coursesphere-api.onrender.com")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("identity.url", "https://randomuser.me/api/")
	v.SetDefault("identity.offline", false)

	v.SetDefault("session.cookieName", "coursesphere")
	v.SetDefault("session.maxAge", 7*24*60*60)
	v.SetDefault("session.file", defaultSessionFile())

	v.SetDefault("mockapi.address", ":3001")
	v.SetDefault("mockapi.seedFile", "")

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

	conf := &Config{
		Env:                env,
		Build:              v.GetString("build"),
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		AppName:            v.GetString("appName"),
		SecretKey:          v.GetString("secretKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
	}
	conf.Server.Address = v.GetString("server.address")
	conf.Server.Host = v.GetString("server.host")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")

	conf.API.Mode = strings.ToLower(v.GetString("api.mode"))
	conf.API.LocalURL = strings.TrimRight(v.GetString("api.localUrl"), "/")
	conf.API.RemoteURL = strings.TrimRight(v.GetString("api.remoteUrl"), "/")
	conf.API.Timeout = v.GetDuration("api.timeout")

	conf.Identity.URL = v.GetString("identity.url")
	conf.Identity.Offline = v.GetBool("identity.offline")

	conf.Session.CookieName = v.GetString("session.cookieName")
	conf.Session.MaxAge = v.GetInt("session.maxAge")
	conf.Session.File = v.GetString("session.file")

	conf.MockAPI.Address = v.GetString("mockapi.address")
	conf.MockAPI.SeedFile = v.GetString("mockapi.seedFile")
	return conf
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "coursesphere", "session.json")
}

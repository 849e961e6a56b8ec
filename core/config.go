package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string // DEV (local; default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		SecretKey        string
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string
		FrontendBaseURL  string
		Superadmin       superadminConfig
		Server           serverConfig
		Database         databaseConfig
	}

	superadminConfig struct {
		Username     string
		Password     string
		PasswordHash string // bcrypt; takes precedence over Password
	}

	serverConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		AllowOrigins              []string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	databaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

func (c *Config) IsMemoryDB() bool {
	return c.Database.Engine == "memory"
}

func (dc databaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig loads the configuration of the current ENV from the environment,
// after loading `config/.env.<env>` when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Admin Command Station")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "h4q!x7=w9p-@c$2v+k8e)n6u^m3r5y(t0g&j1b*f")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")

	v.SetDefault("superadmin.username", "superadmin")
	v.SetDefault("superadmin.password", "admin123")
	v.SetDefault("superadmin.passwordHash", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.allowOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "command_station")
	v.SetDefault("database.user", "command_station")
	v.SetDefault("database.password", "command_station")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.engine", "memory")
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
	}
	conf.Superadmin = superadminConfig{
		Username:     v.GetString("superadmin.username"),
		Password:     v.GetString("superadmin.password"),
		PasswordHash: v.GetString("superadmin.passwordHash"),
	}
	conf.Server = serverConfig{
		Host:                      v.GetString("server.host"),
		Address:                   v.GetString("server.address"),
		DebugHost:                 v.GetString("server.debugHost"),
		AllowOrigins:              v.GetStringSlice("server.allowOrigins"),
		ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
		JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
	}
	conf.Database = databaseConfig{
		Engine:        strings.ToLower(v.GetString("database.engine")),
		Host:          v.GetString("database.host"),
		Port:          v.GetString("database.port"),
		Name:          v.GetString("database.name"),
		User:          v.GetString("database.user"),
		Password:      v.GetString("database.password"),
		AdminUser:     v.GetString("database.adminUser"),
		AdminPassword: v.GetString("database.adminPassword"),
		DisableTLS:    v.GetBool("database.disableTLS"),
	}
	return conf
}

// NewTestConfig returns a Config suited for tests: in-memory storage and a fixed secret.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Admin Command Station",
		Build:            "test",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "secret",
		defaultFromEmail: "noreply@localhost",
		FrontendBaseURL:  "http://localhost:5173",
		Superadmin: superadminConfig{
			Username: "superadmin",
			Password: "admin123",
		},
		Server: serverConfig{
			Host:                      "localhost",
			AllowOrigins:              []string{"*"},
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Database: databaseConfig{Engine: "memory"},
	}
}

// configDir is CONFIG_DIR when set, `./config` otherwise.
func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(fmt.Errorf("config.os.Getwd: %v", err))
	}
	return filepath.Join(wd, "config")
}

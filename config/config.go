package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

type DBConf struct {
	Host     string `json:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     int    `json:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `json:"user" envconfig:"DB_USER" default:"gaimporter"`
	Name     string `json:"name" envconfig:"DB_NAME" default:"gaimporter"`
	Password string `json:"password" envconfig:"DB_PASS" default:""`
}

type Configuration struct {
	AppName               string `json:"app_name"`
	Env                   string `json:"env"`
	Port                  int    `json:"port"`
	DBInfo                DBConf `json:"db"`
	GAPingIntervalSeconds int    `json:"ga_ping_interval_seconds"`
	HealthcheckPingID     string `json:"healthcheck_ping_id"`
}

type Services struct {
	Db *gorm.DB
}

var configuration *Configuration = nil
var services *Services = nil

// DefaultDBParams reads DB connection defaults from the environment; scripts
// use them as flag defaults.
func DefaultDBParams() DBConf {
	var params DBConf
	if err := envconfig.Process("gaimporter", &params); err != nil {
		log.WithError(err).Error("Failed to read db params from environment.")
	}
	return params
}

func InitConf(config *Configuration) {
	configuration = config
	initLogging()
}

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

func InitDB(config Configuration) error {
	db, err := gorm.Open("postgres", fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
		config.DBInfo.Host,
		config.DBInfo.Port,
		config.DBInfo.User,
		config.DBInfo.Name,
		config.DBInfo.Password))
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("Failed Db Initialization")
		return err
	}

	// Connection Pooling and Logging.
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(50)
	db.LogMode(IsDevelopment())

	services = &Services{Db: db}
	log.Info("Db Service initialized")
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func GetServices() *Services {
	return services
}

func IsDevelopment() bool {
	return configuration != nil && strings.Compare(configuration.Env, DEVELOPMENT) == 0
}

// PingDatabase keeps the backing connection alive. The query service beats
// this during long reporting API waits.
func PingDatabase() error {
	return services.Db.DB().Ping()
}

const healthcheckPingURL = "https://hc-ping.com/"

// GetHealthcheckPingID - Returns the override ping id when set, else the default.
func GetHealthcheckPingID(defaultPingID, overridePingID string) string {
	if overridePingID != "" {
		return overridePingID
	}
	return defaultPingID
}

func PingHealthcheckForSuccess(pingID string, message interface{}) {
	pingHealthcheck(pingID, "", message)
}

func PingHealthcheckForFailure(pingID string, message interface{}) {
	pingHealthcheck(pingID, "/fail", message)
}

// PingHealthcheckForPanic - Deferred at the top of every job so a panic still
// reports a failure before crashing.
func PingHealthcheckForPanic(appName, env, pingID string) {
	if recovered := recover(); recovered != nil {
		log.WithFields(log.Fields{"app_name": appName, "env": env, "panic": recovered}).
			Error("Recovered from panic on job.")
		PingHealthcheckForFailure(pingID, map[string]interface{}{"panic": fmt.Sprintf("%v", recovered)})
		panic(recovered)
	}
}

func pingHealthcheck(pingID, suffix string, message interface{}) {
	if pingID == "" {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("Failed to marshal healthcheck message.")
		payload = []byte{}
	}

	response, err := http.Post(healthcheckPingURL+pingID+suffix, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.WithError(err).Error("Failed to ping healthcheck.")
		return
	}
	defer response.Body.Close()
}

package main

import (
	"flag"
	"strconv"

	C "gaimporter/config"
	H "gaimporter/handler"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {

	env := flag.String("env", C.DEVELOPMENT, "")
	port := flag.Int("port", 8089, "")

	dbDefaults := C.DefaultDBParams()
	dbHost := flag.String("db_host", dbDefaults.Host, "")
	dbPort := flag.Int("db_port", dbDefaults.Port, "")
	dbUser := flag.String("db_user", dbDefaults.User, "")
	dbName := flag.String("db_name", dbDefaults.Name, "")
	dbPass := flag.String("db_pass", dbDefaults.Password, "")

	flag.Parse()

	config := &C.Configuration{
		AppName: "data_service",
		Env:     *env,
		Port:    *port,
		DBInfo: C.DBConf{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Name:     *dbName,
			Password: *dbPass,
		},
	}
	C.InitConf(config)

	if err := C.InitDB(*config); err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// Initialize routes.
	H.InitDataServiceRoutes(r)
	r.Run(":" + strconv.Itoa(C.GetConfig().Port))
}

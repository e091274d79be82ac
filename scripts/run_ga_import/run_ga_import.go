package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	C "gaimporter/config"
	GA "gaimporter/integration/googleanalytics"
	"gaimporter/model"
	"gaimporter/model/store"
	"gaimporter/searchengine"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
)

const appName = "run_ga_import"

func main() {
	ctx := context.Background()

	env := flag.String("env", C.DEVELOPMENT, "")
	projectID := flag.Int64("project_id", 0, "")
	gaViewID := flag.String("ga_view_id", "", "Google Analytics view to import from.")
	startDate := flag.String("start_date", "", "First day to import, as YYYY-MM-DD.")
	endDate := flag.String("end_date", "", "Last day to import, as YYYY-MM-DD.")
	dimensions := flag.String("dimensions", "", "Comma separated GA dimensions, empty for totals only.")
	metricIndices := flag.String("metric_indices", "1,2,3,5,6,8,9,10", "Comma separated internal metric indices.")
	goals := flag.String("goals", "", "Comma separated goal mappings as goalId:remoteGoalId.")
	ecommerceEnabled := flag.Bool("ecommerce_enabled", false, "")
	jsonKey := flag.String("json_key", "", "Service account key json.")
	pingIntervalSeconds := flag.Int("ping_interval_seconds", 25, "Heartbeat interval during API waits.")

	dbDefaults := C.DefaultDBParams()
	dbHost := flag.String("db_host", dbDefaults.Host, "")
	dbPort := flag.Int("db_port", dbDefaults.Port, "")
	dbUser := flag.String("db_user", dbDefaults.User, "")
	dbName := flag.String("db_name", dbDefaults.Name, "")
	dbPass := flag.String("db_pass", dbDefaults.Password, "")

	overrideHealthcheckPingID := flag.String("healthcheck_ping_id", "", "Override default healthcheck ping id.")

	flag.Parse()
	if *env != C.DEVELOPMENT &&
		*env != "staging" &&
		*env != "production" {
		err := fmt.Errorf("env [ %s ] not recognised", *env)
		panic(err)
	}

	healthcheckPingID := C.GetHealthcheckPingID("", *overrideHealthcheckPingID)
	defer C.PingHealthcheckForPanic(appName, *env, healthcheckPingID)

	config := &C.Configuration{
		AppName: appName,
		Env:     *env,
		DBInfo: C.DBConf{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Name:     *dbName,
			Password: *dbPass,
		},
		GAPingIntervalSeconds: *pingIntervalSeconds,
		HealthcheckPingID:     healthcheckPingID,
	}
	C.InitConf(config)

	if err := C.InitDB(*config); err != nil {
		log.Fatal("Failed to import google analytics data. Init failed.")
	}
	db := C.GetServices().Db
	defer db.Close()

	if *projectID == 0 || *gaViewID == "" || *startDate == "" || *endDate == "" {
		log.Fatal("project_id, ga_view_id, start_date and end_date are required.")
	}

	from, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse start_date.")
	}
	to, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse end_date.")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(*jsonKey), GA.ReportingScope)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse service account key json.")
	}
	client := GA.NewHTTPReportClient(ctx, jwtConfig.TokenSource(ctx))

	settings := &model.ProjectSettings{
		ProjectID:        *projectID,
		GAViewID:         *gaViewID,
		EcommerceEnabled: *ecommerceEnabled,
		Goals:            parseGoals(*projectID, *goals),
	}

	service := GA.NewQueryService(client, GA.QueryServiceConfig{
		ViewID:       *gaViewID,
		Settings:     settings,
		Heartbeat:    C.PingDatabase,
		PingInterval: time.Duration(*pingIntervalSeconds) * time.Second,
	})

	chunksDone := 0
	service.SetOnQueryMade(func() {
		chunksDone++
		log.WithField("chunks_done", chunksDone).Debug("Completed google analytics chunk request.")
	})

	importer := GA.NewImporter(service, store.GetStore(),
		searchengine.NewDefaultMapper(), *projectID, *gaViewID)

	statuses, err := importer.ImportDateRange(from, to,
		parseStringList(*dimensions), parseIntList(*metricIndices), nil)

	syncStatus := map[string]interface{}{
		"status": statuses,
	}
	if *env == "production" {
		if err != nil {
			C.PingHealthcheckForFailure(healthcheckPingID, syncStatus)
			log.WithError(err).Fatal("Google analytics import failed.")
		}
		C.PingHealthcheckForSuccess(healthcheckPingID, syncStatus)
	} else {
		if err != nil {
			log.WithError(err).WithField("status", syncStatus).Fatal("Google analytics import failed.")
		}
		log.Info(syncStatus)
	}
}

func parseStringList(list string) []string {
	if list == "" {
		return []string{}
	}

	values := make([]string, 0)
	for _, value := range strings.Split(list, ",") {
		values = append(values, strings.TrimSpace(value))
	}
	return values
}

func parseIntList(list string) []int {
	values := make([]int, 0)
	for _, value := range parseStringList(list) {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.WithField("value", value).Fatal("Invalid metric index.")
		}
		values = append(values, parsed)
	}
	return values
}

func parseGoals(projectID int64, list string) []model.Goal {
	goals := make([]model.Goal, 0)
	for _, pair := range parseStringList(list) {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			log.WithField("goal", pair).Fatal("Invalid goal mapping, expected goalId:remoteGoalId.")
		}
		goalID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			log.WithField("goal", pair).Fatal("Invalid goal id.")
		}
		remoteGoalID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			log.WithField("goal", pair).Fatal("Invalid remote goal id.")
		}
		goals = append(goals, model.Goal{ID: goalID, ProjectID: projectID, RemoteGoalID: remoteGoalID})
	}
	return goals
}

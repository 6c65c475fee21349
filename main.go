package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"leadfilter/admin"
	"leadfilter/config"
	"leadfilter/discord"
	"leadfilter/errors/report"
	"leadfilter/logreport"
	"leadfilter/queue"
	qmangos "leadfilter/queue/mangos"
	apsql "leadfilter/sql"
	"leadfilter/stats"

	"github.com/gorilla/mux"
)

func main() {
	log.SetFlags(log.Ldate | log.Lmicroseconds)
	log.SetOutput(admin.Interceptor)

	conf, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing config file: %v", err)
	}

	if conf.Version {
		fmt.Printf("Lead Filter %s\n", config.SystemVersion)
		os.Exit(0)
	}
	if conf.ExampleConfig {
		fmt.Print(config.ExampleConfigurationFile)
		os.Exit(0)
	}

	if conf.Airbrake.APIKey != "" {
		report.RegisterReporter(report.ConfigureAirbrake(conf.Airbrake.APIKey,
			conf.Airbrake.ProjectID, conf.Airbrake.Environment))
	}

	db, err := apsql.Connect(conf.Database)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if !db.UpToDate() {
		if conf.Database.Migrate {
			if err = db.Migrate(); err != nil {
				log.Fatalf("Error migrating database: %v", err)
			}
		} else {
			message := "The database is not up to date.\n"
			message += "Please migrate by invoking with the -db-migrate flag."
			log.Fatal(message)
		}
	}

	var statsLogger stats.Logger
	if conf.Stats.Collect {
		statsLogger = &stats.SQL{Node: nodeName(), DB: db}
	}

	var relay *queue.PubChannel
	if conf.Relay.Enabled {
		bindings := []queue.PubBinding{qmangos.Pub, qmangos.PubTCP}
		if conf.Relay.Buffer > 0 {
			bindings = append(bindings, qmangos.PubBuffer(int(conf.Relay.Buffer)))
		}
		relay, err = queue.Publish(conf.Relay.Bind, bindings...)
		if err != nil {
			logreport.Fatalf("%s Error binding relay queue: %v",
				config.RelayPrefix, err)
		}
		logreport.Printf("%s Relaying approved leads at %s",
			config.RelayPrefix, conf.Relay.Bind)
	}

	logreport.Printf("%s Starting Discord session", config.System)
	server := discord.NewServer(conf, db, statsLogger, relay)
	if err := server.Run(); err != nil {
		logreport.Fatalf("%s Error starting Discord session: %v",
			config.System, err)
	}

	router := mux.NewRouter()
	admin.Setup(router, db, conf)

	listen := fmt.Sprintf("%s:%d", conf.Admin.Host, conf.Admin.Port)
	logreport.Printf("%s Admin API listening at %s", config.System, listen)
	go func() {
		logreport.Fatal(http.ListenAndServe(listen, router))
	}()

	done := make(chan bool)
	<-done
}

func nodeName() string {
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "leadfilter"
}

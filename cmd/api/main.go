// @title           Mindsync Ingestion API
// @version         1.0
// @description     Uploads documents, turns them into embedded chunks and reports ingestion status.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/postgres"
	jobmodel "github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/internal/handlers"
	"github.com/akolanti/mindsync/internal/job"
	"github.com/akolanti/mindsync/internal/mcpServer"
	"github.com/akolanti/mindsync/internal/rag"
	"github.com/akolanti/mindsync/internal/rag/ingest"
	"github.com/akolanti/mindsync/internal/rag/vectorDB"
	"github.com/akolanti/mindsync/internal/server"
	"github.com/akolanti/mindsync/internal/storage"
	"github.com/akolanti/mindsync/internal/worker"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

var (
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	config.Load()
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	jobStore, eventStore := newJobStores(serviceContext, logger)
	if jobStore == nil {
		logger.Error("Redis stores are offline and the in memory fallback is disabled")
		return
	}
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		EventStore:        eventStore,
	})
	logger.Info("Starting job service")

	db, err := postgres.Open(serviceContext, config.DatabaseURL)
	if err != nil {
		logger.Error("Postgres is unavailable. Shutting down.", "error", err)
		return
	}
	vectors, err := vectorDB.NewVectorStore(serviceContext, config.Vectors, db)
	if err != nil {
		logger.Error("Vector store is unavailable. Shutting down.", "backend", config.Vectors, "error", err)
		return
	}
	embedder, vision, err := newProviders(serviceContext)
	if err != nil {
		logger.Error("AI provider failed to initialize. Shutting down.", "provider", config.Provider, "error", err)
		return
	}
	files, err := storage.NewS3Store(serviceContext, storage.S3Options{
		Endpoint:      config.S3Endpoint,
		Region:        config.S3Region,
		Bucket:        config.S3Bucket,
		AccessKey:     config.S3AccessKey,
		SecretKey:     config.S3SecretKey,
		PublicBaseURL: config.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("File store failed to initialize. Shutting down.", "error", err)
		return
	}
	documents := postgres.NewDocumentStore(db)

	ragService := rag.NewService(rag.Dependencies{
		Documents: documents,
		Vectors:   vectors,
		Files:     files,
		Extractor: ingest.NewExtractor(ingest.NewImageExtractor(vision)),
		Embedder:  embedder,
		Events:    eventStore,
	})

	handlers.InitHandlers(handlers.HandlerConfig{
		RagService: ragService,
		JobService: service,
		Files:      files,
		Documents:  documents,
	})

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpServer.NewHandler(ragService))

	<-stopExecution
	logger.Info("Server stopped")
}

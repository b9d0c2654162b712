package container

import (
	"context"
	"errors"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/config"
	"ge-course-scraper/internal/controllers"
	"ge-course-scraper/internal/discovery"
	"ge-course-scraper/internal/middleware"
	"ge-course-scraper/internal/rabbitmq/consumer"
	"ge-course-scraper/internal/rabbitmq/producer"
	"ge-course-scraper/internal/refresh"
	"ge-course-scraper/internal/repository"
	"ge-course-scraper/internal/routes"
	"ge-course-scraper/internal/scheduler"

	"github.com/gorilla/mux"
)

type Container struct {
	Env        *config.EnvConfig
	Db         *config.DatabaseConfig
	RabbitMq   *config.RabbitMqConfig
	Controller *ControllerContainer
	Consumer   *consumer.ConsumerEntrypoint
	Route      *routes.Route
	Scheduler  *scheduler.Scheduler
	Discovery  *discovery.Client
	Degrees    *repository.DegreeRepository
}

// NewContainer wires every component from env. The broker is optional: with
// no AMQP_SERVER_URL, refresh requests start cycles in-process and no events
// are published.
func NewContainer(ctx context.Context, env *config.EnvConfig, factory browser.Factory) (*Container, error) {
	dbConfig, err := config.NewDBConfig(ctx, env)
	if err != nil {
		return nil, err
	}
	snapshots := repository.NewSnapshotRepository(dbConfig.Connection, dbConfig.Dialect)
	degrees := repository.NewDegreeRepository(dbConfig.Connection, dbConfig.Dialect)

	var (
		rabbitmqConfig             *config.RabbitMqConfig
		mainControllerProducer     *producer.MainControllerProducer
		scrapingControllerProducer *producer.ScrapingControllerProducer
	)
	if env.RabbitMq.URL != "" {
		rabbitmqConfig, err = config.NewRabbitMqConfig(env.RabbitMq)
		if err != nil {
			dbConfig.Connection.Close()
			return nil, err
		}
		mainControllerProducer = producer.NewMainControllerProducer(rabbitmqConfig.Channel, env.RabbitMq.TriggerQueue)
		scrapingControllerProducer = producer.NewScrapingControllerProducer(rabbitmqConfig.Channel, env.RabbitMq.RefreshQueue)
	}

	if factory == nil {
		options := browser.DefaultChromeOptions()
		options.Headless = env.Scraper.Headless
		factory = browser.NewChromeFactory(options)
	}

	logicController := controllers.NewLogicController(snapshots, degrees)
	scrapingController := controllers.NewScrapingController(
		factory,
		env.Scraper,
		refresh.NewPipeline(snapshots, env.Scraper.BatchSize),
		scrapingControllerProducer,
	)
	mainController := controllers.NewMainController(logicController, scrapingController, mainControllerProducer)
	controllerContainer := NewControllerContainer(logicController, mainController, scrapingController)

	container := &Container{
		Env:        env,
		Db:         dbConfig,
		RabbitMq:   rabbitmqConfig,
		Controller: controllerContainer,
		Route:      routes.NewRoute(mux.NewRouter(), mainController, middleware.NewMiddleware()),
		Scheduler:  scheduler.New(scrapingController),
		Discovery:  discovery.NewClient(env.Scraper.CatalogURL, 30*time.Second),
		Degrees:    degrees,
	}
	if rabbitmqConfig != nil {
		container.Consumer = consumer.NewConsumerEntrypointInit(rabbitmqConfig, scrapingController)
	}
	return container, nil
}

// SyncDegrees refreshes the stored degree requirements from the catalog.
func (c *Container) SyncDegrees(ctx context.Context) (int, error) {
	return discovery.Sync(ctx, c.Discovery, c.Degrees)
}

func (c *Container) Close() error {
	var errs []error
	if c.RabbitMq != nil {
		errs = append(errs, c.RabbitMq.Close())
	}
	errs = append(errs, c.Db.Connection.Close())
	return errors.Join(errs...)
}

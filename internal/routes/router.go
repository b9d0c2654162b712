package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ge-course-scraper/api"
	"ge-course-scraper/internal/config"
	"ge-course-scraper/internal/controllers"
	"ge-course-scraper/internal/logger"
	"ge-course-scraper/internal/middleware"

	"github.com/gorilla/mux"
)

type Route struct {
	Router         *mux.Router
	MainController *controllers.MainController
	Middleware     *middleware.Middleware
}

func NewRoute(router *mux.Router, mainController *controllers.MainController, middleware *middleware.Middleware) *Route {
	route := &Route{
		Router:         router,
		MainController: mainController,
		Middleware:     middleware,
	}
	route.Register()
	return route
}

func (r *Route) Register() {
	r.Router.PathPrefix("/swagger/").Handler(api.Handler()).Methods(http.MethodGet)

	apiRouter := r.Router.PathPrefix("/api").Subrouter()
	apiRouter.Use(r.Middleware.Logging)
	apiRouter.HandleFunc("/courses", r.MainController.GetCourses).Methods(http.MethodGet)
	apiRouter.HandleFunc("/courses/{degree}", r.MainController.GetDegreeCourses).Methods(http.MethodGet)
	apiRouter.HandleFunc("/last_update", r.MainController.GetLastUpdate).Methods(http.MethodGet)
	apiRouter.HandleFunc("/categories", r.MainController.GetCategories).Methods(http.MethodGet)
	apiRouter.HandleFunc("/degrees", r.MainController.GetDegrees).Methods(http.MethodGet)
	apiRouter.HandleFunc("/refresh", r.MainController.PostRefresh).Methods(http.MethodPost)
}

// Handler is the router wrapped in the CORS middleware.
func (r *Route) Handler() http.Handler {
	return r.Middleware.Cors.Handler(r.Router)
}

// RunServer serves the API until ctx is cancelled.
func (r *Route) RunServer(ctx context.Context, env *config.AppEnv) error {
	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", env.AppHost, env.AppPort),
		Handler:        r.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("API server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

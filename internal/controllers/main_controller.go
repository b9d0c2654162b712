package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"ge-course-scraper/internal/logger"
	"ge-course-scraper/internal/model/response"
	"ge-course-scraper/internal/rabbitmq/producer"

	"github.com/gorilla/mux"
)

// MainController exposes the query API over HTTP.
type MainController struct {
	LogicController    *LogicController
	ScrapingController *ScrapingController
	Producer           *producer.MainControllerProducer
	// CycleContext is the parent of cycles started from a request; it
	// outlives the request itself.
	CycleContext context.Context
}

func NewMainController(logic *LogicController, scraping *ScrapingController, producer *producer.MainControllerProducer) *MainController {
	return &MainController{
		LogicController:    logic,
		ScrapingController: scraping,
		Producer:           producer,
		CycleContext:       context.Background(),
	}
}

func writeJSON[T any](w http.ResponseWriter, result *response.Response[T]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Code)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Warn().Err(err).Msg("Error writing response")
	}
}

// GetCourses godoc
// @Summary      List scraped courses
// @Description  Courses of one GE category, or of every category when course is AnyGE or omitted.
// @Tags         courses
// @Produce      json
// @Param        course  query  string  false  "GE category code"  default(AnyGE)
// @Success      200  {object}  response.Response[[]entity.CourseRecord]
// @Failure      400  {object}  response.Response[any]
// @Router       /courses [get]
func (c *MainController) GetCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.LogicController.GetCourses(r.Context(), r.URL.Query().Get("course")))
}

// GetLastUpdate godoc
// @Summary  Time of the last completed refresh
// @Tags     courses
// @Produce  json
// @Success  200  {object}  response.Response[response.LastUpdateResponse]
// @Router   /last_update [get]
func (c *MainController) GetLastUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.LogicController.GetLastUpdate(r.Context()))
}

// GetCategories godoc
// @Summary  GE categories offered by the search form
// @Tags     courses
// @Produce  json
// @Success  200  {object}  response.Response[[]entity.Category]
// @Router   /categories [get]
func (c *MainController) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.LogicController.GetCategories())
}

// GetDegrees godoc
// @Summary  Names of every discovered degree
// @Tags     degrees
// @Produce  json
// @Success  200  {object}  response.Response[[]string]
// @Router   /degrees [get]
func (c *MainController) GetDegrees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.LogicController.GetDegrees(r.Context()))
}

// GetDegreeCourses godoc
// @Summary  Required courses of a degree grouped by requirement
// @Tags     degrees
// @Produce  json
// @Param    degree  path  string  true  "Degree name"
// @Success  200  {object}  response.Response[entity.Degree]
// @Failure  404  {object}  response.Response[any]
// @Router   /courses/{degree} [get]
func (c *MainController) GetDegreeCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.LogicController.GetDegreeCourses(r.Context(), mux.Vars(r)["degree"]))
}

// PostRefresh godoc
// @Summary      Request a scrape cycle
// @Description  Queues a cycle on the broker when one is configured, otherwise starts it in the background.
// @Tags         courses
// @Produce      json
// @Success      202  {object}  response.Response[any]
// @Failure      409  {object}  response.Response[any]
// @Router       /refresh [post]
func (c *MainController) PostRefresh(w http.ResponseWriter, r *http.Request) {
	if c.Producer != nil {
		if err := c.Producer.PublishStartScraping("api"); err != nil {
			writeJSON(w, &response.Response[any]{
				Code:    http.StatusBadGateway,
				Message: err.Error(),
			})
			return
		}
		writeJSON(w, &response.Response[any]{
			Code:    http.StatusAccepted,
			Message: "Scrape requested",
		})
		return
	}
	if !c.ScrapingController.StartCycle(c.CycleContext) {
		writeJSON(w, &response.Response[any]{
			Code:    http.StatusConflict,
			Message: ErrCycleRunning.Error(),
		})
		return
	}
	writeJSON(w, &response.Response[any]{
		Code:    http.StatusAccepted,
		Message: "Scrape started",
	})
}

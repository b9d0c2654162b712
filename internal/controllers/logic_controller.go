package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/model/response"
	"ge-course-scraper/internal/repository"
	"ge-course-scraper/internal/scraper"
)

// LogicController answers read queries against the stored snapshot.
type LogicController struct {
	Snapshots *repository.SnapshotRepository
	Degrees   *repository.DegreeRepository
}

func NewLogicController(snapshots *repository.SnapshotRepository, degrees *repository.DegreeRepository) *LogicController {
	logicController := &LogicController{
		Snapshots: snapshots,
		Degrees:   degrees,
	}
	return logicController
}

func (c *LogicController) GetCourses(ctx context.Context, category string) *response.Response[[]entity.CourseRecord] {
	if category == "" {
		category = scraper.AllCategories
	}
	if category != scraper.AllCategories && !scraper.IsCategory(category) {
		return &response.Response[[]entity.CourseRecord]{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("unknown GE category %q", category),
		}
	}
	courses, err := c.Snapshots.ListCourses(ctx, category)
	if err != nil {
		return &response.Response[[]entity.CourseRecord]{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}
	return &response.Response[[]entity.CourseRecord]{
		Code:    http.StatusOK,
		Message: "Success",
		Data:    courses,
	}
}

func (c *LogicController) GetLastUpdate(ctx context.Context) *response.Response[response.LastUpdateResponse] {
	at, err := c.Snapshots.LastRefreshed(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &response.Response[response.LastUpdateResponse]{
			Code:    http.StatusOK,
			Message: "No refresh has completed yet",
		}
	}
	if err != nil {
		return &response.Response[response.LastUpdateResponse]{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}
	return &response.Response[response.LastUpdateResponse]{
		Code:    http.StatusOK,
		Message: "Success",
		Data:    response.LastUpdateResponse{LastUpdate: &at},
	}
}

func (c *LogicController) GetCategories() *response.Response[[]entity.Category] {
	return &response.Response[[]entity.Category]{
		Code:    http.StatusOK,
		Message: "Success",
		Data:    scraper.Categories(),
	}
}

func (c *LogicController) GetDegrees(ctx context.Context) *response.Response[[]string] {
	names, err := c.Degrees.ListDegrees(ctx)
	if err != nil {
		return &response.Response[[]string]{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}
	return &response.Response[[]string]{
		Code:    http.StatusOK,
		Message: "Success",
		Data:    names,
	}
}

func (c *LogicController) GetDegreeCourses(ctx context.Context, name string) *response.Response[*entity.Degree] {
	degree, err := c.Degrees.DegreeCourses(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return &response.Response[*entity.Degree]{
			Code:    http.StatusNotFound,
			Message: "Degree not found",
		}
	}
	if err != nil {
		return &response.Response[*entity.Degree]{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}
	return &response.Response[*entity.Degree]{
		Code:    http.StatusOK,
		Message: "Success",
		Data:    &degree,
	}
}

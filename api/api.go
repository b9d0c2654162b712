// Package api serves the swagger UI for the course query API.
//
// @title        GE Course Scraper API
// @version      1.0
// @description  Read access to the scraped GE course snapshot and degree requirements.
// @BasePath     /api
package api

import (
	"net/http"

	"ge-course-scraper/api/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handler serves the swagger UI and doc.json under /swagger/.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SetHost points the generated document at the serving address.
func SetHost(host string) {
	docs.SwaggerInfo.Host = host
}

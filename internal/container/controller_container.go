package container

import "ge-course-scraper/internal/controllers"

type ControllerContainer struct {
	Logic    *controllers.LogicController
	Main     *controllers.MainController
	Scraping *controllers.ScrapingController
}

func NewControllerContainer(logic *controllers.LogicController, main *controllers.MainController, scraping *controllers.ScrapingController) *ControllerContainer {
	return &ControllerContainer{
		Logic:    logic,
		Main:     main,
		Scraping: scraping,
	}
}

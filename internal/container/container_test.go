package container

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ge-course-scraper/internal/browser/browsertest"
	"ge-course-scraper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainerWithoutBroker(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("AMQP_SERVER_URL", "")
	t.Setenv("SCRAPER_ENTRY_URL", browsertest.EntryURL)
	t.Setenv("SCRAPER_CATEGORIES", "CC")
	t.Setenv("SCRAPER_RETRY_DELAY", "0s")

	site := browsertest.NewSite("CC")
	site.AddResults("CC", 5, browsertest.Row{
		Code: "ANTH 1 - 01", Title: "Intro", ClassNumber: "10001",
		Instructor: "Mead,Margaret", Enrolled: 5, Capacity: 10,
		Mode: "In Person", Schedule: "MW 10:00AM-11:00AM", Location: "Social Sci 1",
	})

	c, err := NewContainer(context.Background(), config.ReadEnvConfig(), site.Factory())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.RabbitMq)
	assert.Nil(t, c.Consumer)
	assert.Nil(t, c.Controller.Main.Producer)

	result, err := c.Controller.Scraping.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Report.Records, 1)

	courses := c.Controller.Logic.GetCourses(context.Background(), "CC")
	assert.Len(t, courses.Data, 1)
}

func TestContainerSyncDegrees(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul class="sc-child-item-links"><li><a href="/programs/math-ba">Mathematics B.A.</a></li></ul>`)
	})
	mux.HandleFunc("/programs/math-ba", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h4 class="sc-RequiredCoursesHeading2">Lower-Division Courses</h4><p><a class="sc-courselink">MATH 19A</a></p>`)
	})
	catalog := httptest.NewServer(mux)
	defer catalog.Close()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("AMQP_SERVER_URL", "")
	t.Setenv("CATALOG_INDEX_URL", catalog.URL+"/index")

	c, err := NewContainer(context.Background(), config.ReadEnvConfig(), browsertest.NewSite().Factory())
	require.NoError(t, err)
	defer c.Close()

	n, err := c.SyncDegrees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	degrees := c.Controller.Logic.GetDegrees(context.Background())
	assert.Equal(t, []string{"Mathematics B.A."}, degrees.Data)
}

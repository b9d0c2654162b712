// Package discovery collects the required courses of each degree program
// from the public catalog.
package discovery

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// CourseTypeOrder ranks requirement headings; unknown headings sort after
// these, alphabetically.
var CourseTypeOrder = []string{
	"Major Qualification",
	"Lower-Division Courses",
	"Upper-Division Courses",
	"Electives",
	"Disciplinary Communications (DC) Requirements",
}

const (
	DefaultLinkSelector    = "ul.sc-child-item-links a[href]"
	DefaultHeadingSelector = "h4.sc-RequiredCoursesHeading2"
	DefaultCourseSelector  = "a.sc-courselink"
	DefaultWorkers         = 5
)

// DegreeLink points at one program page in the catalog.
type DegreeLink struct {
	Name string
	URL  string
}

type Client struct {
	Http            *resty.Client
	IndexURL        string
	LinkSelector    string
	HeadingSelector string
	CourseSelector  string
	Workers         int
}

func NewClient(indexURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	return &Client{
		Http:            httpClient,
		IndexURL:        indexURL,
		LinkSelector:    DefaultLinkSelector,
		HeadingSelector: DefaultHeadingSelector,
		CourseSelector:  DefaultCourseSelector,
		Workers:         DefaultWorkers,
	}
}

func (c *Client) fetch(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: unexpected status %s", link, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// DegreeLinks lists the program pages linked from the index page.
func (c *Client) DegreeLinks(ctx context.Context) ([]DegreeLink, error) {
	base, err := url.Parse(c.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index url: %w", err)
	}
	doc, err := c.fetch(ctx, c.IndexURL)
	if err != nil {
		return nil, err
	}

	var links []DegreeLink
	seen := map[string]bool{}
	doc.Find(c.LinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		name := strings.TrimSpace(s.Text())
		ref, err := url.Parse(href)
		if name == "" || err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, DegreeLink{Name: name, URL: abs})
	})
	return links, nil
}

// DegreeCourses reads the course codes listed under each requirement heading
// of a program page.
func (c *Client) DegreeCourses(ctx context.Context, link DegreeLink) (entity.Degree, error) {
	degree := entity.Degree{Name: link.Name, URL: link.URL}
	doc, err := c.fetch(ctx, link.URL)
	if err != nil {
		return degree, err
	}

	groups := map[string][]string{}
	doc.Find(c.HeadingSelector).Each(func(_ int, heading *goquery.Selection) {
		courseType := strings.TrimSpace(heading.Text())
		heading.NextUntil("h4").Find(c.CourseSelector).Each(func(_ int, a *goquery.Selection) {
			code := strings.TrimSpace(a.Text())
			if code == "" || slices.Contains(groups[courseType], code) {
				return
			}
			groups[courseType] = append(groups[courseType], code)
		})
	})

	types := make([]string, 0, len(groups))
	for courseType := range groups {
		types = append(types, courseType)
	}
	SortCourseTypes(types)
	for _, courseType := range types {
		degree.CourseTypes = append(degree.CourseTypes, entity.CourseTypeGroup{
			Type:    courseType,
			Courses: groups[courseType],
		})
	}
	return degree, nil
}

func SortCourseTypes(types []string) {
	rank := func(t string) int {
		if i := slices.Index(CourseTypeOrder, t); i >= 0 {
			return i
		}
		return len(CourseTypeOrder)
	}
	sort.SliceStable(types, func(i, j int) bool {
		ri, rj := rank(types[i]), rank(types[j])
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})
}

// Discover fetches every degree linked from the index with a bounded number
// of concurrent requests. Degrees that fail are logged and skipped. The
// result is ordered by degree name.
func (c *Client) Discover(ctx context.Context) ([]entity.Degree, error) {
	links, err := c.DegreeLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list degrees: %w", err)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		degrees []entity.Degree
		tasks   = make(chan DegreeLink)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range tasks {
				degree, err := c.DegreeCourses(ctx, link)
				if err != nil {
					logger.Warn().Err(err).Str("degree", link.Name).Msg("skipping degree")
					continue
				}
				mu.Lock()
				degrees = append(degrees, degree)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, link := range links {
		select {
		case tasks <- link:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(degrees, func(i, j int) bool { return degrees[i].Name < degrees[j].Name })
	logger.Info().Int("degrees", len(degrees)).Int("links", len(links)).Msg("degree discovery finished")
	return degrees, nil
}

// DegreeStore persists discovered degrees.
type DegreeStore interface {
	ReplaceDegree(ctx context.Context, degree entity.Degree) error
}

// Sync discovers every degree and writes each to store.
func Sync(ctx context.Context, client *Client, store DegreeStore) (int, error) {
	degrees, err := client.Discover(ctx)
	if err != nil {
		return 0, err
	}
	for _, degree := range degrees {
		if err := store.ReplaceDegree(ctx, degree); err != nil {
			return 0, fmt.Errorf("failed to save degree %s: %w", degree.Name, err)
		}
	}
	return len(degrees), nil
}

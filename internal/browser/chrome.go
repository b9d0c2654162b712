package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the headless Chrome backend.
type ChromeOptions struct {
	Headless bool
	// ActionTimeout bounds calls that do not carry their own timeout.
	ActionTimeout time.Duration
	Headers       map[string]interface{}
	BlockedURLs   []string
}

func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		Headless:      true,
		ActionTimeout: 10 * time.Second,
		Headers: map[string]interface{}{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Cache-Control":             "max-age=0",
			"Upgrade-Insecure-Requests": "1",
			"User-Agent":                "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.69 Safari/537.36",
		},
		BlockedURLs: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.css", "*.woff", "*.woff2"},
	}
}

// ChromeSession drives one Chrome process with a single tab through chromedp.
type ChromeSession struct {
	options     ChromeOptions
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewChromeFactory returns a Factory that launches a fresh Chrome per session.
func NewChromeFactory(options ChromeOptions) Factory {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, options)
	}
}

func NewChromeSession(ctx context.Context, options ChromeOptions) (*ChromeSession, error) {
	allocOptions := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", options.Headless),
		chromedp.Flag("disable-plugins", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	// the browser outlives the ctx of the caller that happened to start it
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOptions...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	session := &ChromeSession{
		options:     options,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}
	// the first Run starts the browser and binds its lifetime to the ctx it
	// receives, so it must not be a timeout ctx
	if err := chromedp.Run(tabCtx); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	err := session.run(ctx, options.ActionTimeout,
		network.Enable(),
		network.SetCacheDisabled(true),
		network.SetBlockedURLS(options.BlockedURLs),
		network.SetExtraHTTPHeaders(network.Headers(options.Headers)),
	)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	return session, nil
}

// run executes actions on the tab bounded by both timeout and the caller's ctx.
func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	return s.bounded(ctx, timeout, func(runCtx context.Context) error {
		return chromedp.Run(runCtx, actions...)
	})
}

func (s *ChromeSession) bounded(ctx context.Context, timeout time.Duration, fn func(runCtx context.Context) error) error {
	if timeout <= 0 {
		timeout = s.options.ActionTimeout
	}
	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := fn(runCtx)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", ErrNavigationTimeout, err)
	}
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return err
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, 0,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *ChromeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) ([]Element, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, timeout, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll))
	if errors.Is(err, ErrNavigationTimeout) {
		return nil, &TimeoutError{Selector: selector, Timeout: timeout}
	}
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

func (s *ChromeSession) FindWithin(ctx context.Context, el Element, selector string) ([]Element, error) {
	parent, err := nodeOf(el)
	if err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	err = s.run(ctx, 0, chromedp.Nodes(selector, &nodes,
		chromedp.ByQueryAll,
		chromedp.FromNode(parent),
		chromedp.AtLeast(0),
	))
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

// Click clicks the first node matching selector. It does not wait for any
// navigation the click starts; use ClickNavigate for that.
func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, 0, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// ClickNavigate waits for the main frame navigation the click triggers, so
// the next query runs against the new document and not the one clicked on.
func (s *ChromeSession) ClickNavigate(ctx context.Context, selector string, timeout time.Duration) error {
	return s.bounded(ctx, timeout, func(runCtx context.Context) error {
		if _, err := chromedp.RunResponse(runCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
			return err
		}
		return chromedp.Run(runCtx, chromedp.WaitReady("body", chromedp.ByQuery))
	})
}

func (s *ChromeSession) SelectOption(ctx context.Context, selector, value string) error {
	return s.run(ctx, 0, chromedp.SetValue(selector, value, chromedp.ByQuery))
}

func (s *ChromeSession) ReadText(ctx context.Context, el Element) (string, error) {
	node, err := nodeOf(el)
	if err != nil {
		return "", err
	}
	var text string
	err = s.run(ctx, 0, chromedp.Text([]cdp.NodeID{node.NodeID}, &text, chromedp.ByNodeID))
	return text, err
}

func (s *ChromeSession) ReadAttribute(ctx context.Context, el Element, name string) (string, bool, error) {
	node, err := nodeOf(el)
	if err != nil {
		return "", false, err
	}
	var (
		value string
		ok    bool
	)
	err = s.run(ctx, 0, chromedp.AttributeValue([]cdp.NodeID{node.NodeID}, name, &value, &ok, chromedp.ByNodeID))
	return value, ok, err
}

func (s *ChromeSession) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}

func wrapNodes(nodes []*cdp.Node) []Element {
	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, NewElement(node))
	}
	return elements
}

func nodeOf(el Element) (*cdp.Node, error) {
	node, ok := el.Ref().(*cdp.Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("element %T does not belong to a chrome session", el.Ref())
	}
	return node, nil
}

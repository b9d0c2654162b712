package producer

const StartScrapingMessage = "Start Scraping"

// MainControllerProducer asks the scraping consumer to run a cycle.
type MainControllerProducer struct {
	Channel Publisher
	Queue   string
}

func NewMainControllerProducer(channel Publisher, queue string) *MainControllerProducer {
	return &MainControllerProducer{
		Channel: channel,
		Queue:   queue,
	}
}

func (p *MainControllerProducer) PublishStartScraping(requestedBy string) error {
	return publishJSON(p.Channel, p.Queue, map[string]interface{}{
		"message":      StartScrapingMessage,
		"requested_by": requestedBy,
	})
}

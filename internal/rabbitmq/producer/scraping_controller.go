package producer

import (
	"ge-course-scraper/internal/model/response"
)

const SnapshotRefreshedMessage = "Snapshot Refreshed"

// ScrapingControllerProducer announces finished scrape cycles.
type ScrapingControllerProducer struct {
	Channel Publisher
	Queue   string
}

func NewScrapingControllerProducer(channel Publisher, queue string) *ScrapingControllerProducer {
	return &ScrapingControllerProducer{
		Channel: channel,
		Queue:   queue,
	}
}

func (p *ScrapingControllerProducer) PublishSnapshotRefreshed(cycle response.CycleResponse) error {
	return publishJSON(p.Channel, p.Queue, map[string]interface{}{
		"message":  SnapshotRefreshedMessage,
		"cycle_id": cycle.CycleID,
		"data":     cycle,
	})
}

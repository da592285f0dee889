package extensions

import (
	"github.com/agentberlin/bluespider"
	"github.com/agentberlin/bluespider/internal/crawl"
)

// URLLengthFilter filters out requests with URLs longer than URLLengthLimit
func URLLengthFilter(c *crawl.Crawler, URLLengthLimit int) {
	c.OnSchedule(func(res *bluespider.Resource, source string) (*bluespider.Resource, bool) {
		return res, len(res.URI()) <= URLLengthLimit
	})
}

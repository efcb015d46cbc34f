// Package events carries notifications that the topology builder emits while
// it runs, most notably route files that failed to parse.
package events

import "context"

const TopicFileParseFailed = "routescope.topology.parse_failed"

type FileParseFailed struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

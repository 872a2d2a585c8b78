// Package gochannel provides the in-process pub/sub used when no broker is
// configured.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DefaultBuffer is the per-subscriber output buffer.
const DefaultBuffer = 256

// CreateChannel returns one GoChannel acting as both publisher and
// subscriber. Publishing never blocks on slow subscribers and messages are
// not kept for late subscribers.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            DefaultBuffer,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	return pubSub, pubSub, nil
}

// CreateSyncChannel is CreateChannel with publishing blocked until the
// subscriber acks, so a publish returns only after handlers ran. The CLI
// uses it to record activity before exiting.
func CreateSyncChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			BlockPublishUntilSubscriberAck: true,
		},
		logger,
	)

	return pubSub, pubSub, nil
}

package main

import (
	"log/slog"

	"github.com/udisondev/la2go-combat/internal/model"
)

// logNotifier stands in for the network layer: it logs every
// client-visible change instead of sending packets.
type logNotifier struct{}

func (logNotifier) NotifyCastCancelled(entity model.ObjectID) {
	slog.Debug("cast cancelled", "objectID", entity)
}

func (logNotifier) NotifyTargetChanged(entity, target model.ObjectID) {
	slog.Debug("target changed", "objectID", entity, "target", target)
}

func (logNotifier) NotifyStateChanged(entity model.ObjectID) {
	slog.Debug("combat state changed", "objectID", entity)
}

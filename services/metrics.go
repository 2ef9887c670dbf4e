package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionChanges counts favorite and shopping cart toggles.
	// Labels: collection ("favorites", "shopping_cart"), op ("add", "remove").
	CollectionChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_collection_changes_total",
			Help: "Favorite and shopping cart additions and removals",
		},
		[]string{"collection", "op"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_events_published_total",
			Help: "Activity events handed to the publisher",
		},
		[]string{"type", "outcome"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Shopping list files rendered",
		},
	)
)

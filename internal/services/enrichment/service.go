package enrichment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/search"
	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	// DefaultPropertyLimit bounds how many properties one run enriches.
	DefaultPropertyLimit = 50

	defaultQueueSize   = 16
	defaultWorkerCount = 1
)

// Request describes one enrichment run.
type Request struct {
	// City restricts which properties are enriched. Empty means any.
	City string `json:"city,omitempty"`

	// RadiusM is the POI search radius around each property.
	RadiusM int `json:"radius,omitempty"`

	// Categories to fetch. Empty means all known categories.
	Categories []string `json:"categories,omitempty"`

	// Limit bounds how many properties are processed.
	Limit int `json:"limit,omitempty"`
}

// Report summarizes one enrichment run.
type Report struct {
	PropertiesProcessed int      `json:"propertiesProcessed"`
	POIsFound           int      `json:"poisFound"`
	POIsSaved           int      `json:"poisSaved"`
	Errors              []string `json:"errors,omitempty"`
}

// Service enriches properties with provider-sourced POIs.
type Service interface {
	// Enrich runs one enrichment pass synchronously.
	Enrich(ctx context.Context, req *Request) (*Report, error)

	// Enqueue schedules an asynchronous run. Returns false when the queue
	// is full.
	Enqueue(req *Request) bool

	// QueueSize returns the number of pending runs.
	QueueSize() int

	// Stop shuts the background workers down.
	Stop()
}

// Config holds the configuration for the enrichment service.
type Config struct {
	Backend  search.Backend
	Provider POIProvider

	QueueSize   int
	WorkerCount int
}

type service struct {
	backend  search.Backend
	provider POIProvider
	queue    *JobQueue
}

// NewService creates a new enrichment service and starts its workers.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("search backend is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("poi provider is required")
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}

	s := &service{
		backend:  cfg.Backend,
		provider: cfg.Provider,
	}
	s.queue = NewJobQueue(queueSize, func(ctx context.Context, job *Request) {
		if _, err := s.Enrich(ctx, job); err != nil {
			log.Error().Err(err).Msg("background enrichment run failed")
		}
	})
	s.queue.Start(workerCount)
	return s, nil
}

func (s *service) Enrich(ctx context.Context, req *Request) (*Report, error) {
	if req == nil {
		req = &Request{}
	}

	radius := req.RadiusM
	if radius <= 0 {
		radius = models.DefaultPOIRadius
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPropertyLimit
	}
	categories := req.Categories
	if len(categories) == 0 {
		categories = []string{
			models.POICategorySchool, models.POICategoryRestaurant,
			models.POICategoryHealthcare, models.POICategoryShopping,
			models.POICategoryPark,
		}
	}

	properties, err := s.backend.SearchProperties(ctx, search.PropertyQuery{
		City:  req.City,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties for enrichment: %w", err)
	}

	report := &Report{}

	// POIs from overlapping property radii repeat constantly; dedupe by
	// location and name before writing.
	unique := make(map[string]models.POI)
	for _, property := range properties {
		if !property.Geo.Valid() {
			continue
		}
		report.PropertiesProcessed++

		for _, category := range categories {
			pois, err := s.provider.SearchPOIs(ctx, property.Geo.Latitude, property.Geo.Longitude, radius, category)
			if err != nil {
				log.Warn().Err(err).Str("zpid", property.ZPID).Str("category", category).
					Msg("poi provider lookup failed")
				report.Errors = append(report.Errors, err.Error())
				continue
			}
			report.POIsFound += len(pois)
			for _, poi := range pois {
				unique[poi.DedupKey()] = poi
			}
		}
	}

	if len(unique) > 0 {
		deduped := make([]models.POI, 0, len(unique))
		for _, poi := range unique {
			deduped = append(deduped, poi)
		}
		saved, err := s.backend.SavePOIs(ctx, deduped)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
		report.POIsSaved = saved
	}

	log.Info().Int("properties", report.PropertiesProcessed).
		Int("found", report.POIsFound).Int("saved", report.POIsSaved).
		Msg("poi enrichment run completed")
	return report, nil
}

func (s *service) Enqueue(req *Request) bool {
	return s.queue.Enqueue(req)
}

func (s *service) QueueSize() int {
	return s.queue.QueueSize()
}

func (s *service) Stop() {
	s.queue.Stop()
}

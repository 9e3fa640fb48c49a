package catalog

import (
	"context"
	"errors"

	"andino/models"
)

// ErrServiceNotFound is returned for an unknown service reference.
var ErrServiceNotFound = errors.New("service not found")

// Service is the catalog lookup collaborator consumed by the booking engine.
type Service interface {
	GetService(ctx context.Context, serviceRef string) (*models.ServiceOffering, error)
}

package service

import (
	"context"

	"notetree/internal/attributes"
)

// attributeService joins the attribute writer and resolver behind one
// interface.
type attributeService struct {
	*attributes.Service
	resolver *attributes.Resolver
}

// NewAttributeService creates a new AttributeService.
func NewAttributeService(svc *attributes.Service, resolver *attributes.Resolver) AttributeService {
	return &attributeService{Service: svc, resolver: resolver}
}

func (s *attributeService) ResolveDisplayMetadata(ctx context.Context, noteIDs []string) (map[string]attributes.DisplayMetadata, error) {
	return s.resolver.ResolveDisplayMetadata(ctx, noteIDs)
}

func (s *attributeService) RelationMap(ctx context.Context, noteIDs []string) (*attributes.RelationMap, error) {
	return s.resolver.RelationMap(ctx, noteIDs)
}

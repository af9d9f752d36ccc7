package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qrtag/internal/client/client"
	"github.com/dmitrijs2005/qrtag/internal/logging"
)

type TagService interface {
	Get(ctx context.Context, code string) (*client.QRCode, error)
	List(ctx context.Context) ([]client.QRCode, error)
	Activate(ctx context.Context, code string, req client.ActivationRequest) (*client.QRCode, error)
	Update(ctx context.Context, code string, upd client.QRCodeUpdate) (*client.QRCode, error)
	Delete(ctx context.Context, code string) error
}

type tagService struct {
	client client.Client
	logger logging.Logger
}

func NewTagService(c client.Client, logger logging.Logger) TagService {
	return &tagService{client: c, logger: logger}
}

func (s *tagService) Get(ctx context.Context, code string) (*client.QRCode, error) {
	q, err := s.client.GetQRCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get tag %s: %w", code, err)
	}
	return q, nil
}

func (s *tagService) List(ctx context.Context) ([]client.QRCode, error) {
	list, err := s.client.GetUserQRCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return list, nil
}

func (s *tagService) Activate(ctx context.Context, code string, req client.ActivationRequest) (*client.QRCode, error) {
	q, err := s.client.ActivateQRCode(ctx, code, req)
	if err != nil {
		return nil, fmt.Errorf("activate tag %s: %w", code, err)
	}
	s.logger.Info(ctx, "tag activated", "code", code, "item", q.ItemName)
	return q, nil
}

func (s *tagService) Update(ctx context.Context, code string, upd client.QRCodeUpdate) (*client.QRCode, error) {
	q, err := s.client.UpdateQRCode(ctx, code, upd)
	if err != nil {
		return nil, fmt.Errorf("update tag %s: %w", code, err)
	}
	s.logger.Info(ctx, "tag updated", "code", code)
	return q, nil
}

func (s *tagService) Delete(ctx context.Context, code string) error {
	if err := s.client.DeleteQRCode(ctx, code); err != nil {
		return fmt.Errorf("delete tag %s: %w", code, err)
	}
	s.logger.Info(ctx, "tag deleted", "code", code)
	return nil
}

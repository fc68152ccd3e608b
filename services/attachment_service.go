package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
)

// AttachmentService, attachment metadata iş mantığı interface'i.
//
// İki aşamalı akışın ilk yarısı burasıdır: client dosyayı dış upload
// servisine yükler, dönen URL'i buraya kaydeder ve bir attachment id alır.
// İkinci yarı MessageService.Create'tedir — mesaj gönderilirken id'ler
// mesaja bağlanır (claim).
type AttachmentService interface {
	Register(ctx context.Context, req *models.RegisterAttachmentRequest) (*models.Attachment, error)
}

type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
}

// NewAttachmentService, constructor.
func NewAttachmentService(attachmentRepo repository.AttachmentRepository) AttachmentService {
	return &attachmentService{attachmentRepo: attachmentRepo}
}

// Register, attachment metadata'sını kaydeder ve uuid id'sini döner.
func (s *attachmentService) Register(ctx context.Context, req *models.RegisterAttachmentRequest) (*models.Attachment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	att := &models.Attachment{
		ID:       uuid.NewString(),
		Filename: req.Filename,
		FileURL:  req.FileURL,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
	}

	if err := s.attachmentRepo.Register(ctx, att); err != nil {
		return nil, err
	}

	return att, nil
}

package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

func (s *Service) AddAttachment(ctx context.Context, actor Actor, reportID, originalName, mimeType string, data []byte) (AttachmentResult, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return AttachmentResult{}, domain.ErrUnauthorized
	}
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return AttachmentResult{}, err
	}

	stored, err := s.files.Store(ctx, data, originalName, mimeType, int64(len(data)))
	if err != nil {
		return AttachmentResult{}, err
	}
	token, expiresAt, err := s.tokens.Generate(ctx, stored.StorageKey, s.cfg.DownloadTokenTTL)
	if err != nil {
		return AttachmentResult{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	attachment := domain.Attachment{
		ID:             "att_" + uuid.NewString(),
		Filename:       stored.StoredFilename,
		OriginalName:   originalName,
		MimeType:       mimeType,
		Size:           int64(len(data)),
		UploadedAt:     s.nowFn(),
		UploadedBy:     actor.UserID,
		StorageKey:     stored.StorageKey,
		DownloadToken:  token,
		TokenExpiresAt: &expiresAt,
	}

	if _, err := s.reports.Update(ctx, reportID, ports.ReportUpdate{
		AppendAttachments: []domain.Attachment{attachment},
	}); err != nil {
		return AttachmentResult{}, err
	}

	return AttachmentResult{
		Attachment:  attachment,
		DownloadURL: fmt.Sprintf("/reports/%s/attachments/%s/download?token=%s", reportID, attachment.ID, token),
	}, nil
}

// DownloadAttachment resolves a token-scoped download. A token that is valid
// for some other attachment's storage key is rejected, never silently served.
func (s *Service) DownloadAttachment(ctx context.Context, reportID, attachmentID, token string) ([]byte, domain.Attachment, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.Attachment{}, domain.ErrTokenRequired
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, domain.Attachment{}, err
	}

	var attachment *domain.Attachment
	for i := range report.Attachments {
		if report.Attachments[i].ID == attachmentID {
			attachment = &report.Attachments[i]
			break
		}
	}
	if attachment == nil {
		return nil, domain.Attachment{}, fmt.Errorf("%w: attachment %s", domain.ErrNotFound, attachmentID)
	}

	storageKey, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.Attachment{}, domain.ErrInvalidToken
	}
	if storageKey != attachment.StorageKey {
		return nil, domain.Attachment{}, domain.ErrForbidden
	}

	data, err := s.files.Retrieve(ctx, attachment.StorageKey)
	if err != nil {
		return nil, domain.Attachment{}, err
	}
	return data, *attachment, nil
}

package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func TestAttachmentUploadAndDownload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := mustCreateReport(t, svc, "With Attachment")

	data := []byte("%PDF-1.4 evidence")
	res, err := svc.AddAttachment(ctx, editor, report.ID, "evidence.pdf", "application/pdf", data)
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if res.Attachment.DownloadToken == "" || res.Attachment.TokenExpiresAt == nil {
		t.Fatalf("expected a minted download token, got %+v", res.Attachment)
	}
	if !strings.Contains(res.DownloadURL, res.Attachment.ID) || !strings.Contains(res.DownloadURL, res.Attachment.DownloadToken) {
		t.Fatalf("download url must reference attachment and token: %s", res.DownloadURL)
	}

	stored, err := svc.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Attachments) != 1 || stored.Attachments[0].OriginalName != "evidence.pdf" {
		t.Fatalf("attachment not persisted: %+v", stored.Attachments)
	}

	got, attachment, err := svc.DownloadAttachment(ctx, report.ID, res.Attachment.ID, res.Attachment.DownloadToken)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("downloaded bytes differ from uploaded bytes")
	}
	if attachment.MimeType != "application/pdf" {
		t.Fatalf("unexpected mime type %q", attachment.MimeType)
	}
}

func TestDownloadTokenScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := mustCreateReport(t, svc, "Two Attachments")

	first, err := svc.AddAttachment(ctx, editor, report.ID, "a.txt", "text/plain", []byte("aaa"))
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, err := svc.AddAttachment(ctx, editor, report.ID, "b.txt", "text/plain", []byte("bbb"))
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	// A token minted for one attachment never opens another.
	if _, _, err := svc.DownloadAttachment(ctx, report.ID, second.Attachment.ID, first.Attachment.DownloadToken); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for cross-attachment token, got %v", err)
	}

	if _, _, err := svc.DownloadAttachment(ctx, report.ID, first.Attachment.ID, ""); !errors.Is(err, domain.ErrTokenRequired) {
		t.Fatalf("expected token required, got %v", err)
	}
	if _, _, err := svc.DownloadAttachment(ctx, report.ID, first.Attachment.ID, "bogus"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, _, err := svc.DownloadAttachment(ctx, report.ID, "att_missing", first.Attachment.DownloadToken); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown attachment, got %v", err)
	}
}

func TestConcurrentUploadsKeepEveryAttachment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := mustCreateReport(t, svc, "Parallel Uploads")

	const uploads = 4
	var wg sync.WaitGroup
	errs := make([]error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("file-%d.txt", i)
			_, errs[i] = svc.AddAttachment(ctx, editor, report.ID, name, "text/plain", []byte(name))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("concurrent upload: %v", err)
		}
	}

	got, err := svc.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Attachments) != uploads {
		t.Fatalf("attachments = %d, want %d (no upload may be dropped)", len(got.Attachments), uploads)
	}
}

func TestAttachmentRejectionsDoNotTouchReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	report := mustCreateReport(t, svc, "Validated Uploads")

	if _, err := svc.AddAttachment(ctx, editor, report.ID, "tool.exe", "application/x-msdownload", []byte("MZ")); !errors.Is(err, domain.ErrInvalidFileType) {
		t.Fatalf("expected invalid file type, got %v", err)
	}

	big := make([]byte, 2*1024*1024)
	if _, err := svc.AddAttachment(ctx, editor, report.ID, "big.pdf", "application/pdf", big); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected file too large, got %v", err)
	}

	stored, err := svc.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Attachments) != 0 || stored.Version != 1 {
		t.Fatalf("rejected upload must leave the report untouched: %+v", stored)
	}
}

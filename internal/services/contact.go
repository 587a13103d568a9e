package services

import (
	"context"
	"strings"
	"time"

	"github.com/webmoto/storefront/types"
)

type ContactRepository interface {
	Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error)
}

type ContactService struct {
	repo ContactRepository
	now  func() time.Time
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo, now: time.Now}
}

func (s *ContactService) Submit(ctx context.Context, name, email, message string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(message) == "" {
		return invalid("Please fill in all fields")
	}
	_, err := s.repo.Create(ctx, types.ContactMessage{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Message:   message,
		CreatedAt: s.now(),
	})
	return err
}

package contact

import (
	"context"
	"strings"
	"time"

	"rakshak-service/pkg/apperror"
	"rakshak-service/pkg/phone"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidPhoneMessage = "phone number must be a valid 10-digit Indian mobile number (e.g., 9876543210 or +919876543210)"

type ContactService interface {
	List(ctx context.Context, tenant string) ([]*Contact, error)
	Create(ctx context.Context, tenant string, req *CreateContactRequest) (*Contact, error)
	Delete(ctx context.Context, tenant, id string) error
}

type contactService struct {
	repo ContactRepository
	now  func() time.Time
}

func NewContactService(repo ContactRepository) ContactService {
	return &contactService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *contactService) List(ctx context.Context, tenant string) ([]*Contact, error) {
	if tenant == "" {
		return nil, apperror.Validation("userId is required")
	}

	contacts, err := s.repo.FindByTenant(ctx, tenant)
	if err != nil {
		return nil, apperror.Internal("failed to load contacts", err)
	}
	return contacts, nil
}

func (s *contactService) Create(ctx context.Context, tenant string, req *CreateContactRequest) (*Contact, error) {
	if tenant == "" {
		return nil, apperror.Validation("userId is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, apperror.Validation("name and phone are required")
	}

	canonical, ok := phone.Normalize(req.Phone)
	if !ok {
		return nil, apperror.Validation(invalidPhoneMessage)
	}

	now := s.now().UTC()
	contact := &Contact{
		UserID:    tenant,
		Name:      name,
		Phone:     canonical,
		IsDefault: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, apperror.Internal("failed to save contact", err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, tenant, id string) error {
	if tenant == "" {
		return apperror.Validation("userId is required")
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("contact not found")
	}

	contact, err := s.repo.FindByID(ctx, tenant, oid)
	if err != nil {
		return apperror.Internal("failed to load contact", err)
	}
	if contact == nil {
		return apperror.NotFound("contact not found")
	}
	if contact.IsDefault {
		return apperror.Validation("cannot delete default contact")
	}

	if err := s.repo.Delete(ctx, tenant, oid); err != nil {
		return apperror.Internal("failed to delete contact", err)
	}
	return nil
}

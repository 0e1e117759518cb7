package customers

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/Domenick1991/travelagency/internal/domain"
	"github.com/Domenick1991/travelagency/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmailTaken is returned when another customer already uses the email.
var ErrEmailTaken = errors.New("email already registered")

type CustomerUseCase interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Search(ctx context.Context, term string) ([]domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetOrCreateByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type CustomerService struct {
	repo   repository.CustomerRepository
	logger *zap.Logger
}

func NewCustomerService(repo repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{repo: repo, logger: logger}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

// Search with a blank term lists everyone.
func (s *CustomerService) Search(ctx context.Context, term string) ([]domain.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return mapNotFound(s.repo.GetByID(ctx, id))
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrCustomerNotFound
	}
	return mapNotFound(s.repo.GetByEmail(ctx, email))
}

// GetOrCreateByEmail resolves a checkout customer. Unknown emails get a
// minimal record whose first name is the email itself.
func (s *CustomerService) GetOrCreateByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, err
	}

	customer := &domain.Customer{ID: uuid.New(), FirstName: email, Email: email}
	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent checkout for the same email
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.logger.Info("customer created at checkout", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if err := normalize(&input); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:        uuid.New(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error) {
	if err := normalize(&input); err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		ID:        id,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrCustomerNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return customer, nil
}

// Delete removes the customer together with their bookings.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrCustomerNotFound
		}
		return err
	}
	return nil
}

func normalize(input *CustomerInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = domain.NormalizeEmail(input.Email)

	if input.FirstName == "" {
		return &domain.ValidationError{Field: "first_name", Message: "is required"}
	}
	return validateEmail(input.Email)
}

func validateEmail(email string) error {
	if email == "" {
		return &domain.ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &domain.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	return nil
}

func mapNotFound(customer *domain.Customer, err error) (*domain.Customer, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

var _ CustomerUseCase = (*CustomerService)(nil)

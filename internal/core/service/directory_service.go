package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/domain"
	"github.com/librarydesk/library-admin/internal/core/ports"
)

// DirectoryService implements the person directory.
type DirectoryService struct {
	people ports.PersonRepository
	books  ports.BookRepository
	tx     ports.TxManager
	hasher ports.PasswordHasher
	log    zerolog.Logger
	clock  func() time.Time
}

func NewDirectoryService(
	people ports.PersonRepository,
	books ports.BookRepository,
	tx ports.TxManager,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *DirectoryService {
	return &DirectoryService{
		people: people,
		books:  books,
		tx:     tx,
		hasher: hasher,
		log:    log,
		clock:  time.Now,
	}
}

func (s *DirectoryService) List(ctx context.Context, caller access.Caller, opts ports.ListOptions) ([]*domain.Person, error) {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}
	if err := validatePage(opts); err != nil {
		return nil, err
	}
	if opts.Page != nil && opts.Page.Unreachable() {
		return []*domain.Person{}, nil
	}
	people, err := s.people.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

// Get is allowed to the person themselves and to admins. A missing person is nil, nil.
func (s *DirectoryService) Get(ctx context.Context, caller access.Caller, id int64) (*domain.Person, error) {
	if err := access.Authorize(caller, access.RequireSelfOrRole(id, domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// FindByUsername backs credential checks and is not gated.
func (s *DirectoryService) FindByUsername(ctx context.Context, username string) (*domain.Person, error) {
	p, err := s.people.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrPersonNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person %q: %w", username, err)
	}
	return p, nil
}

// Create registers a regular user.
func (s *DirectoryService) Create(ctx context.Context, in ports.PersonInput) (*domain.Person, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// EnsureAdmin creates an admin account unless the username is already taken.
// It reports whether a record was created.
func (s *DirectoryService) EnsureAdmin(ctx context.Context, in ports.PersonInput) (bool, error) {
	existing, err := s.FindByUsername(ctx, in.Username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.create(ctx, in, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// Update replaces a person record. The role is always reset to the regular
// user role and the password is hashed again.
func (s *DirectoryService) Update(ctx context.Context, caller access.Caller, id int64, in ports.PersonInput) (*domain.Person, error) {
	if err := access.Authorize(caller, access.AnyCaller()).Err(); err != nil {
		return nil, err
	}

	person, err := s.build(in, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	person.ID = id

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.people.Replace(ctx, person)
	}); err != nil {
		return nil, fmt.Errorf("update person %d: %w", id, err)
	}

	s.log.Info().Int64("person_id", id).Str("by", caller.Username).Msg("person updated")
	return person, nil
}

func (s *DirectoryService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.people.Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}

	s.log.Info().Int64("person_id", id).Str("by", caller.Username).Msg("person deleted")
	return nil
}

// Books lists the books a person holds, with the overdue flag computed now.
// Only the person themselves may ask; admins get no exception here.
func (s *DirectoryService) Books(ctx context.Context, caller access.Caller, id int64) ([]*domain.Book, error) {
	if err := access.Authorize(caller, access.RequireSelf(id)).Err(); err != nil {
		return nil, err
	}

	person, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return []*domain.Book{}, nil
	}

	books, err := s.books.ListByOwner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("books of person %d: %w", id, err)
	}

	now := s.clock()
	for _, b := range books {
		b.MarkOverdue(now)
	}
	return books, nil
}

func (s *DirectoryService) Search(ctx context.Context, caller access.Caller, substring string) ([]*domain.Person, error) {
	if err := access.Authorize(caller, access.RequireRole(domain.RoleAdmin)).Err(); err != nil {
		return nil, err
	}
	people, err := s.people.SearchByName(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	return people, nil
}

func (s *DirectoryService) find(ctx context.Context, id int64) (*domain.Person, error) {
	p, err := s.people.FindByID(ctx, id)
	if errors.Is(err, domain.ErrPersonNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

func (s *DirectoryService) create(ctx context.Context, in ports.PersonInput, role domain.Role) (*domain.Person, error) {
	person, err := s.build(in, role)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.people.Create(ctx, person)
	}); err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}

	s.log.Info().Int64("person_id", person.ID).Str("username", person.Username).Str("role", string(role)).Msg("person created")
	return person, nil
}

// build validates the input and hashes the password.
func (s *DirectoryService) build(in ports.PersonInput, role domain.Role) (*domain.Person, error) {
	person := &domain.Person{
		Name:        in.Name,
		Username:    in.Username,
		DateOfBirth: in.DateOfBirth,
		Role:        role,
	}
	if err := validateEntity(person); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	person.PasswordHash = hash
	return person, nil
}

package roster

import (
	"context"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=roster
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Participant, error)
	SaveParticipant(ctx context.Context, p *Participant) error
	ListParticipants(ctx context.Context) ([]*Participant, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Lookup finds a previously saved participant by email, so repeat splits can
// reuse contact details. Returns ErrNotFound when the email is unknown.
func (s *Service) Lookup(ctx context.Context, email string) (*Participant, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Save remembers a participant for future splits.
func (s *Service) Save(ctx context.Context, p *Participant) error {
	return s.repo.SaveParticipant(ctx, p)
}

// List returns every known participant.
func (s *Service) List(ctx context.Context) ([]*Participant, error) {
	return s.repo.ListParticipants(ctx)
}

// Import saves every reachable participant, returning them in input order.
// Rows without an email or phone are dropped; a name alone cannot be
// contacted about a share.
func (s *Service) Import(ctx context.Context, participants []Participant) ([]*Participant, error) {
	saved := make([]*Participant, 0, len(participants))

	for i := range participants {
		p := participants[i]
		if !p.Reachable() {
			continue
		}

		if err := s.repo.SaveParticipant(ctx, &p); err != nil {
			return nil, err
		}

		saved = append(saved, &p)
	}

	return saved, nil
}

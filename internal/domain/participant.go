package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant name length bounds.
const (
	MinParticipantNameLength = 2
	MaxParticipantNameLength = 100
)

// Participant is a person attending a trip. The owning trip is fixed at
// creation; uniqueness of (tripId, name) is enforced by the repository.
type Participant struct {
	id        uuid.UUID
	tripID    uuid.UUID
	name      string
	email     string
	notes     string
	createdAt time.Time
}

// ParticipantInput carries the caller-supplied fields for a new participant.
type ParticipantInput struct {
	TripID uuid.UUID
	Name   string
	Email  string
	Notes  string
}

// ParticipantUpdate carries a sparse change-set. TripID is immutable after
// creation and deliberately absent here.
type ParticipantUpdate struct {
	Name  *string
	Email *string
	Notes *string
}

// ParticipantProps is the trusted field set for reconstruction from storage.
type ParticipantProps struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Name      string
	Email     string
	Notes     string
	CreatedAt time.Time
}

// NewParticipant validates the input and returns a new Participant with a
// fresh id and createdAt stamp. Email is trimmed and lowercased.
func NewParticipant(in ParticipantInput) (Participant, error) {
	var fields []FieldError

	fields = append(fields, validateRequiredID("tripId", in.TripID.String())...)

	name, errs := validateName("name", in.Name, MinParticipantNameLength, MaxParticipantNameLength)
	fields = append(fields, errs...)

	email, errs := validateEmail(in.Email)
	fields = append(fields, errs...)

	notes, errs := validateOptionalText("notes", in.Notes, MaxNotesLength)
	fields = append(fields, errs...)

	if err := errorOrNil(fields); err != nil {
		return Participant{}, err
	}

	return Participant{
		id:        uuid.New(),
		tripID:    in.TripID,
		name:      name,
		email:     email,
		notes:     notes,
		createdAt: time.Now().UTC(),
	}, nil
}

// ParticipantFromProps reconstructs a Participant from trusted props without
// re-validating.
func ParticipantFromProps(p ParticipantProps) Participant {
	return Participant{
		id:        p.ID,
		tripID:    p.TripID,
		name:      p.Name,
		email:     p.Email,
		notes:     p.Notes,
		createdAt: p.CreatedAt,
	}
}

// Update returns a copy with the supplied fields replaced. Only supplied
// fields are re-validated.
func (p Participant) Update(ch ParticipantUpdate) (Participant, error) {
	next := p
	var fields []FieldError

	if ch.Name != nil {
		name, errs := validateName("name", *ch.Name, MinParticipantNameLength, MaxParticipantNameLength)
		fields = append(fields, errs...)
		next.name = name
	}
	if ch.Email != nil {
		email, errs := validateEmail(*ch.Email)
		fields = append(fields, errs...)
		next.email = email
	}
	if ch.Notes != nil {
		notes, errs := validateOptionalText("notes", *ch.Notes, MaxNotesLength)
		fields = append(fields, errs...)
		next.notes = notes
	}

	if err := errorOrNil(fields); err != nil {
		return Participant{}, err
	}
	return next, nil
}

func (p Participant) ID() uuid.UUID        { return p.id }
func (p Participant) TripID() uuid.UUID    { return p.tripID }
func (p Participant) Name() string         { return p.name }
func (p Participant) Email() string        { return p.email }
func (p Participant) Notes() string        { return p.notes }
func (p Participant) CreatedAt() time.Time { return p.createdAt }

// Props exports the full field set, e.g. for the mapping layer.
func (p Participant) Props() ParticipantProps {
	return ParticipantProps{
		ID:        p.id,
		TripID:    p.tripID,
		Name:      p.name,
		Email:     p.email,
		Notes:     p.notes,
		CreatedAt: p.createdAt,
	}
}

// Equal reports id equality.
func (p Participant) Equal(o Participant) bool { return p.id == o.id }

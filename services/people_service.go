package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/community-health-tech/social-fitness-server/internal/challenge"
	"github.com/community-health-tech/social-fitness-server/internal/people"
)

type PeopleService struct {
	db *pgxpool.Pool
}

func NewPeopleService(db *pgxpool.Pool) *PeopleService {
	return &PeopleService{db: db}
}

func (s *PeopleService) GetPersonByClerkID(ctx context.Context, clerkID string) (*people.Person, error) {
	query := `
	SELECT id, clerk_id, name, birth_date, created_at
	FROM people
	WHERE clerk_id = $1
	`

	person := &people.Person{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&person.ID,
		&person.ClerkID,
		&person.Name,
		&person.BirthDate,
		&person.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return person, nil
}

func (s *PeopleService) ListPeople(ctx context.Context) ([]people.Person, error) {
	query := `
	SELECT id, clerk_id, name, birth_date, created_at
	FROM people
	ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var persons []people.Person
	for rows.Next() {
		var p people.Person
		if err := rows.Scan(&p.ID, &p.ClerkID, &p.Name, &p.BirthDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}

	return persons, rows.Err()
}

// GetPersonDetail returns a person with their wearable account's last pull
// time, when an account is linked.
func (s *PeopleService) GetPersonDetail(ctx context.Context, personID uuid.UUID) (*people.PersonDetail, error) {
	query := `
	SELECT p.id, p.clerk_id, p.name, p.birth_date, p.created_at, a.last_pull_time
	FROM people p
	LEFT JOIN accounts a ON a.person_id = p.id
	WHERE p.id = $1
	`

	detail := &people.PersonDetail{}
	err := s.db.QueryRow(ctx, query, personID).Scan(
		&detail.Person.ID,
		&detail.Person.ClerkID,
		&detail.Person.Name,
		&detail.Person.BirthDate,
		&detail.Person.CreatedAt,
		&detail.LastPullTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person detail: %w", err)
	}

	return detail, nil
}

// GetGroupForPerson resolves the single group a person belongs to.
func (s *PeopleService) GetGroupForPerson(ctx context.Context, personID uuid.UUID) (*people.Group, error) {
	query := `
	SELECT g.id, g.name, g.created_at
	FROM groups g
	JOIN memberships m ON m.group_id = g.id
	WHERE m.person_id = $1
	`

	group := &people.Group{}
	err := s.db.QueryRow(ctx, query, personID).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// GetMembers returns every person in a group with their role and pronouns.
func (s *PeopleService) GetMembers(ctx context.Context, groupID uuid.UUID) ([]people.Member, error) {
	query := `
	SELECT p.id, p.clerk_id, p.name, p.birth_date, p.created_at,
	       m.role, m.pronoun_personal, m.pronoun_subject, m.pronoun_possessive
	FROM people p
	JOIN memberships m ON m.person_id = p.id
	WHERE m.group_id = $1
	ORDER BY m.created_at
	`

	rows, err := s.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []people.Member
	for rows.Next() {
		var member people.Member
		err := rows.Scan(
			&member.Person.ID,
			&member.Person.ClerkID,
			&member.Person.Name,
			&member.Person.BirthDate,
			&member.Person.CreatedAt,
			&member.Role,
			&member.Pronoun.Personal,
			&member.Pronoun.Pronoun,
			&member.Pronoun.Possessive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

func (s *PeopleService) GetGroupDetail(ctx context.Context, groupID uuid.UUID) (*people.GroupDetail, error) {
	query := `SELECT id, name, created_at FROM groups WHERE id = $1`

	group := people.Group{}
	err := s.db.QueryRow(ctx, query, groupID).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group: %w", challenge.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &people.GroupDetail{Group: group, Members: members}, nil
}

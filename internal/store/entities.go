package store

import (
	"context"
	"fmt"

	"ticket-tracker-backend/internal/model"
	"ticket-tracker-backend/internal/storage"
)

// SystemInput is the payload for creating or updating a monitored system.
type SystemInput struct {
	Name        string
	Description string
	Category    string
	Status      model.SystemStatus
}

// WatchstationInput is the payload for creating or updating a watchstation.
type WatchstationInput struct {
	Name     string
	Location string
	Systems  []string
}

// CircuitInput is the payload for creating or updating a circuit. ID is used
// only on create: circuits imported from external designations keep their
// caller-supplied identifier, an empty ID gets a generated one.
type CircuitInput struct {
	ID          string
	Description string
	Designation string
	Status      model.SystemStatus
	System      string
}

// UserInput is the payload for creating or updating a user record.
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     model.UserRole
}

// GetSystems returns all monitored systems from the cache.
func (s *Store) GetSystems() []model.System {
	return s.GetAllData().Systems
}

// AddSystem registers a new monitored system and persists it.
func (s *Store) AddSystem(ctx context.Context, input SystemInput) (*model.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	if max := data.Settings.MaxSystems; max > 0 && len(data.Systems) >= max {
		return nil, fmt.Errorf("system limit of %d reached", max)
	}
	system := model.System{
		ID:          newEntityID("sys"),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Status:      defaultStatus(input.Status),
	}
	data.Systems = append(data.Systems, system)

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &system, nil
}

// UpdateSystem replaces a system's fields.
func (s *Store) UpdateSystem(ctx context.Context, id string, input SystemInput) (*model.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Systems {
		if data.Systems[i].ID != id {
			continue
		}
		data.Systems[i].Name = input.Name
		data.Systems[i].Description = input.Description
		data.Systems[i].Category = input.Category
		data.Systems[i].Status = defaultStatus(input.Status)
		updated := data.Systems[i]
		if err := s.saveLocked(ctx, data); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("update system %s: %w", id, storage.ErrNotFound)
}

// DeleteSystem removes a system. Tickets referencing it keep their system
// label; the reference does not cascade.
func (s *Store) DeleteSystem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Systems {
		if data.Systems[i].ID != id {
			continue
		}
		data.Systems = append(data.Systems[:i], data.Systems[i+1:]...)
		return s.saveLocked(ctx, data)
	}
	return fmt.Errorf("delete system %s: %w", id, storage.ErrNotFound)
}

// GetWatchstations returns all watchstations from the cache.
func (s *Store) GetWatchstations() []model.Watchstation {
	return s.GetAllData().Watchstations
}

// AddWatchstation registers a watchstation with the systems it covers.
func (s *Store) AddWatchstation(ctx context.Context, input WatchstationInput) (*model.Watchstation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	ws := model.Watchstation{
		ID:       newEntityID("watch"),
		Name:     input.Name,
		Location: input.Location,
		Systems:  append([]string{}, input.Systems...),
	}
	data.Watchstations = append(data.Watchstations, ws)

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	result := ws.Clone()
	return &result, nil
}

// UpdateWatchstation replaces a watchstation's fields.
func (s *Store) UpdateWatchstation(ctx context.Context, id string, input WatchstationInput) (*model.Watchstation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Watchstations {
		if data.Watchstations[i].ID != id {
			continue
		}
		data.Watchstations[i].Name = input.Name
		data.Watchstations[i].Location = input.Location
		data.Watchstations[i].Systems = append([]string{}, input.Systems...)
		updated := data.Watchstations[i].Clone()
		if err := s.saveLocked(ctx, data); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("update watchstation %s: %w", id, storage.ErrNotFound)
}

// DeleteWatchstation removes a watchstation.
func (s *Store) DeleteWatchstation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Watchstations {
		if data.Watchstations[i].ID != id {
			continue
		}
		data.Watchstations = append(data.Watchstations[:i], data.Watchstations[i+1:]...)
		return s.saveLocked(ctx, data)
	}
	return fmt.Errorf("delete watchstation %s: %w", id, storage.ErrNotFound)
}

// GetCircuits returns all circuits from the cache.
func (s *Store) GetCircuits() []model.Circuit {
	return s.GetAllData().Circuits
}

// AddCircuit registers a circuit.
func (s *Store) AddCircuit(ctx context.Context, input CircuitInput) (*model.Circuit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := input.ID
	if id == "" {
		id = newEntityID("ckt")
	}
	data := s.activeLocked()
	for _, c := range data.Circuits {
		if c.ID == id {
			return nil, fmt.Errorf("circuit %s already exists", id)
		}
	}
	circuit := model.Circuit{
		ID:          id,
		Description: input.Description,
		Designation: input.Designation,
		Status:      defaultStatus(input.Status),
		System:      input.System,
	}
	data.Circuits = append(data.Circuits, circuit)

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &circuit, nil
}

// UpdateCircuit replaces a circuit's fields.
func (s *Store) UpdateCircuit(ctx context.Context, id string, input CircuitInput) (*model.Circuit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Circuits {
		if data.Circuits[i].ID != id {
			continue
		}
		data.Circuits[i].Description = input.Description
		data.Circuits[i].Designation = input.Designation
		data.Circuits[i].Status = defaultStatus(input.Status)
		data.Circuits[i].System = input.System
		updated := data.Circuits[i]
		if err := s.saveLocked(ctx, data); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("update circuit %s: %w", id, storage.ErrNotFound)
}

// DeleteCircuit removes a circuit.
func (s *Store) DeleteCircuit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Circuits {
		if data.Circuits[i].ID != id {
			continue
		}
		data.Circuits = append(data.Circuits[:i], data.Circuits[i+1:]...)
		return s.saveLocked(ctx, data)
	}
	return fmt.Errorf("delete circuit %s: %w", id, storage.ErrNotFound)
}

// GetUsers returns all user records from the cache.
func (s *Store) GetUsers() []model.User {
	return s.GetAllData().Users
}

// AddUser registers a user record.
func (s *Store) AddUser(ctx context.Context, input UserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for _, u := range data.Users {
		if u.Username == input.Username {
			return nil, fmt.Errorf("username %s already exists", input.Username)
		}
	}
	user := model.User{
		ID:       newEntityID("user"),
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}
	data.Users = append(data.Users, user)

	if err := s.saveLocked(ctx, data); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces a user's fields. An empty password keeps the stored
// one.
func (s *Store) UpdateUser(ctx context.Context, id string, input UserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Users {
		if data.Users[i].ID != id {
			continue
		}
		data.Users[i].Username = input.Username
		data.Users[i].Email = input.Email
		if input.Password != "" {
			data.Users[i].Password = input.Password
		}
		data.Users[i].Role = input.Role
		updated := data.Users[i]
		if err := s.saveLocked(ctx, data); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("update user %s: %w", id, storage.ErrNotFound)
}

// DeleteUser removes a user record.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.activeLocked()
	for i := range data.Users {
		if data.Users[i].ID != id {
			continue
		}
		data.Users = append(data.Users[:i], data.Users[i+1:]...)
		return s.saveLocked(ctx, data)
	}
	return fmt.Errorf("delete user %s: %w", id, storage.ErrNotFound)
}

func defaultStatus(status model.SystemStatus) model.SystemStatus {
	if status == "" {
		return model.SystemOperational
	}
	return status
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/togetherdine/server/internal/model"
)

// Postgres is the Store backend for PostgreSQL, using pgx directly
// (no ORM). Scored invitations and calendar events are stored as JSONB
// documents so an upsert replaces the whole entity in one statement.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres store and creates its schema if needed.
func NewPostgres(ctx context.Context, db *pgxpool.Pool) (*Postgres, error) {
	p := &Postgres{db: db}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	// One statement per Exec: pgx's extended protocol rejects
	// multi-statement strings.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			wishlist  JSONB NOT NULL DEFAULT '[]',
			visited   JSONB NOT NULL DEFAULT '[]',
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			tags      JSONB NOT NULL DEFAULT '[]',
			rating    DOUBLE PRECISION,
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS availabilities (
			user_id    TEXT NOT NULL,
			position   INT NOT NULL,
			slot_start TIMESTAMPTZ NOT NULL,
			slot_end   TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS invitations (
			id      TEXT PRIMARY KEY,
			payload JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calendar_events (
			invitation_id TEXT PRIMARY KEY,
			payload       JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			invitation_id TEXT NOT NULL,
			user_id       TEXT NOT NULL,
			option_index  INT NOT NULL,
			PRIMARY KEY (invitation_id, user_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) UpsertUser(ctx context.Context, user model.User) error {
	wishlist, err := json.Marshal(user.Wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	visited, err := json.Marshal(user.Visited)
	if err != nil {
		return fmt.Errorf("marshal visited: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`INSERT INTO users (id, name, wishlist, visited, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, wishlist = EXCLUDED.wishlist,
		   visited = EXCLUDED.visited, latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude`,
		user.ID, user.Name, wishlist, visited, user.Latitude, user.Longitude,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (model.User, error) {
	var user model.User
	var wishlist, visited []byte
	err := p.db.QueryRow(ctx,
		`SELECT id, name, wishlist, visited, latitude, longitude FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Name, &wishlist, &visited, &user.Latitude, &user.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := json.Unmarshal(wishlist, &user.Wishlist); err != nil {
		return model.User{}, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	if err := json.Unmarshal(visited, &user.Visited); err != nil {
		return model.User{}, fmt.Errorf("unmarshal visited: %w", err)
	}
	return user, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, wishlist, visited, latitude, longitude FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			user              model.User
			wishlist, visited []byte
		)
		if err := rows.Scan(&user.ID, &user.Name, &wishlist, &visited, &user.Latitude, &user.Longitude); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if err := json.Unmarshal(wishlist, &user.Wishlist); err != nil {
			return nil, fmt.Errorf("unmarshal wishlist: %w", err)
		}
		if err := json.Unmarshal(visited, &user.Visited); err != nil {
			return nil, fmt.Errorf("unmarshal visited: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (p *Postgres) UpsertRestaurant(ctx context.Context, restaurant model.Restaurant) error {
	tags, err := json.Marshal(restaurant.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`INSERT INTO restaurants (id, name, tags, rating, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, tags = EXCLUDED.tags, rating = EXCLUDED.rating,
		   latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`,
		restaurant.ID, restaurant.Name, tags, restaurant.Rating,
		restaurant.Latitude, restaurant.Longitude,
	)
	if err != nil {
		return fmt.Errorf("upsert restaurant: %w", err)
	}
	return nil
}

func (p *Postgres) GetRestaurant(ctx context.Context, id string) (model.Restaurant, error) {
	var (
		restaurant model.Restaurant
		tags       []byte
	)
	err := p.db.QueryRow(ctx,
		`SELECT id, name, tags, rating, latitude, longitude FROM restaurants WHERE id = $1`,
		id,
	).Scan(&restaurant.ID, &restaurant.Name, &tags, &restaurant.Rating,
		&restaurant.Latitude, &restaurant.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Restaurant{}, ErrNotFound
		}
		return model.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	if err := json.Unmarshal(tags, &restaurant.Tags); err != nil {
		return model.Restaurant{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return restaurant, nil
}

func (p *Postgres) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, tags, rating, latitude, longitude FROM restaurants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		var (
			restaurant model.Restaurant
			tags       []byte
		)
		if err := rows.Scan(&restaurant.ID, &restaurant.Name, &tags, &restaurant.Rating,
			&restaurant.Latitude, &restaurant.Longitude); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		if err := json.Unmarshal(tags, &restaurant.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

// SetAvailabilities replaces the user's whole sequence inside one
// transaction so readers never see a partial replacement.
func (p *Postgres) SetAvailabilities(ctx context.Context, userID string, slots []model.TimeSlot) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM availabilities WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear availabilities: %w", err)
	}
	for i, slot := range slots {
		if _, err = tx.Exec(ctx,
			`INSERT INTO availabilities (user_id, position, slot_start, slot_end)
			 VALUES ($1, $2, $3, $4)`,
			userID, i, slot.Start, slot.End,
		); err != nil {
			return fmt.Errorf("insert availability: %w", err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) GetAvailabilities(ctx context.Context, userID string) ([]model.TimeSlot, error) {
	rows, err := p.db.Query(ctx,
		`SELECT slot_start, slot_end FROM availabilities WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get availabilities: %w", err)
	}
	defer rows.Close()

	slots := []model.TimeSlot{}
	for rows.Next() {
		var slot model.TimeSlot
		if err := rows.Scan(&slot.Start, &slot.End); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (p *Postgres) UpsertInvitation(ctx context.Context, invitation model.Invitation) error {
	payload, err := json.Marshal(invitation)
	if err != nil {
		return fmt.Errorf("marshal invitation: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`INSERT INTO invitations (id, payload) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		invitation.ID, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert invitation: %w", err)
	}
	return nil
}

func (p *Postgres) GetInvitation(ctx context.Context, id string) (model.Invitation, error) {
	var payload []byte
	err := p.db.QueryRow(ctx, `SELECT payload FROM invitations WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Invitation{}, ErrNotFound
		}
		return model.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	var invitation model.Invitation
	if err := json.Unmarshal(payload, &invitation); err != nil {
		return model.Invitation{}, fmt.Errorf("unmarshal invitation: %w", err)
	}
	return invitation, nil
}

func (p *Postgres) ListInvitations(ctx context.Context) ([]model.Invitation, error) {
	rows, err := p.db.Query(ctx, `SELECT payload FROM invitations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		var invitation model.Invitation
		if err := json.Unmarshal(payload, &invitation); err != nil {
			return nil, fmt.Errorf("unmarshal invitation: %w", err)
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (p *Postgres) SaveCalendarEvent(ctx context.Context, event model.CalendarEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal calendar event: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`INSERT INTO calendar_events (invitation_id, payload) VALUES ($1, $2)
		 ON CONFLICT (invitation_id) DO UPDATE SET payload = EXCLUDED.payload`,
		event.InvitationID, payload,
	)
	if err != nil {
		return fmt.Errorf("save calendar event: %w", err)
	}
	return nil
}

func (p *Postgres) GetCalendarEvent(ctx context.Context, invitationID string) (model.CalendarEvent, error) {
	var payload []byte
	err := p.db.QueryRow(ctx,
		`SELECT payload FROM calendar_events WHERE invitation_id = $1`, invitationID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CalendarEvent{}, ErrNotFound
		}
		return model.CalendarEvent{}, fmt.Errorf("get calendar event: %w", err)
	}
	var event model.CalendarEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("unmarshal calendar event: %w", err)
	}
	return event, nil
}

func (p *Postgres) RecordVote(ctx context.Context, vote model.Vote) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO votes (invitation_id, user_id, option_index) VALUES ($1, $2, $3)
		 ON CONFLICT (invitation_id, user_id) DO UPDATE SET option_index = EXCLUDED.option_index`,
		vote.InvitationID, vote.UserID, vote.OptionIndex,
	)
	if err != nil {
		return fmt.Errorf("record vote: %w", err)
	}
	return nil
}

func (p *Postgres) GetVotes(ctx context.Context, invitationID string) ([]model.Vote, error) {
	rows, err := p.db.Query(ctx,
		`SELECT invitation_id, user_id, option_index FROM votes
		 WHERE invitation_id = $1 ORDER BY user_id`,
		invitationID,
	)
	if err != nil {
		return nil, fmt.Errorf("get votes: %w", err)
	}
	defer rows.Close()

	var votes []model.Vote
	for rows.Next() {
		var vote model.Vote
		if err := rows.Scan(&vote.InvitationID, &vote.UserID, &vote.OptionIndex); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}

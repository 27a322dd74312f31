package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a design does not exist or belongs to
// another user.
var ErrNotFound = errors.New("not found")

type Design struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result,omitempty"`
	Passes    bool            `json:"passes"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

type DesignRepository interface {
	SaveDesign(ctx context.Context, d Design) (int, error)
	ListDesigns(ctx context.Context, userID int) ([]Design, error)
	GetDesign(ctx context.Context, userID, id int) (Design, error)
	DeleteDesign(ctx context.Context, userID, id int) error
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetByLogin returns a zero id and empty hash for an unknown login.
func (r *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveDesign(ctx context.Context, d Design) (int, error) {
	var id int
	query := `INSERT INTO designs (user_id, name, input, result, passes)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.Name, []byte(d.Input), []byte(d.Result), d.Passes).Scan(&id)
	return id, err
}

// ListDesigns returns the user's designs newest first, without results.
func (r *PostgresUserRepository) ListDesigns(ctx context.Context, userID int) ([]Design, error) {
	query := `SELECT id, user_id, name, input, passes, created_at
		FROM designs WHERE user_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		var d Design
		var input []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &input, &d.Passes, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Input = input
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (r *PostgresUserRepository) GetDesign(ctx context.Context, userID, id int) (Design, error) {
	var d Design
	var input, result []byte
	query := `SELECT id, user_id, name, input, result, passes, created_at
		FROM designs WHERE id=$1 AND user_id=$2`
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&d.ID, &d.UserID, &d.Name, &input, &result, &d.Passes, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, ErrNotFound
	}
	if err != nil {
		return Design{}, err
	}
	d.Input, d.Result = input, result
	return d, nil
}

func (r *PostgresUserRepository) DeleteDesign(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM designs WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

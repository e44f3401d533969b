package store

import (
	"context"
	"time"

	"bankoffice/internal/models"
)

const dateLayout = "2006-01-02"

type CustomerStore struct {
	db DB
}

type customerRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	CPF          string    `db:"cpf"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	DateOfBirth  time.Time `db:"date_of_birth"`
	Street       string    `db:"address_street"`
	Number       string    `db:"address_number"`
	Complement   string    `db:"address_complement"`
	Neighborhood string    `db:"address_neighborhood"`
	City         string    `db:"address_city"`
	State        string    `db:"address_state"`
	ZipCode      string    `db:"address_zip_code"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r customerRow) toModel() models.Customer {
	return models.Customer{
		ID:          r.ID,
		Name:        r.Name,
		CPF:         r.CPF,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth.Format(dateLayout),
		Address: models.Address{
			Street:       r.Street,
			Number:       r.Number,
			Complement:   r.Complement,
			Neighborhood: r.Neighborhood,
			City:         r.City,
			State:        r.State,
			ZipCode:      r.ZipCode,
		},
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

const customerColumns = `id, name, cpf, email, phone, date_of_birth,
		       address_street, address_number, address_complement, address_neighborhood,
		       address_city, address_state, address_zip_code, password_hash, created_at`

func NewCustomerStore(db DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Create(ctx context.Context, tx Execer, c models.Customer) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, cpf, email, phone, date_of_birth,
		                       address_street, address_number, address_complement, address_neighborhood,
		                       address_city, address_state, address_zip_code, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, c.ID, c.Name, c.CPF, c.Email, c.Phone, c.DateOfBirth,
		c.Address.Street, c.Address.Number, c.Address.Complement, c.Address.Neighborhood,
		c.Address.City, c.Address.State, c.Address.ZipCode, c.PasswordHash)
	return err
}

// Update rewrites the contact fields; cpf and password are left alone.
func (s *CustomerStore) Update(ctx context.Context, tx Execer, c models.Customer) (int64, error) {
	return affected(tx.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, date_of_birth = $4,
		    address_street = $5, address_number = $6, address_complement = $7,
		    address_neighborhood = $8, address_city = $9, address_state = $10, address_zip_code = $11
		WHERE id = $12
	`, c.Name, c.Email, c.Phone, c.DateOfBirth,
		c.Address.Street, c.Address.Number, c.Address.Complement,
		c.Address.Neighborhood, c.Address.City, c.Address.State, c.Address.ZipCode, c.ID))
}

func (s *CustomerStore) Delete(ctx context.Context, tx Execer, id string) (int64, error) {
	return affected(tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id))
}

func (s *CustomerStore) GetByID(ctx context.Context, id string) (models.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		return models.Customer{}, err
	}
	return row.toModel(), nil
}

func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (models.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	if err != nil {
		return models.Customer{}, err
	}
	return row.toModel(), nil
}

func (s *CustomerStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id)
}

func (s *CustomerStore) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM customers WHERE cpf = $1)`, cpf)
}

func (s *CustomerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)`, email)
}

func (s *CustomerStore) List(ctx context.Context, limit, offset int) ([]models.Customer, error) {
	var rows []customerRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	customers := make([]models.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toModel())
	}
	return customers, nil
}

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"credit-application-system/internal/domain/customer"
	"credit-application-system/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var customerColumns = []string{
	"id", "first_name", "last_name", "cpf", "email", "income", "password", "zip_code", "street", "created_at", "updated_at",
}

func buildCustomerRow() *customer.Customer {
	now := time.Now()
	return &customer.Customer{
		ID:        1,
		FirstName: "Mislene",
		LastName:  "Silva",
		CPF:       "75480224093",
		Email:     "mislene@email.com",
		Income:    2000.0,
		Password:  "secret123",
		Address:   customer.Address{ZipCode: "000000", Street: "Rua da Mislene, 123"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

const insertCustomerQuery = `
        INSERT INTO customers (first_name, last_name, cpf, email, income, password, zip_code, street, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at`

func TestSaveNewCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := buildCustomerRow()
	cust.ID = 0
	now := time.Now()

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).WithArgs(
		cust.FirstName,
		cust.LastName,
		cust.CPF,
		cust.Email,
		cust.Income,
		cust.Password,
		cust.Address.ZipCode,
		cust.Address.Street,
	).WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(1), now, now))

	err := repo.Save(ctx, cust)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), cust.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNewCustomerWhenCPFAlreadyExists(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := buildCustomerRow()
	cust.ID = 0
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "customers_cpf_key",
		Detail:         "Key (cpf)=(75480224093) already exists.",
	}

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).WithArgs(
		cust.FirstName,
		cust.LastName,
		cust.CPF,
		cust.Email,
		cust.Income,
		cust.Password,
		cust.Address.ZipCode,
		cust.Address.Street,
	).WillReturnError(pgErr)

	err := repo.Save(ctx, cust)

	assert.Error(t, err)
	assert.ErrorIs(t, err, customer.ErrDuplicateCPF)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNewCustomerWhenOtherConstraintViolated(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := buildCustomerRow()
	cust.ID = 0
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"}

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).WithArgs(
		cust.FirstName,
		cust.LastName,
		cust.CPF,
		cust.Email,
		cust.Income,
		cust.Password,
		cust.Address.ZipCode,
		cust.Address.Street,
	).WillReturnError(pgErr)

	err := repo.Save(ctx, cust)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NotErrorIs(t, err, customer.ErrDuplicateCPF)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := buildCustomerRow()

	query := `
        UPDATE customers
        SET first_name = $1,
            last_name = $2,
            income = $3,
            zip_code = $4,
            street = $5,
            updated_at = NOW()
        WHERE id = $6`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
		cust.FirstName,
		cust.LastName,
		cust.Income,
		cust.Address.ZipCode,
		cust.Address.Street,
		cust.ID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Save(ctx, cust)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := buildCustomerRow()

	mockPool.ExpectExec("UPDATE customers").WithArgs(
		cust.FirstName,
		cust.LastName,
		cust.Income,
		cust.Address.ZipCode,
		cust.Address.Street,
		cust.ID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Save(ctx, cust)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	expected := buildCustomerRow()

	mockPool.ExpectQuery("SELECT (.+) FROM customers").WithArgs(expected.ID).
		WillReturnRows(pgxmock.NewRows(customerColumns).AddRow(
			expected.ID,
			expected.FirstName,
			expected.LastName,
			expected.CPF,
			expected.Email,
			expected.Income,
			expected.Password,
			expected.Address.ZipCode,
			expected.Address.Street,
			expected.CreatedAt,
			expected.UpdatedAt,
		))

	cust, err := repo.FindByID(ctx, expected.ID)

	assert.NoError(t, err)
	assert.NotNil(t, cust)
	if cust != nil {
		assert.Equal(t, expected.CPF, cust.CPF)
		assert.Equal(t, expected.Address.Street, cust.Address.Street)
	}
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM customers").WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(customerColumns))

	cust, err := repo.FindByID(ctx, int64(99))

	assert.Error(t, err)
	assert.Nil(t, cust)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	first := buildCustomerRow()
	second := buildCustomerRow()
	second.ID = 2
	second.CPF = "28638759077"

	mockPool.ExpectQuery("SELECT (.+) FROM customers").
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow(first.ID, first.FirstName, first.LastName, first.CPF, first.Email, first.Income,
				first.Password, first.Address.ZipCode, first.Address.Street, first.CreatedAt, first.UpdatedAt).
			AddRow(second.ID, second.FirstName, second.LastName, second.CPF, second.Email, second.Income,
				second.Password, second.Address.ZipCode, second.Address.Street, second.CreatedAt, second.UpdatedAt))

	customers, err := repo.FindAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM customers").
		WillReturnRows(pgxmock.NewRows(customerColumns))

	customers, err := repo.FindAll(ctx)

	assert.NoError(t, err)
	assert.Empty(t, customers)
	assert.NotNil(t, customers)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM customers WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(ctx, int64(1))

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM customers WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, int64(99))

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	t.Run("nil error passes through", func(t *testing.T) {
		assert.NoError(t, translateDBError(nil, logger))
	})

	t.Run("unique violation maps to already exists", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "customers_cpf_key"}
		err := translateDBError(pgErr, logger)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "customers_cpf_key")
	})

	t.Run("other pg error maps to database error", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
		err := translateDBError(pgErr, logger)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})

	t.Run("generic error wraps database sentinel", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := translateDBError(cause, logger)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.ErrorIs(t, err, cause)
	})
}

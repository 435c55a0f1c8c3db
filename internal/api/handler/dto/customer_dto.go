package dto

import (
	"fmt"
	"time"

	"credit-application-system/internal/domain/customer"
)

type CreateCustomerRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	CPF       string  `json:"cpf"`
	Income    float64 `json:"income"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	ZipCode   string  `json:"zipCode"`
	Street    string  `json:"street"`
}

func (r *CreateCustomerRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("firstName must not be empty")
	}
	if r.LastName == "" {
		return fmt.Errorf("lastName must not be empty")
	}
	if !isValidCPF(r.CPF) {
		return fmt.Errorf("cpf must be an 11 digit number")
	}
	if r.Income < 0 {
		return fmt.Errorf("income must not be negative")
	}
	if r.Email == "" {
		return fmt.Errorf("email must not be empty")
	}
	if r.Password == "" {
		return fmt.Errorf("password must not be empty")
	}
	return nil
}

func isValidCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	for _, c := range cpf {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	return customer.NewCustomer(
		r.FirstName,
		r.LastName,
		r.CPF,
		r.Email,
		r.Password,
		r.Income,
		customer.Address{ZipCode: r.ZipCode, Street: r.Street},
	)
}

// UpdateCustomerRequest is a partial update; absent fields stay untouched.
// CPF, email and password cannot be changed through this endpoint.
type UpdateCustomerRequest struct {
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Income    *float64 `json:"income,omitempty"`
	ZipCode   *string  `json:"zipCode,omitempty"`
	Street    *string  `json:"street,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if r.FirstName != nil && *r.FirstName == "" {
		return fmt.Errorf("firstName must not be empty")
	}
	if r.LastName != nil && *r.LastName == "" {
		return fmt.Errorf("lastName must not be empty")
	}
	if r.Income != nil && *r.Income < 0 {
		return fmt.Errorf("income must not be negative")
	}
	return nil
}

func (r *UpdateCustomerRequest) ToPatch() customer.UpdatePatch {
	return customer.UpdatePatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Income:    r.Income,
		ZipCode:   r.ZipCode,
		Street:    r.Street,
	}
}

type CustomerResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	CPF       string  `json:"cpf"`
	Email     string  `json:"email"`
	Income    float64 `json:"income"`
	ZipCode   string  `json:"zipCode"`
	Street    string  `json:"street"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        cust.ID,
		FirstName: cust.FirstName,
		LastName:  cust.LastName,
		CPF:       cust.CPF,
		Email:     cust.Email,
		Income:    cust.Income,
		ZipCode:   cust.Address.ZipCode,
		Street:    cust.Address.Street,
	}
}

type ErrorResponse struct {
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Exception string    `json:"exception"`
	Details   []string  `json:"details"`
}

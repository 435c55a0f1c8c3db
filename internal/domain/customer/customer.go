package customer

import "time"

// Address is embedded in Customer; the customers table stores it flat
// (zip_code, street columns).
type Address struct {
	ZipCode string `json:"zipCode"`
	Street  string `json:"street"`
}

type Customer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CPF       string    `json:"cpf"`
	Email     string    `json:"email"`
	Income    float64   `json:"income"`
	Password  string    `json:"-"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCustomer(firstName, lastName, cpf, email, password string, income float64, address Address) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		CPF:       cpf,
		Email:     email,
		Income:    income,
		Password:  password,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdatePatch holds the partially provided fields of a customer update.
// Nil pointers mean "leave unchanged"; cpf, email and password are never
// patchable.
type UpdatePatch struct {
	FirstName *string
	LastName  *string
	Income    *float64
	ZipCode   *string
	Street    *string
}

func (c *Customer) Apply(patch UpdatePatch) {
	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.Income != nil {
		c.Income = *patch.Income
	}
	if patch.ZipCode != nil {
		c.Address.ZipCode = *patch.ZipCode
	}
	if patch.Street != nil {
		c.Address.Street = *patch.Street
	}
	c.UpdatedAt = time.Now()
}

// Package person holds the identity fields students and professors share.
package person

import (
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// Document types accepted by the school.
const (
	DocCitizenID = "CC" // cedula de ciudadania
	DocIdentity  = "TI" // tarjeta de identidad
	DocForeignID = "CE"
	DocPassport  = "PA"
)

var DocumentTypes = []string{DocCitizenID, DocIdentity, DocForeignID, DocPassport}

type Person struct {
	ID             int64  `json:"id"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Active         bool   `json:"active"`
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Person) Document() string {
	return p.DocumentType + " " + p.DocumentNumber
}

// Form carries the shared fields of a create or update payload.
type Form struct {
	DocumentType   string `json:"documentType" form:"documentType" validate:"required,oneof=CC TI CE PA"`
	DocumentNumber string `json:"documentNumber" form:"documentNumber" validate:"required,alphanum,min=5,max=20"`
	FirstName      string `json:"firstName" form:"firstName" validate:"required,notblank,max=100"`
	LastName       string `json:"lastName" form:"lastName" validate:"required,notblank,max=100"`
	Email          string `json:"email" form:"email" validate:"required,email,max=100"`
	Phone          string `json:"phone" form:"phone" validate:"omitempty,numeric,min=7,max=15"`
	Address        string `json:"address" form:"address" validate:"max=200"`
	Active         bool   `json:"active" form:"active"`
}

func FormFrom(p Person) Form {
	return Form{
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		Address:        p.Address,
		Active:         p.Active,
	}
}

func (f *Form) Clean() {
	f.DocumentType = strings.ToUpper(core.CleanString(f.DocumentType))
	f.DocumentNumber = core.CleanString(f.DocumentNumber)
	f.FirstName = core.CleanString(f.FirstName)
	f.LastName = core.CleanString(f.LastName)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Phone = strings.NewReplacer(" ", "", "-", "").Replace(core.CleanString(f.Phone))
	f.Address = core.CleanString(f.Address)
}

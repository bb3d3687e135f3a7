// file: internals/features/schools/dto/school_dto.go
package dto

import "schoolchamps_backend/internals/features/schools/model"

type CreateSchoolRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=160"`
	Address string `json:"address" validate:"omitempty,max=500"`
	City    string `json:"city" validate:"omitempty,max=80"`
	State   string `json:"state" validate:"omitempty,max=80"`
	Pincode string `json:"pincode" validate:"omitempty,max=12"`

	ContactEmail  string `json:"contact_email" validate:"omitempty,email,max=160"`
	ContactPhone  string `json:"contact_phone" validate:"omitempty,max=24"`
	PrincipalName string `json:"principal_name" validate:"omitempty,max=120"`
	Website       string `json:"website" validate:"omitempty,url"`
}

type UpdateSchoolRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=160"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	City    *string `json:"city" validate:"omitempty,max=80"`
	State   *string `json:"state" validate:"omitempty,max=80"`
	Pincode *string `json:"pincode" validate:"omitempty,max=12"`

	ContactEmail  *string `json:"contact_email" validate:"omitempty,email,max=160"`
	ContactPhone  *string `json:"contact_phone" validate:"omitempty,max=24"`
	PrincipalName *string `json:"principal_name" validate:"omitempty,max=120"`
	Website       *string `json:"website" validate:"omitempty,url"`
}

func (r *CreateSchoolRequest) ToModel() model.SchoolModel {
	m := model.SchoolModel{
		SchoolName:          r.Name,
		SchoolAddress:       r.Address,
		SchoolCity:          r.City,
		SchoolState:         r.State,
		SchoolPincode:       r.Pincode,
		SchoolContactEmail:  r.ContactEmail,
		SchoolContactPhone:  r.ContactPhone,
		SchoolPrincipalName: r.PrincipalName,
		SchoolIsActive:      true,
	}
	if r.Website != "" {
		m.SchoolWebsite = &r.Website
	}
	return m
}

func (r *UpdateSchoolRequest) ApplyToModel(m *model.SchoolModel) {
	if r.Name != nil {
		m.SchoolName = *r.Name
	}
	if r.Address != nil {
		m.SchoolAddress = *r.Address
	}
	if r.City != nil {
		m.SchoolCity = *r.City
	}
	if r.State != nil {
		m.SchoolState = *r.State
	}
	if r.Pincode != nil {
		m.SchoolPincode = *r.Pincode
	}
	if r.ContactEmail != nil {
		m.SchoolContactEmail = *r.ContactEmail
	}
	if r.ContactPhone != nil {
		m.SchoolContactPhone = *r.ContactPhone
	}
	if r.PrincipalName != nil {
		m.SchoolPrincipalName = *r.PrincipalName
	}
	if r.Website != nil {
		m.SchoolWebsite = r.Website
	}
}

package types

// CreateCompanyRequest registers a hiring company.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	CNPJ string `json:"cnpj" validate:"required,cnpj"`
}

package handlers

import (
	"net/http"

	"bankoffice/internal/models"
	"bankoffice/internal/services"

	"github.com/go-chi/chi/v5"
)

type addressRequest struct {
	Street       string `json:"street" validate:"required,max=120"`
	Number       string `json:"number" validate:"required,max=20"`
	Complement   string `json:"complement" validate:"max=120"`
	Neighborhood string `json:"neighborhood" validate:"required,max=80"`
	City         string `json:"city" validate:"required,max=80"`
	State        string `json:"state" validate:"required,max=40"`
	ZipCode      string `json:"zip_code" validate:"required,max=12"`
}

func (a addressRequest) model() models.Address {
	return models.Address{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
	}
}

type createCustomerRequest struct {
	Name        string         `json:"name" validate:"required,max=120"`
	CPF         string         `json:"cpf" validate:"required"`
	Email       string         `json:"email" validate:"required,email"`
	Phone       string         `json:"phone" validate:"required,max=30"`
	DateOfBirth string         `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     addressRequest `json:"address" validate:"required"`
	Password    string         `json:"password" validate:"required,min=8"`
}

type updateCustomerRequest struct {
	Name        string         `json:"name" validate:"required,max=120"`
	Email       string         `json:"email" validate:"required,email"`
	Phone       string         `json:"phone" validate:"required,max=30"`
	DateOfBirth string         `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     addressRequest `json:"address" validate:"required"`
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	customer, err := h.customers.Create(r.Context(), services.CustomerInput{
		Name:        req.Name,
		CPF:         req.CPF,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address.model(),
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageParams(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	customers, err := h.customers.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(customers))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := decode(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	customer, err := h.customers.Update(r.Context(), chi.URLParam(r, "id"), services.CustomerUpdate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address.model(),
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"bankoffice/internal/apperr"
	"bankoffice/internal/models"
	"bankoffice/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountPayload() map[string]any {
	return map[string]any{
		"account_number": "12345",
		"agency":         "0001",
		"balance":        "150.25",
		"account_type":   "CHECKING",
		"account_status": "ACTIVE",
		"customer_id":    "c1",
	}
}

func TestCreateAccountAndAlias(t *testing.T) {
	var inputs []services.AccountInput
	h := newTestHandler(testDeps{accounts: stubAccountService{
		createFn: func(_ context.Context, in services.AccountInput) (models.Account, error) {
			inputs = append(inputs, in)
			return models.Account{ID: "a1", AccountNumber: in.AccountNumber, Balance: in.Balance}, nil
		},
	}})

	for _, path := range []string{"/accounts", "/accounts/newaccount"} {
		rr := serve(t, h, http.MethodPost, path, accountPayload(), true)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	require.Len(t, inputs, 2)
	assert.True(t, inputs[0].Balance.Equal(decimal.RequireFromString("150.25")))
	assert.Equal(t, models.AccountChecking, inputs[0].AccountType)
}

func TestCreateAccountRejectsUnknownType(t *testing.T) {
	h := newTestHandler(testDeps{})
	payload := accountPayload()
	payload["account_type"] = "CRYPTO"
	payload["balance"] = "1.005"

	rr := serve(t, h, http.MethodPost, "/accounts", payload, true)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rr, &body)
	assert.Contains(t, body.Fields, "account_type")
	assert.NotContains(t, body.Fields, "balance")
}

func TestCreateAccountAcceptsNegativeBalance(t *testing.T) {
	var got services.AccountInput
	h := newTestHandler(testDeps{accounts: stubAccountService{
		createFn: func(_ context.Context, in services.AccountInput) (models.Account, error) {
			got = in
			return models.Account{ID: "a1", Balance: in.Balance}, nil
		},
	}})
	payload := accountPayload()
	payload["balance"] = "-40.10"

	rr := serve(t, h, http.MethodPost, "/accounts", payload, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("-40.10")))
}

func TestCreateAccountErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Duplicate("account_number", "12345"), http.StatusConflict},
		{apperr.NotFound("customer", "c404"), http.StatusNotFound},
		{&apperr.InvalidReferenceError{Field: "customer_id"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		h := newTestHandler(testDeps{accounts: stubAccountService{
			createFn: func(context.Context, services.AccountInput) (models.Account, error) {
				return models.Account{}, tc.err
			},
		}})
		rr := serve(t, h, http.MethodPost, "/accounts", accountPayload(), true)
		assert.Equal(t, tc.want, rr.Code, tc.err.Error())
	}
}

func TestGetAccountAbsentIs404(t *testing.T) {
	h := newTestHandler(testDeps{accounts: stubAccountService{
		findByIDFn: func(context.Context, string) (models.Account, bool, error) {
			return models.Account{}, false, nil
		},
	}})

	rr := serve(t, h, http.MethodGet, "/accounts/a1", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListAccountsFiltersByCustomer(t *testing.T) {
	h := newTestHandler(testDeps{accounts: stubAccountService{
		listFn: func(_ context.Context, customerID string, _, _ int) ([]models.Account, error) {
			assert.Equal(t, "c7", customerID)
			return []models.Account{{ID: "a1"}}, nil
		},
	}})

	rr := serve(t, h, http.MethodGet, "/accounts?customer_id=c7", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var accounts []models.Account
	decodeBody(t, rr, &accounts)
	assert.Len(t, accounts, 1)
}

func TestUpdateAndDeleteAccountAliases(t *testing.T) {
	updated := []string{}
	deleted := []string{}
	h := newTestHandler(testDeps{accounts: stubAccountService{
		updateFn: func(_ context.Context, id string, in services.AccountInput) (models.Account, error) {
			updated = append(updated, id)
			return models.Account{ID: id}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}})

	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodPut, "/accounts/a1", accountPayload(), true).Code)
	assert.Equal(t, http.StatusOK, serve(t, h, http.MethodPut, "/accounts/updateAccount/a2", accountPayload(), true).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodDelete, "/accounts/a1", nil, true).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodDelete, "/accounts/deleteAccount/a2", nil, true).Code)
	assert.Equal(t, []string{"a1", "a2"}, updated)
	assert.Equal(t, []string{"a1", "a2"}, deleted)
}

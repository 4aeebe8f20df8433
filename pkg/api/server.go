package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the handlers mounted in HandlerFromMux.
type ServerInterface interface {
	// (POST /api/accounts)
	CreateAccount(w http.ResponseWriter, r *http.Request)
	// (GET /api/accounts/{accountId})
	GetAccount(w http.ResponseWriter, r *http.Request, accountId int64)
	// (DELETE /api/accounts/{accountId})
	CloseAccount(w http.ResponseWriter, r *http.Request, accountId int64)
	// (PUT /api/accounts/{accountId}/limits)
	UpdateAccountLimits(w http.ResponseWriter, r *http.Request, accountId int64)
	// (POST /api/accounts/{accountId}/deposit)
	Deposit(w http.ResponseWriter, r *http.Request, accountId int64)
	// (POST /api/accounts/{accountId}/withdraw)
	Withdraw(w http.ResponseWriter, r *http.Request, accountId int64)
	// (POST /api/transfers)
	Transfer(w http.ResponseWriter, r *http.Request)
	// (GET /api/account-numbers/{accountNo}/transactions)
	ListTransactionsByAccountNo(w http.ResponseWriter, r *http.Request, accountNo string, params ListTransactionsParams)
}

// InvalidParamFormatError is passed to the error handler when a path or
// query parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ErrorHandlerFunc writes the response for a parameter binding failure.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// ServerInterfaceWrapper binds path and query parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc ErrorHandlerFunc
}

func (siw *ServerInterfaceWrapper) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var accountId int64
	err := runtime.BindStyledParameterWithOptions("simple", "accountId", chi.URLParam(r, "accountId"), &accountId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "accountId", Err: err})
		return 0, false
	}
	return accountId, true
}

func (siw *ServerInterfaceWrapper) withAccountID(fn func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountId, ok := siw.accountID(w, r)
		if !ok {
			return
		}
		fn(w, r, accountId)
	}
}

// ListTransactionsByAccountNo binds accountNo and the paging parameters.
func (siw *ServerInterfaceWrapper) ListTransactionsByAccountNo(w http.ResponseWriter, r *http.Request) {
	var accountNo string
	err := runtime.BindStyledParameterWithOptions("simple", "accountNo", chi.URLParam(r, "accountNo"), &accountNo,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "accountNo", Err: err})
		return
	}

	var params ListTransactionsParams
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "page", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", r.URL.Query(), &params.PageSize); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "pageSize", Err: err})
		return
	}

	siw.Handler.ListTransactionsByAccountNo(w, r, accountNo, params)
}

// HandlerFromMux mounts si on r and returns r.
func HandlerFromMux(si ServerInterface, r chi.Router, errorHandler ErrorHandlerFunc) http.Handler {
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{Handler: si, ErrorHandlerFunc: errorHandler}

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", si.CreateAccount)
		r.Get("/accounts/{accountId}", wrapper.withAccountID(si.GetAccount))
		r.Delete("/accounts/{accountId}", wrapper.withAccountID(si.CloseAccount))
		r.Put("/accounts/{accountId}/limits", wrapper.withAccountID(si.UpdateAccountLimits))
		r.Post("/accounts/{accountId}/deposit", wrapper.withAccountID(si.Deposit))
		r.Post("/accounts/{accountId}/withdraw", wrapper.withAccountID(si.Withdraw))
		r.Post("/transfers", si.Transfer)
		r.Get("/account-numbers/{accountNo}/transactions", wrapper.ListTransactionsByAccountNo)
	})
	return r
}

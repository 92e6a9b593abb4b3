package service

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("not allowed for this account")
	ErrActionNotAllowed     = errors.New("action not available for this order")
	ErrActionInFlight       = errors.New("action already in progress")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingShipping      = errors.New("shipping address is incomplete")
	ErrMissingPaymentMethod = errors.New("payment method not selected")
	ErrUnknownGateway       = errors.New("unknown payment gateway")
	ErrUnknownCurrency      = errors.New("unknown currency")
	ErrInvalidPackaging     = errors.New("invalid packaging option")
	ErrValidation           = errors.New("validation failed")
	ErrPaymentDeclined      = errors.New("payment declined")
)

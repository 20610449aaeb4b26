// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq is the request body for the /signup endpoint. Gin's binding
// tags enforce the email format and minimum password length.
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginReq is the request body for the /login endpoint.
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResp carries the signed JWT back to the client.
type TokenResp struct {
	Token string `json:"token"`
}

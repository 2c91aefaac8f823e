package models

import "time"

type Client struct {
	ID        int       `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Phone     string    `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Email     string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// Clone returns a copy of the client.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

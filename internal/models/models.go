// Package models declares the sample records returned by the API.
package models

// B2CCustomer is a private (business-to-consumer) customer.
type B2CCustomer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is an item that can be purchased by a customer.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Order is a collection of products a customer has purchased.
type Order struct {
	ID         int   `json:"id"`
	CustomerID int   `json:"customerId"`
	ProductIDs []int `json:"productIds"`
}

package domain

import "time"

// Listing is a shop product managed from the admin dashboard.
type Listing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CustomRequest is a custom-order intake submission.
type CustomRequest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"projectType"`
	Description string    `json:"description"`
	Deadline    string    `json:"deadline,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContactMessage is a contact form submission.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is the result of a simulated checkout. It is not persisted.
type Order struct {
	Reference     string       `json:"reference"`
	Items         []CartItem   `json:"items"`
	Total         int64        `json:"total"`
	Currency      string       `json:"currency"`
	PaymentMethod string       `json:"paymentMethod"`
	Contact       OrderContact `json:"contact"`
	PlacedAt      time.Time    `json:"placedAt"`
}

// OrderContact is the delivery contact captured at checkout.
type OrderContact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

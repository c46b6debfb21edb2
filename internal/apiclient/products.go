package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type Product struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Price       Amount `json:"price"`
	Currency    string `json:"currency"`
	Image       string `json:"image,omitempty"`
	Category    Label  `json:"category,omitempty"`
	Published   bool   `json:"published"`
}

type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

type Media struct {
	ID        ID     `json:"id"`
	Product   ID     `json:"product"`
	File      string `json:"file,omitempty"`
	URL       string `json:"url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	AltText   string `json:"alt_text,omitempty"`
}

type Feedback struct {
	ID        ID     `json:"id"`
	Product   ID     `json:"product"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	User      Label  `json:"user,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type FeedbackRequest struct {
	Product ID     `json:"product"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ProductQuery filters the product list. Zero values are omitted.
type ProductQuery struct {
	Category  string
	Published *bool
	MinPrice  int64
	MaxPrice  int64
	Search    string
	Ordering  string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Published != nil {
		v.Set("published", strconv.FormatBool(*q.Published))
	}
	if q.MinPrice > 0 {
		v.Set("min_price", strconv.FormatInt(q.MinPrice, 10))
	}
	if q.MaxPrice > 0 {
		v.Set("max_price", strconv.FormatInt(q.MaxPrice, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	return v
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	out, err := decodeList[T](body)
	if err != nil {
		return nil, &Error{Status: http.StatusOK, Message: "Unexpected response from server", Err: err}
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	return getList[Product](ctx, c, "/products/products/", q.values())
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.call(ctx, request{method: http.MethodGet, path: "/products/products/" + url.PathEscape(id) + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return getList[Category](ctx, c, "/products/categories/", nil)
}

func (c *Client) ListProductMedia(ctx context.Context, productID string) ([]Media, error) {
	return getList[Media](ctx, c, "/products/media/", url.Values{"product": {productID}})
}

func (c *Client) ListProductFeedback(ctx context.Context, productID string) ([]Feedback, error) {
	return getList[Feedback](ctx, c, "/products/feedback/", url.Values{"product": {productID}})
}

// CreateFeedback posts a review on behalf of the holder of token.
func (c *Client) CreateFeedback(ctx context.Context, token string, in FeedbackRequest) (*Feedback, error) {
	var out Feedback
	if err := c.call(ctx, request{method: http.MethodPost, path: "/products/feedback/", token: token, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

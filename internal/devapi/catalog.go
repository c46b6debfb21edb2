package devapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type product struct {
	ID          int
	Name        string
	Slug        string
	Description string
	Price       int64
	Currency    string
	Image       string
	CategoryID  int
	Published   bool
}

type media struct {
	ID        int    `json:"id"`
	Product   int    `json:"product"`
	File      string `json:"file"`
	MediaType string `json:"media_type"`
	AltText   string `json:"alt_text"`
}

type feedback struct {
	ID        int    `json:"id"`
	Product   int    `json:"product"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

type catalog struct {
	categories []category
	products   []product
	media      []media
	feedback   []feedback
}

func seedCatalog() *catalog {
	return &catalog{
		categories: []category{
			{ID: 1, Name: "Home Decor", Slug: "home-decor"},
			{ID: 2, Name: "Accessories", Slug: "accessories"},
			{ID: 3, Name: "Toys", Slug: "toys"},
		},
		products: []product{
			{ID: 1, Name: "Geometric Planter", Slug: "geometric-planter", Description: "Faceted planter printed in PLA or PETG.", Price: 15000, Currency: "RWF", Image: "/media/products/planter.png", CategoryID: 1, Published: true},
			{ID: 2, Name: "Minimalist Phone Stand", Slug: "minimalist-phone-stand", Description: "Single-piece stand for phones and small tablets.", Price: 8000, Currency: "RWF", Image: "/media/products/stand.png", CategoryID: 2, Published: true},
			{ID: 3, Name: "Articulated Dragon", Slug: "articulated-dragon", Description: "Print-in-place dragon in silk PLA.", Price: 25000, Currency: "RWF", Image: "/media/products/dragon.png", CategoryID: 3, Published: true},
			{ID: 4, Name: "Lithophane Lamp", Slug: "lithophane-lamp", Description: "Custom photo lamp. Coming soon.", Price: 32000, Currency: "RWF", Image: "/media/products/lamp.png", CategoryID: 1, Published: false},
		},
		media: []media{
			{ID: 1, Product: 1, File: "/media/products/planter-side.png", MediaType: "image", AltText: "Planter side view"},
			{ID: 2, Product: 3, File: "/media/products/dragon.mp4", MediaType: "video", AltText: "Dragon articulation"},
		},
		feedback: []feedback{
			{ID: 1, Product: 1, Rating: 5, Comment: "Great finish.", User: "Aline", CreatedAt: "2025-11-02T09:00:00Z"},
		},
	}
}

func (c *catalog) categoryByID(id int) *category {
	for i := range c.categories {
		if c.categories[i].ID == id {
			return &c.categories[i]
		}
	}
	return nil
}

// wire renders p the way the remote API does: decimal string price and a
// nested category object.
func (c *catalog) wire(p product) gin.H {
	out := gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       fmt.Sprintf("%d.00", p.Price),
		"currency":    p.Currency,
		"image":       p.Image,
		"published":   p.Published,
	}
	if cat := c.categoryByID(p.CategoryID); cat != nil {
		out["category"] = cat
	}
	return out
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]product, 0, len(s.catalog.products))
	for _, p := range s.catalog.products {
		if s.productMatches(c, p) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, c.Query("ordering"))

	results := make([]gin.H, 0, len(matched))
	for _, p := range matched {
		results = append(results, s.catalog.wire(p))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "next": nil, "previous": nil, "results": results})
}

// productMatches must be called with mu held.
func (s *Server) productMatches(c *gin.Context, p product) bool {
	if raw := c.Query("published"); raw != "" {
		want, err := strconv.ParseBool(raw)
		if err == nil && p.Published != want {
			return false
		}
	}
	if raw := c.Query("category"); raw != "" {
		cat := s.catalog.categoryByID(p.CategoryID)
		if cat == nil || (cat.Slug != raw && strconv.Itoa(cat.ID) != raw) {
			return false
		}
	}
	if lo, err := strconv.ParseInt(c.Query("min_price"), 10, 64); err == nil && p.Price < lo {
		return false
	}
	if hi, err := strconv.ParseInt(c.Query("max_price"), 10, 64); err == nil && p.Price > hi {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("search"))); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func sortProducts(list []product, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	var less func(a, b product) bool
	switch field {
	case "price":
		less = func(a, b product) bool { return a.Price < b.Price }
	case "name":
		less = func(a, b product) bool { return a.Name < b.Name }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.catalog.products {
		if p.ID == id {
			c.JSON(http.StatusOK, s.catalog.wire(p))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.catalog.categories)
}

func (s *Server) listMedia(c *gin.Context) {
	productID, _ := strconv.Atoi(c.Query("product"))
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]media, 0)
	for _, m := range s.catalog.media {
		if productID == 0 || m.Product == productID {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listFeedback(c *gin.Context) {
	productID, _ := strconv.Atoi(c.Query("product"))
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]feedback, 0)
	for _, f := range s.catalog.feedback {
		if productID == 0 || f.Product == productID {
			out = append(out, f)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "results": out})
}

func (s *Server) createFeedback(c *gin.Context) {
	cl, ok := s.bearer(c)
	if !ok {
		return
	}
	var in struct {
		Product int    `json:"product"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"rating": []string{"Ensure this value is between 1 and 5."}})
		return
	}

	author := s.accountByID(cl.Subject)
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, p := range s.catalog.products {
		if p.ID == in.Product {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"product": []string{"Invalid pk - object does not exist."}})
		return
	}

	name := "Customer"
	if author != nil {
		name = author.FullName
	}
	fb := feedback{
		ID:        len(s.catalog.feedback) + 1,
		Product:   in.Product,
		Rating:    in.Rating,
		Comment:   in.Comment,
		User:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.catalog.feedback = append(s.catalog.feedback, fb)
	c.JSON(http.StatusCreated, fb)
}

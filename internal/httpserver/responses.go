package httpserver

import (
	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/session"
)

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
	Count int               `json:"count"`
}

func toCartResponse(st domain.CartState) cartResponse {
	items := st.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{Items: items, Total: st.Total, Count: len(items)}
}

type sessionResponse struct {
	Status        domain.SessionStatus `json:"status"`
	Authenticated bool                 `json:"authenticated"`
	User          *domain.User         `json:"user"`
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
}

func toSessionResponse(s session.Snapshot) sessionResponse {
	return sessionResponse{
		Status:        s.Status,
		Authenticated: s.Authenticated(),
		User:          s.User,
		Loading:       s.Loading,
		Error:         s.Error,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

package intake

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/site"
	"rwooga-storefront/internal/storage"
	"rwooga-storefront/internal/validation"
)

func newService() (*Service, *site.Store) {
	st := site.New(storage.Scope(storage.NewMemory(), storage.SiteScope, nil))
	return New(st, "+250 784 269 593", nil), st
}

func validRequest() RequestInput {
	return RequestInput{
		Name:        "Aline",
		Email:       "aline@example.com",
		ProjectType: "Prototype",
		Description: "Drone arm bracket",
		Deadline:    "2026-04-01",
	}
}

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	sub, err := svc.SubmitRequest(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, sub.Request.ID)
	assert.True(t, strings.HasPrefix(sub.WhatsAppURL, "https://wa.me/250784269593?text=Hi%20Rwooga%21"))
	assert.Contains(t, sub.WhatsAppURL, "Type%3A%20Prototype")

	stored := st.Requests(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, sub.Request.ID, stored[0].ID)
}

func TestSubmitRequest_ClosedIntake(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()
	require.NoError(t, st.SetCustomPrinting(ctx, false))

	_, err := svc.SubmitRequest(ctx, validRequest())
	assert.ErrorIs(t, err, domain.ErrIntakeClosed)
	assert.Empty(t, st.Requests(ctx))
}

func TestSubmitRequest_Validation(t *testing.T) {
	svc, _ := newService()
	in := validRequest()
	in.Email = "not-an-email"
	_, err := svc.SubmitRequest(context.Background(), in)
	verrs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "email", verrs[0].Field)
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()
	require.NoError(t, st.SetCustomPrinting(ctx, false))

	msg, err := svc.SubmitContact(ctx, ContactInput{Name: "Eric", Email: "eric@example.com", Message: " Hello "})
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Message)
	assert.Len(t, st.Messages(ctx), 1)

	_, err = svc.SubmitContact(ctx, ContactInput{Name: "Eric", Email: "eric@example.com"})
	require.Error(t, err)
}

func TestSettings(t *testing.T) {
	svc, _ := newService()
	got := svc.Settings(context.Background())
	assert.True(t, got.CustomPrintingEnabled)
	assert.Equal(t, "https://wa.me/250784269593", got.WhatsAppURL)
}

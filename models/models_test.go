package models

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusProcessing.CanTransitionTo(StatusShipped))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusShipped.CanTransitionTo(StatusOutForDelivery))
	assert.True(t, StatusOutForDelivery.CanTransitionTo(StatusDelivered))
	assert.True(t, StatusDelivered.CanTransitionTo(StatusDelivered))

	assert.False(t, StatusProcessing.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusOutForDelivery.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusProcessing))

	assert.False(t, StatusDelivered.CanTransitionTo(StatusProcessing))
	assert.False(t, OrderStatus("Lost").Valid())
}

func TestOrderTotals(t *testing.T) {
	items := []OrderItem{
		{ProductID: "light-soils-blend", Price: 550, Quantity: 2},
		{ProductID: "turkish-blend", Price: 600, Quantity: 1},
	}
	assert.Equal(t, int64(1700), ItemsTotal(items))

	o := Order{}
	assert.Empty(t, o.City())
	o.DeliveryAddress = &DeliveryAddress{City: "Pune", Pincode: "411001"}
	assert.Equal(t, "Pune", o.City())
	assert.Equal(t, "411001", o.Pincode())
}

func TestCart(t *testing.T) {
	c := &Cart{Phone: "9876543210"}
	c.AddItem(CartItem{ProductID: "a", Price: 100, Quantity: 1})
	c.AddItem(CartItem{ProductID: "b", Price: 250, Quantity: 2})
	c.AddItem(CartItem{ProductID: "a", Price: 100, Quantity: 3})

	require.Len(t, c.Items, 2)
	assert.Equal(t, 6, c.Count())
	assert.Equal(t, int64(900), c.Total())

	items := c.OrderItems()
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[0].Quantity)

	c.RemoveItem("a")
	assert.Equal(t, int64(500), c.Total())
	c.RemoveItem("b")
	assert.Zero(t, c.Count())
}

func TestProductNormalize(t *testing.T) {
	p, err := ProductInput{Name: "  Dark Soils Blend ", Price: 580}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "dark-soils-blend", p.ID)
	assert.Equal(t, "Dark Soils Blend", p.Name)
	assert.True(t, p.IsAvailable)
	assert.NotNil(t, p.Images)

	hidden := true
	p, err = ProductInput{ID: "custom", Name: "X", Price: 1, IsHidden: &hidden}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "custom", p.ID)
	assert.True(t, p.IsHidden)
	assert.False(t, p.OnStorefront())

	_, err = ProductInput{Name: "X", Price: 1, Tag: &Tag{Label: "New", Color: "red"}}.Normalize()
	assert.True(t, IsValidation(err))
}

func TestProductImages(t *testing.T) {
	p := &Product{Images: []string{"a", "b", "c"}}

	require.NoError(t, p.MoveImage(0, MoveRight))
	assert.Equal(t, []string{"b", "a", "c"}, p.Images)
	require.NoError(t, p.MoveImage(2, MoveLeft))
	assert.Equal(t, []string{"b", "c", "a"}, p.Images)

	assert.Error(t, p.MoveImage(2, MoveRight))
	assert.Error(t, p.MoveImage(1, "up"))
	assert.Error(t, p.RemoveImage(3))

	require.NoError(t, p.RemoveImage(0))
	assert.Equal(t, "c", p.CoverImage())

	for len(p.Images) < MaxProductImages {
		require.NoError(t, p.AddImage("x"))
	}
	assert.ErrorIs(t, p.AddImage("y"), ErrTooManyImages)
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.True(t, IsValidation(ValidatePhone("987654321")))
	assert.True(t, IsValidation(ValidatePhone("98765abcde")))
}

func TestProfileState(t *testing.T) {
	var missing *UserProfile
	assert.False(t, missing.Onboarded())
	assert.False(t, missing.HasAddress())

	p := &UserProfile{Name: "Asha"}
	assert.True(t, p.Onboarded())
	assert.False(t, p.HasAddress())
}

func TestSettingsMerge(t *testing.T) {
	defaults := DefaultSettings()

	assert.Equal(t, defaults, SettingsDocument{}.Merge(defaults))

	custom := defaults
	custom.HeroImage = "/monsoon.jpg"
	assert.Equal(t, custom, custom.Document().Merge(defaults))

	banner := AnnouncementBanner{Text: "Closed for Diwali"}
	merged := SettingsDocument{AnnouncementBanner: &banner}.Merge(defaults)
	assert.Equal(t, banner, merged.AnnouncementBanner)
	assert.Equal(t, defaults.HeroText, merged.HeroText)
}

func TestUPIIntentURL(t *testing.T) {
	link := UPIPayment{PayeeID: "fuko@upi", PayeeName: "Fuko Store", Amount: 1100, Note: "Order Payment"}.IntentURL()
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	q, err := url.ParseQuery(strings.TrimPrefix(link, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "fuko@upi", q.Get("pa"))
	assert.Equal(t, "Fuko Store", q.Get("pn"))
	assert.Equal(t, "1100", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
}

func TestErrorClassification(t *testing.T) {
	err := NewValidationError("name", "is required")
	assert.True(t, IsValidation(err))
	assert.False(t, IsPersistence(err))

	wrapped := &PersistenceError{Op: "insert order", Err: errors.New("timeout")}
	assert.True(t, IsPersistence(wrapped))
	assert.Contains(t, wrapped.Error(), "insert order")
}

func TestEventOrderID(t *testing.T) {
	assert.Equal(t, "ORD-1", EventOrderID(OrderPlaced{Order: Order{ID: "ORD-1"}}))
	assert.Equal(t, "ORD-2", EventOrderID(OrderStatusChanged{OrderID: "ORD-2"}))
	assert.Equal(t, "ORD-3", EventOrderID(PaymentVerificationChanged{OrderID: "ORD-3"}))
	assert.Equal(t, "ORD-4", EventOrderID(OrderDeleted{OrderID: "ORD-4"}))
}

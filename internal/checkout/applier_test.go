package checkout

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/stretchr/testify/assert"
)

func newTestApplier() *Applier {
	return NewApplier(DefaultSelectors(), DefaultClassifier(), DefaultMessages(), DefaultTimeouts(), slog.Default())
}

func TestApplyPromoCodeAccepted(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	field := &fakeElement{body: "Your code has been applied! You saved $5.00"}
	apply := &fakeElement{}
	page.elements[sel.PromoInputs[0]] = field
	page.elements[sel.Apply[0]] = apply

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "SAVE10", models.RegionUS)

	assert.Equal(t, models.ValidationOutcome{Valid: true, Message: "Code applied", Savings: "$5.00"}, outcome)
	assert.True(t, field.cleared)
	assert.Equal(t, "SAVE10", field.typed)
	assert.Equal(t, 20*time.Millisecond, field.delay)
	assert.Equal(t, 1, apply.clicks)
	assert.Equal(t, []time.Duration{3500 * time.Millisecond}, page.waits)
}

func TestApplyPromoCodeRejected(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	page.elements[sel.PromoInputs[1]] = &fakeElement{body: "This code is invalid or expired"}

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "BOGUS1", models.RegionEU)

	assert.False(t, outcome.Valid)
	assert.Equal(t, "Ongeldige of verlopen code", outcome.Message)
	assert.Empty(t, outcome.Savings)
}

func TestApplyPromoCodeNoField(t *testing.T) {
	page := newFakePage()
	page.body = "Your cart is empty"

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "SAVE10", models.RegionUS)

	assert.Equal(t, models.ValidationOutcome{Valid: false, Message: "Could not find the promo field or no feedback"}, outcome)
	assert.Empty(t, page.waits, "nothing is submitted without a field")
}

func TestApplyPromoCodeInconclusiveMovesOn(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	first := &fakeElement{body: "Order summary"}
	page.queryErr[sel.PromoInputs[1]] = errors.New("frame detached")
	third := &fakeElement{body: "Promotion applied: save 15%"}
	page.elements[sel.PromoInputs[0]] = first
	page.elements[sel.PromoInputs[2]] = third

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "CROCS15", models.RegionUS)

	assert.True(t, outcome.Valid)
	assert.Equal(t, "save 15%", outcome.Savings)
	assert.Equal(t, "CROCS15", first.typed)
	assert.Equal(t, "CROCS15", third.typed)
	assert.Len(t, page.waits, 2)
}

func TestApplyPromoCodeAllInconclusive(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	for _, s := range sel.PromoInputs {
		page.elements[s] = &fakeElement{body: "Order summary"}
	}

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "SAVE10", models.RegionEU)

	assert.False(t, outcome.Valid)
	assert.Equal(t, "Kon veld niet vinden of geen feedback", outcome.Message)
	assert.Len(t, page.waits, len(sel.PromoInputs))
}

func TestApplyPromoCodeFirstSelectorWins(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	page.elements[sel.PromoInputs[0]] = &fakeElement{body: "Code is not valid"}
	page.elements[sel.PromoInputs[3]] = &fakeElement{body: "Success!"}

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "NOPE12", models.RegionUS)

	assert.False(t, outcome.Valid)
	assert.Equal(t, "Invalid or expired code", outcome.Message)
}

func TestApplyPromoCodeFallsBackToSecondApplyLabel(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	page.elements[sel.PromoInputs[0]] = &fakeElement{body: "Korting toegepast, discount €5,00"}
	toepassen := &fakeElement{}
	named := &fakeElement{}
	page.elements[sel.Apply[1]] = toepassen
	page.elements[sel.Apply[2]] = named

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "CROCSEU5", models.RegionEU)

	assert.True(t, outcome.Valid)
	assert.Equal(t, "€5,00", outcome.Savings)
	assert.Equal(t, 1, toepassen.clicks)
	assert.Zero(t, named.clicks)
}

func TestApplyPromoCodeBodyUnreadable(t *testing.T) {
	sel := DefaultSelectors()
	page := newFakePage()
	page.elements[sel.PromoInputs[0]] = &fakeElement{}
	page.bodyErr = errors.New("target closed")

	outcome := newTestApplier().ApplyPromoCode(context.Background(), page, "SAVE10", models.RegionUS)

	assert.False(t, outcome.Valid)
	assert.Equal(t, "Could not find the promo field or no feedback", outcome.Message)
}

func TestClassify(t *testing.T) {
	c := DefaultClassifier()

	tests := []struct {
		name    string
		text    string
		verdict Verdict
		savings string
	}{
		{"Applied with dollar amount", "Your code has been applied! You saved $5.00", Accepted, "$5.00"},
		{"Applied with space after dollar", "Success - $ 12 off", Accepted, "$ 12"},
		{"Currency preferred over percent", "Discount: save 20% ($8.00)", Accepted, "$8.00"},
		{"Percent only", "Promotion applied. Save 10% today", Accepted, "Save 10%"},
		{"Euro suffix", "Korting toegepast: discount 7,50 €", Accepted, "7,50 €"},
		{"Thousands separator", "Discount applied. You saved $1,299.00", Accepted, "$1,299.00"},
		{"Euro suffix single decimal", "Promotion applied, you save 12,5 €", Accepted, "12,5 €"},
		{"Euro suffix with thousands", "Korting toegepast: discount 1.299,50 €", Accepted, "1.299,50 €"},
		{"Euro prefix", "Discount applied: €10 off", Accepted, "€10"},
		{"Pound grouped", "Success! You saved £1,050", Accepted, "£1,050"},
		{"Applied without amount", "Promotion applied", Accepted, ""},
		{"Invalid", "This code is invalid or expired", Rejected, ""},
		{"Dutch invalid", "Deze code is ongeldig", Rejected, ""},
		{"Dutch cannot", "Code kan niet worden gebruikt", Rejected, ""},
		{"Nothing", "Order summary Subtotal", Inconclusive, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, savings := c.Classify(tt.text)
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.savings, savings)
		})
	}
}

func TestMessagesFallback(t *testing.T) {
	m := DefaultMessages()
	assert.Equal(t, m[models.RegionUS], m.For(models.Region("apac")))
	assert.Equal(t, "Fout bij testen", m.For(models.RegionEU).Failed)
}

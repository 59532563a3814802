package service

import (
	"context"
	"testing"
	"time"
)

func TestSessionValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	start := time.Now()
	end := start.Add(time.Hour)

	cases := []struct {
		name string
		in   SessionInput
	}{
		{"missing name", SessionInput{StartDate: &start, EndDate: &end, SaleCommission: dec("0.1")}},
		{"end before start", SessionInput{Name: ptr("x"), StartDate: &end, EndDate: &start, SaleCommission: dec("0.1")}},
		{"commission above one", SessionInput{Name: ptr("x"), StartDate: &start, EndDate: &end, SaleCommission: dec("10")}},
		{"missing commission", SessionInput{Name: ptr("x"), StartDate: &start, EndDate: &end}},
		{"commission past four places", SessionInput{Name: ptr("x"), StartDate: &start, EndDate: &end, SaleCommission: dec("0.12345")}},
		{"deposit fee past cents", SessionInput{Name: ptr("x"), StartDate: &start, EndDate: &end, SaleCommission: dec("0.1"), DepositFee: dec("1.005")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.sessions.Create(ctx, tc.in)
			assertKind(t, err, ErrBadRequest)
		})
	}
}

func TestSessionOpenChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	open := e.openSession(t, "0.1")
	e.session(t, time.Now().Add(48*time.Hour), time.Now().Add(72*time.Hour), "0.1")

	ok, err := e.sessions.IsOpen(ctx, open.ID)
	if err != nil || !ok {
		t.Fatalf("IsOpen: %v %v", ok, err)
	}
	list, err := e.sessions.OpenSessions(ctx)
	if err != nil || len(list) != 1 || list[0].ID != open.ID {
		t.Fatalf("OpenSessions: %v %v", list, err)
	}
	_, err = e.sessions.IsOpen(ctx, "missing")
	assertKind(t, err, ErrNotFound)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	seller := e.seller(t)
	updated, err := e.sellers.Update(ctx, seller.ID, SellerInput{Phone: ptr("555-0100")})
	if err != nil {
		t.Fatalf("Update seller: %v", err)
	}
	if updated.Name != "Ada" || updated.Email != "ada@example.com" || updated.Phone != "555-0100" {
		t.Errorf("unexpected seller %+v", updated)
	}

	sess := e.openSession(t, "0.1")
	us, err := e.sessions.Update(ctx, sess.ID, SessionInput{Name: ptr("Autumn fair")})
	if err != nil {
		t.Fatalf("Update session: %v", err)
	}
	if us.Name != "Autumn fair" || !us.SaleCommission.Equal(sess.SaleCommission) || !us.EndDate.Equal(sess.EndDate) {
		t.Errorf("unexpected session %+v", us)
	}

	client := e.client(t)
	uc, err := e.clients.Update(ctx, client.ID, ClientInput{Address: ptr("12 Main St")})
	if err != nil {
		t.Fatalf("Update client: %v", err)
	}
	if uc.Address != "12 Main St" || uc.Name != "Bob" {
		t.Errorf("unexpected client %+v", uc)
	}

	_, err = e.sellers.Update(ctx, seller.ID, SellerInput{Email: ptr("")})
	assertKind(t, err, ErrBadRequest)
	_, err = e.clients.Update(ctx, "missing", ClientInput{})
	assertKind(t, err, ErrNotFound)
}

func TestGameDescriptionRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.Create(ctx, GameDescriptionInput{Name: ptr("Bad"), MinPlayers: ptr(5), MaxPlayers: ptr(2)})
	assertKind(t, err, ErrBadRequest)
	_, err = e.catalog.Create(ctx, GameDescriptionInput{})
	assertKind(t, err, ErrBadRequest)

	g := e.description(t)
	_, err = e.catalog.Update(ctx, g.ID, GameDescriptionInput{MinPlayers: ptr(6)})
	assertKind(t, err, ErrBadRequest)

	if err := e.catalog.Remove(ctx, g.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, err = e.catalog.FindOne(ctx, g.ID)
	assertKind(t, err, ErrNotFound)
}

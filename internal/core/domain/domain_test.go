package domain

import (
	"errors"
	"testing"
)

func TestRole_AtLeast(t *testing.T) {
	cases := []struct {
		have, need Role
		want       bool
	}{
		{RoleAnonymous, RoleAnonymous, true},
		{RoleAnonymous, RoleUser, false},
		{RoleUser, RoleAnonymous, true},
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, true},
		{Role("root"), RoleAnonymous, false},
		{RoleAdmin, Role("root"), false},
	}

	for _, tc := range cases {
		if got := tc.have.AtLeast(tc.need); got != tc.want {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", tc.have, tc.need, got, tc.want)
		}
	}
}

func TestIdentity_Authenticated(t *testing.T) {
	if Anonymous().Authenticated() {
		t.Error("anonymous identity must not be authenticated")
	}
	if (Identity{Role: RoleUser}).Authenticated() {
		t.Error("identity without user id must not be authenticated")
	}
	if !(Identity{UserID: "u1", Role: RoleUser}).Authenticated() {
		t.Error("user identity should be authenticated")
	}
}

func TestUser_Identity(t *testing.T) {
	admin := &User{ID: "1", Username: "admin", IsAdmin: true}
	if id := admin.Identity(); id.Role != RoleAdmin || !id.IsAdmin() {
		t.Errorf("expected admin identity, got %+v", id)
	}

	guest := &User{ID: "2", Username: "alice"}
	if id := guest.Identity(); id.Role != RoleUser || id.UserID != "2" {
		t.Errorf("expected user identity, got %+v", id)
	}
}

func TestRoomStatus_Transitions(t *testing.T) {
	if !RoomAvailable.CanTransitionTo(RoomBooked) {
		t.Error("available -> booked must be allowed")
	}
	if RoomBooked.CanTransitionTo(RoomAvailable) {
		t.Error("booked -> available must not be allowed")
	}
	if RoomBooked.CanTransitionTo(RoomBooked) {
		t.Error("booked -> booked must not be allowed")
	}
}

func TestHotelDetail_AvailableRooms(t *testing.T) {
	d := &HotelDetail{Rooms: []Room{{IsBooked: true}, {}, {}}}
	if got := d.AvailableRooms(); got != 2 {
		t.Errorf("expected 2 available rooms, got %d", got)
	}
}

func TestErrors_NotFoundFamily(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrHotelNotFound, ErrRoomNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v should match ErrNotFound", err)
		}
	}
}

func TestValidationError_Is(t *testing.T) {
	err := error(NewValidationError("age", "must be at least 18"))
	if !errors.Is(err, ErrValidation) {
		t.Fatal("ValidationError should match ErrValidation")
	}
	if err.Error() != "age must be at least 18" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "age" {
		t.Errorf("errors.As should expose the field, got %+v", ve)
	}
}

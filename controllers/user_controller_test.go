package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/utils"
)

func updatePayload() map[string]interface{} {
	return map[string]interface{}{
		"email":    "ana@example.com",
		"username": "ana",
		"birthday": "1990-05-10",
		"gender":   "Masculino",
	}
}

func TestUpdateUserProfileFields(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)

	payload := updatePayload()
	payload["email"] = "ana.new@example.com"
	payload["gender"] = "Femenino"

	w := doRequest(t, r, http.MethodPut, fmt.Sprintf("/users/%d", user.ID), payload, token)
	expectStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["credentials_changed"] != false {
		t.Fatalf("expected credentials_changed=false, got %v", data["credentials_changed"])
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.Email != "ana.new@example.com" || stored.Gender != "Femenino" {
		t.Fatalf("update not applied: %+v", stored)
	}
}

func TestUpdateUserPasswordChange(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d", user.ID)

	// Missing current password.
	payload := updatePayload()
	payload["new_password"] = "newPass123!@"
	w := doRequest(t, r, http.MethodPut, path, payload, token)
	expectStatus(t, w, http.StatusBadRequest)

	// Wrong current password.
	payload["current_password"] = "not-the-password1@"
	w = doRequest(t, r, http.MethodPut, path, payload, token)
	expectStatus(t, w, http.StatusUnauthorized)

	// Correct current password rotates the hash.
	payload["current_password"] = testPassword
	w = doRequest(t, r, http.MethodPut, path, payload, token)
	expectStatus(t, w, http.StatusOK)
	data := decodeData(t, w)
	if data["credentials_changed"] != true {
		t.Fatalf("expected credentials_changed=true, got %v", data["credentials_changed"])
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !utils.CheckPassword(stored.PasswordHash, "newPass123!@") {
		t.Fatal("new password does not verify")
	}
	if utils.CheckPassword(stored.PasswordHash, testPassword) {
		t.Fatal("old password still verifies")
	}
}

func TestUpdateUserConflicts(t *testing.T) {
	r, db := newTestRouter(t)
	user := createTestUser(t, db, "ana", "ana@example.com")
	createTestUser(t, db, "eva", "eva@example.com")
	token := tokenFor(t, user)
	path := fmt.Sprintf("/users/%d", user.ID)

	payload := updatePayload()
	payload["email"] = "eva@example.com"
	w := doRequest(t, r, http.MethodPut, path, payload, token)
	expectStatus(t, w, http.StatusConflict)

	payload = updatePayload()
	payload["username"] = "eva"
	w = doRequest(t, r, http.MethodPut, path, payload, token)
	expectStatus(t, w, http.StatusConflict)
}

func TestUpdateUserRequiresMatchingToken(t *testing.T) {
	r, db := newTestRouter(t)
	createTestUser(t, db, "ana", "ana@example.com")
	other := createTestUser(t, db, "eva", "eva@example.com")

	// eva's token cannot update ana's profile.
	w := doRequest(t, r, http.MethodPut, "/users/1", updatePayload(), tokenFor(t, other))
	expectStatus(t, w, http.StatusUnauthorized)

	// No token at all.
	w = doRequest(t, r, http.MethodPut, "/users/1", updatePayload(), "")
	expectStatus(t, w, http.StatusUnauthorized)
}
